// Package gitrepo wraps the git operations the changeset workflow needs:
// finding files changed since a base reference, staging a record and
// committing it. It uses go-git so no git binary is required.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"

	"github.com/kingrea/changeset/internal/config"
)

var (
	// ErrRepoNotFound is returned when no .git directory exists at or above the start directory.
	ErrRepoNotFound = errors.New("gitrepo: repository not found")
	// ErrNothingStaged is returned by Commit when the index matches HEAD.
	ErrNothingStaged = errors.New("gitrepo: nothing staged to commit")
)

// Repo is an opened working tree.
type Repo struct {
	root   string
	repo   *git.Repository
	author config.Author
	now    func() time.Time
}

// Option customizes a Repo.
type Option func(*Repo)

// WithAuthor sets the identity used for commits. A zero author defers to git config.
func WithAuthor(author config.Author) Option {
	return func(r *Repo) {
		r.author = author
	}
}

// WithClock overrides the commit timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(r *Repo) {
		if clock != nil {
			r.now = clock
		}
	}
}

// Open finds the repository containing dir.
func Open(dir string, opts ...Option) (*Repo, error) {
	root, err := findRoot(dir)
	if err != nil {
		return nil, err
	}
	wt := osfs.New(root)
	dotgit, err := wt.Chroot(".git")
	if err != nil {
		return nil, fmt.Errorf("gitrepo: open .git: %w", err)
	}
	storer := filesystem.NewStorageWithOptions(dotgit, cache.NewObjectLRUDefault(), filesystem.Options{})
	repo, err := git.Open(storer, wt)
	if err != nil {
		return nil, fmt.Errorf("gitrepo: open %s: %w", root, err)
	}
	r := &Repo{root: root, repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Root returns the working tree root.
func (r *Repo) Root() string {
	return r.root
}

func findRoot(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("gitrepo: resolve %s: %w", dir, err)
	}
	for {
		info, err := os.Stat(filepath.Join(current, ".git"))
		if err == nil && info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w from %s", ErrRepoNotFound, dir)
		}
		current = parent
	}
}

// Add stages path. Absolute paths are made relative to the working tree.
func (r *Repo) Add(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := r.relative(path)
	if err != nil {
		return err
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("gitrepo: worktree: %w", err)
	}
	if _, err := wt.Add(rel); err != nil {
		return fmt.Errorf("gitrepo: add %s: %w", rel, err)
	}
	return nil
}

// Commit records the index with message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("gitrepo: worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("gitrepo: status: %w", err)
	}
	if !hasStaged(status) {
		return ErrNothingStaged
	}
	opts := &git.CommitOptions{}
	if !r.author.IsZero() {
		opts.Author = &object.Signature{
			Name:  r.author.Name,
			Email: r.author.Email,
			When:  r.now(),
		}
	}
	if _, err := wt.Commit(message, opts); err != nil {
		return fmt.Errorf("gitrepo: commit: %w", err)
	}
	return nil
}

func hasStaged(status git.Status) bool {
	for _, file := range status {
		if file.Staging != git.Unmodified && file.Staging != git.Untracked {
			return true
		}
	}
	return false
}

func (r *Repo) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return "", fmt.Errorf("gitrepo: %s is outside %s: %w", path, r.root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("gitrepo: %s is outside %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}
