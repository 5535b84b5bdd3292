package gitrepo

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"

	"github.com/kingrea/changeset/internal/config"
	"github.com/kingrea/changeset/internal/workspace"
)

// ChangedFilesSince lists repo-relative files that differ between the merge
// base of ref and HEAD, plus anything modified, staged or untracked in the
// working tree.
func (r *Repo) ChangedFilesSince(ctx context.Context, ref string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, head, err := r.divergedAt(ref)
	if err != nil {
		return nil, err
	}
	files := map[string]struct{}{}
	if base.Hash != head.Hash {
		baseTree, err := base.Tree()
		if err != nil {
			return nil, fmt.Errorf("gitrepo: tree of %s: %w", base.Hash, err)
		}
		headTree, err := head.Tree()
		if err != nil {
			return nil, fmt.Errorf("gitrepo: tree of HEAD: %w", err)
		}
		changes, err := object.DiffTreeContext(ctx, baseTree, headTree)
		if err != nil {
			return nil, fmt.Errorf("gitrepo: diff %s..HEAD: %w", ref, err)
		}
		for _, change := range changes {
			if change.From.Name != "" {
				files[change.From.Name] = struct{}{}
			}
			if change.To.Name != "" {
				files[change.To.Name] = struct{}{}
			}
		}
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("gitrepo: worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("gitrepo: status: %w", err)
	}
	for name, file := range status {
		if file.Staging == git.Unmodified && file.Worktree == git.Unmodified {
			continue
		}
		files[name] = struct{}{}
	}
	out := make([]string, 0, len(files))
	for name := range files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// divergedAt returns the merge base of ref and HEAD together with HEAD.
func (r *Repo) divergedAt(ref string) (*object.Commit, *object.Commit, error) {
	headRef, err := r.repo.Head()
	if err != nil {
		return nil, nil, fmt.Errorf("gitrepo: resolve HEAD: %w", err)
	}
	head, err := r.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, nil, fmt.Errorf("gitrepo: HEAD commit: %w", err)
	}
	baseHash, err := r.resolve(ref)
	if err != nil {
		return nil, nil, err
	}
	baseCommit, err := r.repo.CommitObject(baseHash)
	if err != nil {
		return nil, nil, fmt.Errorf("gitrepo: commit for %s: %w", ref, err)
	}
	bases, err := head.MergeBase(baseCommit)
	if err != nil {
		return nil, nil, fmt.Errorf("gitrepo: merge base of %s and HEAD: %w", ref, err)
	}
	if len(bases) == 0 {
		return nil, nil, fmt.Errorf("gitrepo: %s and HEAD share no history", ref)
	}
	return bases[0], head, nil
}

// resolve tries ref as given, then as a branch of the origin remote.
func (r *Repo) resolve(ref string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return *hash, nil
	}
	if !strings.Contains(ref, "/") {
		if remote, remoteErr := r.repo.ResolveRevision(plumbing.Revision("origin/" + ref)); remoteErr == nil {
			return *remote, nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("gitrepo: resolve base %q: %w", ref, err)
}

// ChangedPackages returns the packages owning at least one file changed since
// ref, in the order given. Each file belongs to the package whose directory is
// its longest prefix. Files in .changeset are never attributed to a package.
func (r *Repo) ChangedPackages(ctx context.Context, ref string, pkgs []workspace.Package) ([]workspace.Package, error) {
	files, err := r.ChangedFilesSince(ctx, ref)
	if err != nil {
		return nil, err
	}
	prefix, err := r.workspacePrefix(pkgs)
	if err != nil {
		return nil, err
	}
	return packagesForFiles(files, prefix, pkgs), nil
}

// workspacePrefix is the workspace root relative to the repository root,
// for workspaces that live in a subdirectory of the repository.
func (r *Repo) workspacePrefix(pkgs []workspace.Package) (string, error) {
	if len(pkgs) == 0 {
		return "", nil
	}
	pkg := pkgs[0]
	pkgRel, err := r.relative(pkg.Dir)
	if err != nil {
		return "", err
	}
	prefix := strings.TrimSuffix(pkgRel, strings.TrimPrefix(pkg.RelDir, "."))
	prefix = strings.Trim(prefix, "/")
	if prefix == "." {
		return "", nil
	}
	return prefix, nil
}

func packagesForFiles(files []string, prefix string, pkgs []workspace.Package) []workspace.Package {
	hits := make(map[string]bool, len(pkgs))
	for _, file := range files {
		rel := file
		if prefix != "" {
			if !strings.HasPrefix(file, prefix+"/") {
				continue
			}
			rel = strings.TrimPrefix(file, prefix+"/")
		}
		if rel == config.ChangesetDir || strings.HasPrefix(rel, config.ChangesetDir+"/") {
			continue
		}
		if owner := owningPackage(rel, pkgs); owner != "" {
			hits[owner] = true
		}
	}
	var out []workspace.Package
	for _, pkg := range pkgs {
		if hits[pkg.Name] {
			out = append(out, pkg)
		}
	}
	return out
}

func owningPackage(file string, pkgs []workspace.Package) string {
	best, bestLen := "", -1
	for _, pkg := range pkgs {
		dir := path.Clean(pkg.RelDir)
		if dir == "." {
			if bestLen < 0 {
				best, bestLen = pkg.Name, 0
			}
			continue
		}
		if (file == dir || strings.HasPrefix(file, dir+"/")) && len(dir) > bestLen {
			best, bestLen = pkg.Name, len(dir)
		}
	}
	return best
}
