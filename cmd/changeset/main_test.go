package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/config"
	"github.com/kingrea/changeset/internal/create"
	"github.com/kingrea/changeset/internal/gitrepo"
	"github.com/kingrea/changeset/internal/prompt"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testStreams() (streams, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return streams{
		in:     strings.NewReader(""),
		out:    &out,
		errOut: &errOut,
		getenv: func(string) string { return "" },
	}, &out, &errOut
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	st, out, errOut := testStreams()
	cmd := rootCmd(st)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func npmWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","private":true,"workspaces":["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages", "a", "package.json"), `{"name":"pkg-a","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "b", "package.json"), `{"name":"pkg-b","version":"1.0.0"}`)
	return root
}

// gitWorkspace commits npmWorkspace on main and then changes pkg-b.
func gitWorkspace(t *testing.T) string {
	t.Helper()
	root := npmWorkspace(t)
	wt := osfs.New(root)
	dotgit, err := wt.Chroot(".git")
	require.NoError(t, err)
	storer := filesystem.NewStorageWithOptions(dotgit, cache.NewObjectLRUDefault(), filesystem.Options{})
	repo, err := git.Init(storer, git.WithWorkTree(wt))
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(".")
	require.NoError(t, err)
	hash, err := worktree.Commit("initial", &git.CommitOptions{Author: &object.Signature{
		Name:  "Tester",
		Email: "tester@example.com",
		When:  time.Unix(1700000000, 0),
	}})
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash)))

	writeFile(t, filepath.Join(root, "packages", "b", "index.js"), "// changed\n")
	return root
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "changeset version 0.1.0 (build: dev)\n", out)
}

func TestAddEmptyWritesRecordWithoutGit(t *testing.T) {
	for _, args := range [][]string{{"--empty"}, {"add", "--empty"}, {"create", "--empty"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			root := npmWorkspace(t)
			out, _, err := execute(t, append(args, "--cwd", filepath.Join(root, "packages", "a"))...)
			require.NoError(t, err)

			entries, err := os.ReadDir(filepath.Join(root, config.ChangesetDir))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			data, err := os.ReadFile(filepath.Join(root, config.ChangesetDir, entries[0].Name()))
			require.NoError(t, err)
			assert.Equal(t, "---\n---\n\n", string(data))
			assert.Contains(t, out, "Empty Changeset added! - you can now commit it")
			assert.Contains(t, out, entries[0].Name())
		})
	}
}

func TestAddRejectsUnknownBump(t *testing.T) {
	root := npmWorkspace(t)
	_, _, err := execute(t, "add", "--cwd", root, "--bump", "huge", "--summary", "x")
	require.ErrorIs(t, err, changeset.ErrInvalidBumpType)
}

func TestAddEmptyWorkspace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","workspaces":["packages/*"]}`)
	_, _, err := execute(t, "--cwd", root, "--empty")
	require.ErrorIs(t, err, create.ErrEmptyWorkspace)
	assert.Contains(t, err.Error(), "npm workspaces")
}

func TestAddWithoutGitNeedsEmpty(t *testing.T) {
	root := npmWorkspace(t)
	_, _, err := execute(t, "--cwd", root, "--bump", "patch", "--summary", "x")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(root, config.ChangesetDir))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestInitCommand(t *testing.T) {
	root := npmWorkspace(t)
	out, _, err := execute(t, "init", "--cwd", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+filepath.Join(root, config.ChangesetDir))
	assert.FileExists(t, filepath.Join(root, config.ChangesetDir, config.ConfigFile))

	_, errOut, err := execute(t, "init", "--cwd", root)
	require.NoError(t, err)
	assert.Contains(t, errOut, "already have changesets initialized")
}

func TestRunOptionsKeepsAbsentFlagsNil(t *testing.T) {
	st, _, _ := testStreams()
	cmd := addCmd(st, &globalFlags{})
	require.NoError(t, cmd.ParseFlags([]string{"--filter", "pkg-a", "--summary", ""}))
	opts, err := runOptions(cmd, addFlags{filter: "pkg-a"})
	require.NoError(t, err)
	assert.Nil(t, opts.Bump)
	require.NotNil(t, opts.Summary)
	assert.Equal(t, "", *opts.Summary)
	assert.Equal(t, "pkg-a", opts.Filter)
}

func TestAddAbortsWhenStdinIsClosed(t *testing.T) {
	root := gitWorkspace(t)

	done := make(chan error, 1)
	go func() {
		_, _, err := execute(t, "--cwd", root)
		done <- err
	}()
	select {
	case err := <-done:
		require.ErrorIs(t, err, prompt.ErrAborted)
	case <-time.After(10 * time.Second):
		t.Fatal("add kept waiting for input after stdin closed")
	}
	_, statErr := os.Stat(filepath.Join(root, config.ChangesetDir))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestAddEmptyWorkspaceReportedBeforeGit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","workspaces":["packages/*"]}`)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	_, _, err := execute(t, "--cwd", root, "--bump", "patch", "--summary", "x")
	require.ErrorIs(t, err, create.ErrEmptyWorkspace)
}

func TestAddReportsBrokenRepository(t *testing.T) {
	root := npmWorkspace(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	_, _, err := execute(t, "--cwd", root, "--bump", "patch", "--summary", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, gitrepo.ErrRepoNotFound)
	assert.Contains(t, err.Error(), "gitrepo: open")

	_, _, err = execute(t, "--cwd", root, "--empty")
	require.NoError(t, err, "--empty without commits never opens the repository")
}
