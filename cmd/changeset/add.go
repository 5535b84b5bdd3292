package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/config"
	"github.com/kingrea/changeset/internal/create"
	"github.com/kingrea/changeset/internal/editor"
	"github.com/kingrea/changeset/internal/gitrepo"
	"github.com/kingrea/changeset/internal/logbook"
	"github.com/kingrea/changeset/internal/logging"
	"github.com/kingrea/changeset/internal/prompt"
	"github.com/kingrea/changeset/internal/workspace"
)

type addFlags struct {
	empty   bool
	open    bool
	filter  string
	bump    string
	summary string
}

func bindAddFlags(cmd *cobra.Command, flags *addFlags) {
	cmd.Flags().BoolVar(&flags.empty, "empty", false, "Create a changeset with no releases")
	cmd.Flags().BoolVar(&flags.open, "open", false, "Open the new changeset in $VISUAL/$EDITOR")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "Only consider the package with this name")
	cmd.Flags().StringVar(&flags.bump, "bump", "", "Bump type for every selected package (patch, minor, major)")
	cmd.Flags().StringVar(&flags.summary, "summary", "", "Changelog summary; with --bump no questions are asked")
}

func addCmd(st streams, global *globalFlags) *cobra.Command {
	var flags addFlags
	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create"},
		Short:   "Record a new changeset",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, st, *global, flags)
		},
	}
	bindAddFlags(cmd, &flags)
	return cmd
}

// runOptions converts flags into create options. Absent --bump and --summary
// stay nil so an explicitly empty summary is still honoured.
func runOptions(cmd *cobra.Command, flags addFlags) (create.Options, error) {
	opts := create.Options{Empty: flags.empty, Open: flags.open, Filter: flags.filter}
	if cmd.Flags().Changed("bump") {
		bump, err := changeset.ParseBumpType(flags.bump)
		if err != nil {
			return create.Options{}, err
		}
		opts.Bump = &bump
	}
	if cmd.Flags().Changed("summary") {
		summary := flags.summary
		opts.Summary = &summary
	}
	return opts, nil
}

func runAdd(cmd *cobra.Command, st streams, global globalFlags, flags addFlags) error {
	opts, err := runOptions(cmd, flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: global.logLevel, Writer: st.errOut, File: global.logFile})
	if err != nil {
		return err
	}
	defer logger.Close()

	cwd, err := filepath.Abs(global.cwd)
	if err != nil {
		return fmt.Errorf("resolve cwd: %w", err)
	}
	pkgs, err := workspace.Load(cwd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(pkgs.Root)
	if err != nil {
		return err
	}
	logger.Debug("workspace loaded",
		"root", pkgs.Root,
		"tool", string(pkgs.Tool),
		"packages", len(pkgs.Packages),
		"base_branch", cfg.BaseBranch,
	)

	git := &lazyRepo{
		root:   pkgs.Root,
		opts:   []gitrepo.Option{gitrepo.WithAuthor(cfg.Commit.Author)},
		logger: logger.Logger,
	}

	orch, err := create.New(cfg, create.Dependencies{
		Catalog: func(string) (workspace.Packages, error) {
			return pkgs, nil
		},
		Detector:  git,
		Writer:    changeset.NewWriter(),
		Committer: git,
		Prompter:  prompt.NewTerminal(st.in, st.out),
		Launcher: func(path string) error {
			ed := editor.Resolve(st.getenv)
			logger.Debug("launching editor", "editor", ed.String(), "path", path)
			return editor.Launch(ed, path)
		},
		Logbook: logbook.New(st.out, st.errOut),
		Logger:  logger.Logger,
	})
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := orch.Run(ctx, cwd, opts)
	if err != nil {
		return err
	}
	logger.Debug("create finished", "decision", result.Decision.String(), "id", result.ID, "committed", result.Committed)
	return nil
}

// lazyRepo opens the git repository on first use. Workspace problems are
// reported before git ones, and --empty without automatic commits works
// outside a repository.
type lazyRepo struct {
	root   string
	opts   []gitrepo.Option
	logger *slog.Logger

	once sync.Once
	repo *gitrepo.Repo
	err  error
}

func (l *lazyRepo) open() (*gitrepo.Repo, error) {
	l.once.Do(func() {
		l.repo, l.err = gitrepo.Open(l.root, l.opts...)
		if errors.Is(l.err, gitrepo.ErrRepoNotFound) {
			l.logger.Debug("no git repository", "root", l.root)
		}
	})
	return l.repo, l.err
}

func (l *lazyRepo) ChangedPackages(ctx context.Context, ref string, pkgs []workspace.Package) ([]workspace.Package, error) {
	repo, err := l.open()
	if err != nil {
		return nil, err
	}
	return repo.ChangedPackages(ctx, ref, pkgs)
}

func (l *lazyRepo) Add(ctx context.Context, path string) error {
	repo, err := l.open()
	if err != nil {
		return err
	}
	return repo.Add(ctx, path)
}

func (l *lazyRepo) Commit(ctx context.Context, message string) error {
	repo, err := l.open()
	if err != nil {
		return err
	}
	return repo.Commit(ctx, message)
}
