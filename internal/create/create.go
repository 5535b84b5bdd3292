// Package create records a new changeset. It discovers what changed since the
// base branch, builds a draft from flags and prompts, and on confirmation
// writes, commits and optionally opens it.
package create

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/commit"
	"github.com/kingrea/changeset/internal/config"
	"github.com/kingrea/changeset/internal/logbook"
	"github.com/kingrea/changeset/internal/logging"
	"github.com/kingrea/changeset/internal/prompt"
	"github.com/kingrea/changeset/internal/workspace"
)

// ErrEmptyWorkspace is returned when the workspace has no packages at all.
var ErrEmptyWorkspace = errors.New("no packages found")

// Catalog loads the packages of the workspace containing dir.
type Catalog func(dir string) (workspace.Packages, error)

// ChangeDetector reports which of pkgs changed since ref.
type ChangeDetector interface {
	ChangedPackages(ctx context.Context, ref string, pkgs []workspace.Package) ([]workspace.Package, error)
}

// Writer persists a changeset under root and returns its id.
type Writer interface {
	Write(cs changeset.Changeset, root string) (string, error)
}

// Committer stages and commits files.
type Committer interface {
	Add(ctx context.Context, path string) error
	Commit(ctx context.Context, message string) error
}

// Launcher opens path in an editor without waiting for it.
type Launcher func(path string) error

// Options are the per-invocation inputs from the command line.
type Options struct {
	Empty   bool
	Open    bool
	Filter  string
	Bump    *changeset.BumpType
	Summary *string
}

// Decision is the path a run takes, resolved once from the inputs.
type Decision int

const (
	// DecisionEmpty writes a changeset with no releases.
	DecisionEmpty Decision = iota
	// DecisionForcedBoth has bump and summary from flags and asks nothing.
	DecisionForcedBoth
	// DecisionFilterOnly has a forced bump or filter and skips confirmation.
	DecisionFilterOnly
	// DecisionInteractive asks every open question and confirms the draft.
	DecisionInteractive
	// DecisionNoChange stops because nothing changed and no filter was given.
	DecisionNoChange
)

func (d Decision) String() string {
	switch d {
	case DecisionEmpty:
		return "empty"
	case DecisionForcedBoth:
		return "forced"
	case DecisionFilterOnly:
		return "filter"
	case DecisionInteractive:
		return "interactive"
	case DecisionNoChange:
		return "no-change"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Result describes what a run did.
type Result struct {
	Decision  Decision
	Draft     Draft
	ID        string
	Path      string
	Committed bool
}

// Dependencies are the collaborators an Orchestrator drives.
type Dependencies struct {
	Catalog   Catalog
	Detector  ChangeDetector
	Writer    Writer
	Committer Committer
	Prompter  prompt.Prompter
	Launcher  Launcher
	Logbook   *logbook.Logbook
	Logger    *slog.Logger
}

// Orchestrator runs the create workflow.
type Orchestrator struct {
	cfg     config.Config
	deps    Dependencies
	builder *Builder
	commits commit.Functions
	opts    commit.Options
}

// New validates deps against cfg and returns an Orchestrator.
func New(cfg config.Config, deps Dependencies) (*Orchestrator, error) {
	if deps.Catalog == nil {
		return nil, errors.New("create: catalog is required")
	}
	if deps.Detector == nil {
		return nil, errors.New("create: change detector is required")
	}
	if deps.Writer == nil {
		return nil, errors.New("create: writer is required")
	}
	if deps.Prompter == nil {
		return nil, errors.New("create: prompter is required")
	}
	fns, opts := commit.ResolveFunctions(cfg.Commit)
	if fns.AddMessage != nil && deps.Committer == nil {
		return nil, errors.New("create: committer is required when commits are enabled")
	}
	if deps.Logbook == nil {
		deps.Logbook = logbook.New(nil, nil)
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard().Logger
	}
	return &Orchestrator{
		cfg:     cfg,
		deps:    deps,
		builder: NewBuilder(deps.Prompter, deps.Logbook),
		commits: fns,
		opts:    opts,
	}, nil
}

// Run records a changeset for the workspace containing cwd.
func (o *Orchestrator) Run(ctx context.Context, cwd string, opts Options) (Result, error) {
	log := o.deps.Logbook
	pkgs, err := o.deps.Catalog(cwd)
	if err != nil {
		return Result{}, fmt.Errorf("create: load workspace: %w", err)
	}
	if len(pkgs.Packages) == 0 {
		return Result{}, fmt.Errorf("%w. You might have %s workspaces configured but no packages yet?", ErrEmptyWorkspace, pkgs.Tool)
	}
	listable := workspace.Listable(o.cfg, pkgs.Packages)

	result := Result{}
	if opts.Empty {
		result.Decision = DecisionEmpty
		result.Draft = Draft{Confirmed: true}
	} else {
		candidates, found, err := o.candidates(ctx, pkgs.Packages, opts.Filter)
		if err != nil {
			return Result{}, err
		}
		result.Decision = decide(found, opts)
		o.deps.Logger.Debug("resolved create path",
			"decision", result.Decision.String(),
			"candidates", candidates.Names,
			"packages", pkgs.Names(),
			"listable", len(listable),
		)
		if result.Decision == DecisionNoChange {
			log.Error("%s", msgNoChanges)
			return result, nil
		}
		draft, err := o.builder.Build(ctx, candidates, listable, opts.Bump, opts.Summary)
		if err != nil {
			return Result{}, err
		}
		printPreview(log, draft.Changeset, len(listable) > 1)
		switch result.Decision {
		case DecisionInteractive:
			if !draft.Confirmed {
				confirmed, err := o.deps.Prompter.Confirm(ctx, msgConfirm)
				if err != nil {
					return Result{}, fmt.Errorf("create: confirm: %w", err)
				}
				draft.Confirmed = confirmed
			}
		default:
			draft.Confirmed = true
		}
		result.Draft = draft
	}

	if !result.Draft.Confirmed {
		return result, nil
	}
	return o.persist(ctx, pkgs.Root, opts, result)
}

// candidates returns the names to build from and whether the run has any
// candidates at all.
func (o *Orchestrator) candidates(ctx context.Context, pkgs []workspace.Package, filter string) (Candidates, bool, error) {
	changed, err := o.deps.Detector.ChangedPackages(ctx, o.cfg.BaseBranch, pkgs)
	if err != nil {
		return Candidates{}, false, fmt.Errorf("create: changed packages since %s: %w", o.cfg.BaseBranch, err)
	}
	if len(changed) > 0 {
		names := make([]string, 0, len(changed))
		for _, pkg := range changed {
			if !workspace.IsListable(o.cfg, pkg) {
				continue
			}
			if filter != "" && pkg.Name != filter {
				continue
			}
			names = append(names, pkg.Name)
		}
		return Candidates{Names: names, Changed: true}, true, nil
	}
	if filter != "" {
		return Candidates{Names: []string{filter}}, true, nil
	}
	return Candidates{}, false, nil
}

func decide(found bool, opts Options) Decision {
	switch {
	case !found:
		return DecisionNoChange
	case opts.Bump != nil && opts.Summary != nil:
		return DecisionForcedBoth
	case opts.Bump != nil || opts.Filter != "":
		return DecisionFilterOnly
	default:
		return DecisionInteractive
	}
}

func (o *Orchestrator) persist(ctx context.Context, root string, opts Options, result Result) (Result, error) {
	log := o.deps.Logbook
	id, err := o.deps.Writer.Write(result.Draft.Changeset, root)
	if err != nil {
		return result, fmt.Errorf("create: write changeset: %w", err)
	}
	result.ID = id
	result.Path = changeset.Path(root, id)
	o.deps.Logger.Debug("changeset written", "id", id, "path", result.Path)

	if o.commits.AddMessage != nil {
		message, err := o.commits.AddMessage(result.Draft.Changeset, o.opts)
		if err != nil {
			return result, err
		}
		if err := o.deps.Committer.Add(ctx, result.Path); err != nil {
			return result, fmt.Errorf("create: stage changeset: %w", err)
		}
		if err := o.deps.Committer.Commit(ctx, message); err != nil {
			return result, fmt.Errorf("create: commit changeset: %w", err)
		}
		result.Committed = true
	}
	log.Log("%s", log.Green(addedMessage(opts.Empty, result.Committed)))

	if result.Draft.HasMajor() {
		for _, line := range majorReminder {
			log.Warn("%s", line)
		}
	} else {
		log.Log("%s", log.Green(msgEditHint))
	}
	log.Info("%s", log.Blue(result.Path))

	if opts.Open {
		o.openEditor(result.Path)
	}
	return result, nil
}

// openEditor launches the editor and discards the outcome; the changeset is
// already on disk.
func (o *Orchestrator) openEditor(path string) {
	if o.deps.Launcher == nil {
		return
	}
	if err := o.deps.Launcher(path); err != nil {
		o.deps.Logger.Debug("editor launch failed", "path", path, "error", err)
	}
}
