package create

import (
	"context"
	"fmt"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/logbook"
	"github.com/kingrea/changeset/internal/prompt"
	"github.com/kingrea/changeset/internal/workspace"
)

const (
	questionPackages = "Which packages would you like to include?"
	questionSummary  = "Summary"
	summaryHint      = "Please enter a summary for this change (this will be in the changelogs)."
)

// Draft is a changeset that has not been written yet.
type Draft struct {
	changeset.Changeset
	Confirmed bool
}

// Candidates are the packages preselected in the package question.
type Candidates struct {
	Names []string
	// Changed is set when Names came from the diff against the base branch.
	Changed bool
}

// Builder turns candidate package names into a Draft, asking the operator
// whatever the forced inputs leave open.
type Builder struct {
	prompter prompt.Prompter
	log      *logbook.Logbook
}

// NewBuilder creates a Builder.
func NewBuilder(p prompt.Prompter, log *logbook.Logbook) *Builder {
	return &Builder{prompter: p, log: log}
}

// Build resolves the draft. With both bump and summary forced it never
// prompts and returns a confirmed draft; otherwise the result is unconfirmed.
func (b *Builder) Build(ctx context.Context, candidates Candidates, listable []workspace.Package, bump *changeset.BumpType, summary *string) (Draft, error) {
	candidates.Names = dedupe(candidates.Names)
	if bump != nil && summary != nil {
		releases := make([]changeset.Release, 0, len(candidates.Names))
		for _, name := range candidates.Names {
			releases = append(releases, changeset.Release{Name: name, Type: *bump})
		}
		return Draft{Changeset: changeset.Changeset{Summary: *summary, Releases: releases}, Confirmed: true}, nil
	}

	selected, err := b.selectPackages(ctx, candidates, listable)
	if err != nil {
		return Draft{}, err
	}
	releases, err := b.assignBumps(ctx, selected, listable, bump)
	if err != nil {
		return Draft{}, err
	}
	text := ""
	if summary != nil {
		text = *summary
	} else if text, err = b.askSummary(ctx); err != nil {
		return Draft{}, err
	}
	return Draft{Changeset: changeset.Changeset{Summary: text, Releases: releases}}, nil
}

func (b *Builder) selectPackages(ctx context.Context, candidates Candidates, listable []workspace.Package) ([]string, error) {
	if len(listable) == 1 {
		return []string{listable[0].Name}, nil
	}
	choices := packageChoices(candidates, listable)
	if len(choices) == 0 {
		return nil, nil
	}
	for attempt := 0; attempt < 2; attempt++ {
		selected, err := b.prompter.MultiSelect(ctx, questionPackages, choices)
		if err != nil {
			return nil, fmt.Errorf("create: select packages: %w", err)
		}
		if len(selected) > 0 {
			return selected, nil
		}
		if attempt == 0 {
			b.log.Error("You must select at least one package to release")
			b.log.Error("(You most likely hit enter instead of space!)")
		}
	}
	return nil, nil
}

// packageChoices lists the candidates first, preselected, followed by the
// remaining listable packages.
func packageChoices(candidates Candidates, listable []workspace.Package) []prompt.Choice {
	seen := make(map[string]bool, len(candidates.Names))
	choices := make([]prompt.Choice, 0, len(candidates.Names)+len(listable))
	for _, name := range candidates.Names {
		seen[name] = true
		label := name
		if candidates.Changed {
			label += " (changed)"
		}
		choices = append(choices, prompt.Choice{Value: name, Label: label, Selected: true})
	}
	for _, pkg := range listable {
		if seen[pkg.Name] {
			continue
		}
		seen[pkg.Name] = true
		choices = append(choices, prompt.Choice{Value: pkg.Name, Label: pkg.Name})
	}
	return choices
}

func (b *Builder) assignBumps(ctx context.Context, selected []string, listable []workspace.Package, bump *changeset.BumpType) ([]changeset.Release, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	if bump != nil {
		releases := make([]changeset.Release, 0, len(selected))
		for _, name := range selected {
			releases = append(releases, changeset.Release{Name: name, Type: *bump})
		}
		return releases, nil
	}
	if len(selected) == 1 {
		name := selected[0]
		question := fmt.Sprintf("What kind of change is this for %s?", name)
		if pkg, ok := (workspace.Packages{Packages: listable}).Lookup(name); ok && pkg.Manifest.Version != "" {
			question = fmt.Sprintf("What kind of change is this for %s? (current version is %s)", name, pkg.Manifest.Version)
		}
		answer, err := b.prompter.Select(ctx, question, bumpOptions())
		if err != nil {
			return nil, fmt.Errorf("create: select bump type: %w", err)
		}
		parsed, err := changeset.ParseBumpType(answer)
		if err != nil {
			return nil, err
		}
		return []changeset.Release{{Name: name, Type: parsed}}, nil
	}

	types := make(map[string]changeset.BumpType, len(selected))
	remaining := selected
	for _, level := range []changeset.BumpType{changeset.BumpMajor, changeset.BumpMinor} {
		if len(remaining) == 0 {
			break
		}
		choices := make([]prompt.Choice, 0, len(remaining))
		for _, name := range remaining {
			choices = append(choices, prompt.Choice{Value: name, Label: name})
		}
		picked, err := b.prompter.MultiSelect(ctx, fmt.Sprintf("Which packages should have a %s bump?", level), choices)
		if err != nil {
			return nil, fmt.Errorf("create: select %s bumps: %w", level, err)
		}
		for _, name := range picked {
			types[name] = level
		}
		remaining = without(remaining, types)
	}
	if len(remaining) > 0 {
		b.log.Log("The following packages will be patch bumped:")
		for _, name := range remaining {
			types[name] = changeset.BumpPatch
			b.log.Log("%s", name)
		}
	}
	releases := make([]changeset.Release, 0, len(selected))
	for _, name := range selected {
		releases = append(releases, changeset.Release{Name: name, Type: types[name]})
	}
	return releases, nil
}

func (b *Builder) askSummary(ctx context.Context) (string, error) {
	b.log.Log("%s", summaryHint)
	for attempt := 0; attempt < 2; attempt++ {
		answer, err := b.prompter.Input(ctx, questionSummary)
		if err != nil {
			return "", fmt.Errorf("create: ask summary: %w", err)
		}
		if answer != "" {
			return answer, nil
		}
		if attempt == 0 {
			b.log.Warn("A summary is required for the changelog! %s", summaryHint)
		}
	}
	return "", nil
}

func bumpOptions() []string {
	options := make([]string, 0, len(changeset.BumpTypes))
	for _, bump := range changeset.BumpTypes {
		options = append(options, bump.String())
	}
	return options
}

func without(names []string, assigned map[string]changeset.BumpType) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := assigned[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
