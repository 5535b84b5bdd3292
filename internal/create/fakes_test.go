package create

import (
	"context"
	"errors"
	"fmt"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/prompt"
	"github.com/kingrea/changeset/internal/workspace"
)

type fakePrompter struct {
	confirms     []bool
	multiSelects [][]string
	selects      []string
	inputs       []string

	calls         []string
	seenChoices   [][]prompt.Choice
	seenQuestions []string
}

func (f *fakePrompter) Confirm(_ context.Context, question string) (bool, error) {
	f.calls = append(f.calls, "confirm")
	f.seenQuestions = append(f.seenQuestions, question)
	if len(f.confirms) == 0 {
		return false, errors.New("unexpected confirm")
	}
	answer := f.confirms[0]
	f.confirms = f.confirms[1:]
	return answer, nil
}

func (f *fakePrompter) MultiSelect(_ context.Context, question string, choices []prompt.Choice) ([]string, error) {
	f.calls = append(f.calls, "multiselect")
	f.seenQuestions = append(f.seenQuestions, question)
	f.seenChoices = append(f.seenChoices, choices)
	if len(f.multiSelects) == 0 {
		return nil, fmt.Errorf("unexpected multiselect %q", question)
	}
	answer := f.multiSelects[0]
	f.multiSelects = f.multiSelects[1:]
	return answer, nil
}

func (f *fakePrompter) Select(_ context.Context, question string, _ []string) (string, error) {
	f.calls = append(f.calls, "select")
	f.seenQuestions = append(f.seenQuestions, question)
	if len(f.selects) == 0 {
		return "", fmt.Errorf("unexpected select %q", question)
	}
	answer := f.selects[0]
	f.selects = f.selects[1:]
	return answer, nil
}

func (f *fakePrompter) Input(_ context.Context, question string) (string, error) {
	f.calls = append(f.calls, "input")
	f.seenQuestions = append(f.seenQuestions, question)
	if len(f.inputs) == 0 {
		return "", fmt.Errorf("unexpected input %q", question)
	}
	answer := f.inputs[0]
	f.inputs = f.inputs[1:]
	return answer, nil
}

type fakeDetector struct {
	changed []workspace.Package
	err     error
	refs    []string
}

func (f *fakeDetector) ChangedPackages(_ context.Context, ref string, _ []workspace.Package) ([]workspace.Package, error) {
	f.refs = append(f.refs, ref)
	return f.changed, f.err
}

type fakeWriter struct {
	id     string
	err    error
	writes []changeset.Changeset
	roots  []string
}

func (f *fakeWriter) Write(cs changeset.Changeset, root string) (string, error) {
	f.writes = append(f.writes, cs)
	f.roots = append(f.roots, root)
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type fakeCommitter struct {
	added    []string
	messages []string
	err      error
}

func (f *fakeCommitter) Add(_ context.Context, path string) error {
	f.added = append(f.added, path)
	return f.err
}

func (f *fakeCommitter) Commit(_ context.Context, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

type fakeLauncher struct {
	paths []string
	err   error
}

func (f *fakeLauncher) launch(path string) error {
	f.paths = append(f.paths, path)
	return f.err
}

func pkg(name, version string) workspace.Package {
	return workspace.Package{
		Name:     name,
		Dir:      "/repo/packages/" + name,
		RelDir:   "packages/" + name,
		Manifest: workspace.Manifest{Name: name, Version: version},
	}
}

func catalogOf(tool workspace.Tool, pkgs ...workspace.Package) (Catalog, *int) {
	calls := 0
	return func(string) (workspace.Packages, error) {
		calls++
		return workspace.Packages{Tool: tool, Root: "/repo", Packages: pkgs}, nil
	}, &calls
}

func bumpPtr(b changeset.BumpType) *changeset.BumpType { return &b }

func strPtr(s string) *string { return &s }
