package commit

import (
	"strings"
	"testing"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/config"
)

var sample = changeset.Changeset{
	Summary: "  Fix the thing  ",
	Releases: []changeset.Release{
		{Name: "pkg-a", Type: changeset.BumpMinor},
		{Name: "pkg-b", Type: changeset.BumpPatch},
	},
}

func TestResolveFunctionsDisabled(t *testing.T) {
	fns, _ := ResolveFunctions(config.CommitConfig{Enabled: false, Mode: config.CommitModeDefault})
	if fns.AddMessage != nil {
		t.Fatalf("expected nil AddMessage when commits are disabled")
	}
}

func TestDefaultAddMessage(t *testing.T) {
	cases := []struct {
		name   string
		skipCI config.SkipCI
		want   string
	}{
		{name: "skip on add", skipCI: config.SkipCIAdd, want: "docs(changeset): Fix the thing\n\n[skip ci]\n"},
		{name: "skip always", skipCI: config.SkipCIAlways, want: "docs(changeset): Fix the thing\n\n[skip ci]\n"},
		{name: "skip on version only", skipCI: config.SkipCIVersion, want: "docs(changeset): Fix the thing"},
		{name: "never skip", skipCI: config.SkipCINone, want: "docs(changeset): Fix the thing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fns, opts := ResolveFunctions(config.CommitConfig{Enabled: true, Mode: config.CommitModeDefault, SkipCI: tc.skipCI})
			if fns.AddMessage == nil {
				t.Fatalf("expected an AddMessage generator")
			}
			got, err := fns.AddMessage(sample, opts)
			if err != nil {
				t.Fatalf("AddMessage: %v", err)
			}
			if got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTemplateAddMessage(t *testing.T) {
	cfg := config.CommitConfig{
		Enabled:  true,
		Mode:     config.CommitModeTemplate,
		SkipCI:   config.SkipCIAdd,
		Template: "chore: {{.Summary}}\n\n{{range .Releases}}- {{.Name}}@{{.Type}}\n{{end}}{{if .SkipCI}}[ci skip]{{end}}",
	}
	fns, opts := ResolveFunctions(cfg)
	got, err := fns.AddMessage(sample, opts)
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	want := "chore: Fix the thing\n\n- pkg-a@minor\n- pkg-b@patch\n[ci skip]"
	if got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestTemplateAddMessageErrors(t *testing.T) {
	cases := map[string]string{
		"parse":   "{{.Summary",
		"missing": "{{.Nope}}",
		"empty":   "   ",
	}
	for name, tmpl := range cases {
		t.Run(name, func(t *testing.T) {
			fns, opts := ResolveFunctions(config.CommitConfig{Enabled: true, Mode: config.CommitModeTemplate, Template: tmpl})
			_, err := fns.AddMessage(sample, opts)
			if err == nil || !strings.HasPrefix(err.Error(), "commit:") {
				t.Fatalf("expected commit-prefixed error, got %v", err)
			}
		})
	}
}
