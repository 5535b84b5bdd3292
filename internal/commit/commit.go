// Package commit generates commit messages for freshly written changesets.
//
// The strategy is picked from the commit section of .changeset/config.yaml:
// the default strategy produces a conventional "docs(changeset): ..." subject,
// the template strategy renders a user-supplied text/template.
package commit

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/kingrea/changeset/internal/changeset"
	"github.com/kingrea/changeset/internal/config"
)

const skipCITrailer = "\n\n[skip ci]\n"

// AddMessageFunc returns the commit message for a newly added changeset.
type AddMessageFunc func(cs changeset.Changeset, opts Options) (string, error)

// Functions holds the message generators for each workflow that commits.
// A nil generator means that workflow does not commit.
type Functions struct {
	AddMessage AddMessageFunc
}

// Options carries the configuration the generators read.
type Options struct {
	SkipCI   config.SkipCI
	Template string
}

// TemplateData is exposed to commit.template as {{.Summary}}, {{.Releases}}
// and {{.SkipCI}}.
type TemplateData struct {
	Summary  string
	Releases []changeset.Release
	SkipCI   bool
}

// ResolveFunctions resolves the commit strategy for cfg. Disabled commits yield an
// empty Functions value.
func ResolveFunctions(cfg config.CommitConfig) (Functions, Options) {
	opts := Options{SkipCI: cfg.SkipCI, Template: cfg.Template}
	if !cfg.Enabled {
		return Functions{}, opts
	}
	switch cfg.Mode {
	case config.CommitModeTemplate:
		return Functions{AddMessage: templateAddMessage}, opts
	default:
		return Functions{AddMessage: DefaultAddMessage}, opts
	}
}

// DefaultAddMessage builds "docs(changeset): <summary>", with a [skip ci]
// trailer when the add workflow should not trigger CI.
func DefaultAddMessage(cs changeset.Changeset, opts Options) (string, error) {
	message := "docs(changeset): " + strings.TrimSpace(cs.Summary)
	if skipsAdd(opts.SkipCI) {
		message += skipCITrailer
	}
	return message, nil
}

func templateAddMessage(cs changeset.Changeset, opts Options) (string, error) {
	tmpl, err := template.New("commit").Option("missingkey=error").Parse(opts.Template)
	if err != nil {
		return "", fmt.Errorf("commit: parse template: %w", err)
	}
	var buf bytes.Buffer
	data := TemplateData{
		Summary:  strings.TrimSpace(cs.Summary),
		Releases: cs.Releases,
		SkipCI:   skipsAdd(opts.SkipCI),
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("commit: render template: %w", err)
	}
	message := strings.TrimSpace(buf.String())
	if message == "" {
		return "", fmt.Errorf("commit: template rendered an empty message")
	}
	return message, nil
}

func skipsAdd(skip config.SkipCI) bool {
	return skip == config.SkipCIAdd || skip == config.SkipCIAlways
}
