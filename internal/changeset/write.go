package changeset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/changeset/internal/config"
)

const maxIDAttempts = 32

// ErrIDExhausted indicates every generated id collided with an existing record.
var ErrIDExhausted = errors.New("changeset: could not generate an unused id")

// Dir returns the folder holding changeset records for a workspace root.
func Dir(root string) string {
	return filepath.Join(root, config.ChangesetDir)
}

// Path returns the record path for an id.
func Path(root, id string) string {
	return filepath.Join(Dir(root), id+".md")
}

// Writer persists changesets as markdown documents.
type Writer struct {
	newID func() string
}

// WriterOption customizes a Writer during construction.
type WriterOption func(*Writer)

// WithIDGenerator overrides how record identifiers are produced.
func WithIDGenerator(gen func() string) WriterOption {
	return func(w *Writer) {
		if gen != nil {
			w.newID = gen
		}
	}
}

// NewWriter builds a writer that names records with human-readable ids.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{newID: NewHumanID}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores cs under root/.changeset and returns the generated id.
func (w *Writer) Write(cs Changeset, root string) (string, error) {
	if err := cs.Validate(); err != nil {
		return "", err
	}
	content, err := Render(cs)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		return "", fmt.Errorf("changeset: ensure dir: %w", err)
	}
	id, err := w.unusedID(root)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(Path(root, id), content, 0o644); err != nil {
		return "", fmt.Errorf("changeset: write %s: %w", id, err)
	}
	return id, nil
}

func (w *Writer) unusedID(root string) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := w.newID()
		if id == "" {
			continue
		}
		_, err := os.Stat(Path(root, id))
		if errors.Is(err, fs.ErrNotExist) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("changeset: stat %s: %w", id, err)
		}
	}
	return "", ErrIDExhausted
}

// Render produces the on-disk representation: a YAML frontmatter block mapping
// package names to bump types, followed by the summary.
func Render(cs Changeset) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(cs.Releases) > 0 {
		data, err := yaml.Marshal(releasesNode(cs.Releases))
		if err != nil {
			return nil, fmt.Errorf("changeset: encode frontmatter: %w", err)
		}
		buf.Write(bytes.TrimRight(data, "\n"))
		buf.WriteString("\n")
	}
	buf.WriteString("---\n\n")
	if summary := strings.TrimSpace(normalizeNewlines(cs.Summary)); summary != "" {
		buf.WriteString(summary)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// releasesNode keeps release order and always quotes package names, since
// scoped names such as "@scope/pkg" are not valid plain YAML keys.
func releasesNode(releases []Release) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, release := range releases {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: release.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(release.Type)},
		)
	}
	return node
}

func normalizeNewlines(content string) string {
	return strings.ReplaceAll(content, "\r\n", "\n")
}
