package changeset

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestRenderFrontMatterKeepsReleaseOrder(t *testing.T) {
	cs := Changeset{
		Summary: "  Fix the thing\r\n\r\nwith details  ",
		Releases: []Release{
			{Name: "pkg-b", Type: BumpMinor},
			{Name: "@scope/pkg-a", Type: BumpPatch},
		},
	}
	got, err := Render(cs)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "---\n\"pkg-b\": minor\n\"@scope/pkg-a\": patch\n---\n\nFix the thing\n\nwith details\n"
	if string(got) != want {
		t.Fatalf("render mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderEmptyChangeset(t *testing.T) {
	got, err := Render(Changeset{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(got) != "---\n---\n\n" {
		t.Fatalf("unexpected empty render %q", got)
	}
}

func TestWriteCreatesRecordWithGeneratedID(t *testing.T) {
	root := t.TempDir()
	ids := []string{"taken-id", "", "fresh-id"}
	w := NewWriter(WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(root, "taken-id"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	id, err := w.Write(Changeset{Summary: "hello", Releases: []Release{{Name: "a", Type: BumpMajor}}}, root)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if id != "fresh-id" {
		t.Fatalf("expected collision to be skipped, got id %q", id)
	}
	data, err := os.ReadFile(filepath.Join(root, ".changeset", "fresh-id.md"))
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	if string(data) != "---\n\"a\": major\n---\n\nhello\n" {
		t.Fatalf("unexpected record %q", data)
	}
}

func TestWriteRejectsDuplicateReleases(t *testing.T) {
	w := NewWriter()
	_, err := w.Write(Changeset{Releases: []Release{{Name: "a", Type: BumpPatch}, {Name: "a", Type: BumpMinor}}}, t.TempDir())
	if err == nil {
		t.Fatalf("expected duplicate release error")
	}
}

func TestWriteGivesUpWhenEveryIDCollides(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(root, "same"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w := NewWriter(WithIDGenerator(func() string { return "same" }))
	if _, err := w.Write(Changeset{}, root); !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
}

func TestHumanIDShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+-[a-z]+-[a-z]+$`)
	for i := 0; i < 50; i++ {
		if id := NewHumanID(); !pattern.MatchString(id) {
			t.Fatalf("unexpected id shape %q", id)
		}
	}
}

func TestParseBumpType(t *testing.T) {
	for _, in := range []string{"patch", "Minor", " major "} {
		if _, err := ParseBumpType(in); err != nil {
			t.Fatalf("ParseBumpType(%q): %v", in, err)
		}
	}
	if _, err := ParseBumpType("huge"); !errors.Is(err, ErrInvalidBumpType) {
		t.Fatalf("expected ErrInvalidBumpType, got %v", err)
	}
}

func TestChangesetHelpers(t *testing.T) {
	cs := Changeset{Releases: []Release{
		{Name: "a", Type: BumpPatch},
		{Name: "b", Type: BumpMajor},
		{Name: "c", Type: BumpPatch},
	}}
	if !cs.HasMajor() {
		t.Fatalf("expected HasMajor")
	}
	patch := cs.ByType(BumpPatch)
	if len(patch) != 2 || patch[0] != "a" || patch[1] != "c" {
		t.Fatalf("unexpected patch group %v", patch)
	}
	if (Changeset{}).HasMajor() {
		t.Fatalf("empty changeset has no major")
	}
}
