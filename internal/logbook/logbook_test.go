package logbook

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelsRouteToWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	book := New(&out, &errOut)
	book.Info("entry-%d", 1)
	book.Log("plain")
	book.Warn("careful")
	book.Error("broken")

	if got := out.String(); got != "🦋  info entry-1\n🦋  plain\n" {
		t.Fatalf("stdout = %q", got)
	}
	if got := errOut.String(); got != "🦋  warn careful\n🦋  error broken\n" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestEntriesRecordsUnstyledMessages(t *testing.T) {
	var out bytes.Buffer
	book := New(&out, nil)
	book.Log("%s", book.Green("done"))
	book.Info("%s", book.Blue("/tmp/x.md"))
	book.Warn("first\nsecond")

	entries := book.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Level != LevelLog || entries[0].Message != "done" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Message != "/tmp/x.md" {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
	if !strings.Contains(out.String(), "🦋  warn second\n") {
		t.Fatalf("multi-line messages should be prefixed per line, got %q", out.String())
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if book.Entries() != nil {
		t.Fatalf("expected nil entries")
	}
	if book.Green("x") != "x" {
		t.Fatalf("expected passthrough")
	}
}
