// Package logbook is the user-facing output channel. Every line is tagged
// with a butterfly and its level; info goes to stdout, warnings and errors to
// stderr.
package logbook

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelLog   Level = "log"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

const prefix = "🦋  "

// Entry is a single line written to the logbook, before styling.
type Entry struct {
	Level   Level
	Message string
}

// Logbook writes level-tagged lines to the terminal.
type Logbook struct {
	out    io.Writer
	errOut io.Writer
	mu     sync.Mutex

	levels  map[Level]lipgloss.Style
	green   lipgloss.Style
	blue    lipgloss.Style
	entries []Entry
}

// New creates a logbook writing info and plain lines to out and warnings and
// errors to errOut. Colors are only emitted when the writers are terminals.
func New(out, errOut io.Writer) *Logbook {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = out
	}
	r := lipgloss.NewRenderer(out)
	return &Logbook{
		out:    out,
		errOut: errOut,
		levels: map[Level]lipgloss.Style{
			LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("6")),
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")),
			LevelError: r.NewStyle().Foreground(lipgloss.Color("1")),
		},
		green: r.NewStyle().Foreground(lipgloss.Color("2")),
		blue:  r.NewStyle().Foreground(lipgloss.Color("4")),
	}
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	message = strings.TrimRight(message, "\n")
	l.entries = append(l.entries, Entry{Level: level, Message: message})

	w := l.out
	if level == LevelWarn || level == LevelError {
		w = l.errOut
	}
	if w == nil {
		return
	}
	tag := ""
	if style, ok := l.levels[level]; ok {
		tag = style.Render(string(level)) + " "
	}
	for _, line := range strings.Split(message, "\n") {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", prefix, tag, line)
	}
}

// Entries returns a copy of everything written so far.
func (l *Logbook) Entries() []Entry {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Log appends an untagged entry.
func (l *Logbook) Log(format string, args ...any) {
	l.Append(LevelLog, fmt.Sprintf(format, args...))
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Green renders s in the success color.
func (l *Logbook) Green(s string) string {
	if l == nil {
		return s
	}
	return l.green.Render(s)
}

// Blue renders s in the highlight color used for paths.
func (l *Logbook) Blue(s string) string {
	if l == nil {
		return s
	}
	return l.blue.Render(s)
}
