// Package prompt asks the operator questions in the terminal. Each question
// runs as a short-lived bubbletea program that renders inline and exits once
// answered.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the operator cancels a prompt with ctrl+c or
// esc, or when input ends before the question is answered.
var ErrAborted = errors.New("prompt: aborted")

// question is a prompt model that knows whether it was answered.
type question interface {
	tea.Model
	finished() bool
}

// Choice is one entry of a multi-select.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// Prompter is the set of questions the changeset workflow asks.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
	MultiSelect(ctx context.Context, question string, choices []Choice) ([]string, error)
	Select(ctx context.Context, question string, options []string) (string, error)
	Input(ctx context.Context, question string) (string, error)
}

// Terminal implements Prompter on top of bubbletea.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a prompter reading keys from in and drawing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Confirm asks a yes/no question. Enter accepts the default (yes).
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	final, err := t.run(ctx, newConfirmModel(question))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.answer, nil
}

// MultiSelect lets the operator toggle any number of choices and returns the
// selected values in choice order.
func (t *Terminal) MultiSelect(ctx context.Context, question string, choices []Choice) ([]string, error) {
	final, err := t.run(ctx, newMultiSelectModel(question, choices))
	if err != nil {
		return nil, err
	}
	m := final.(multiSelectModel)
	if m.aborted {
		return nil, ErrAborted
	}
	return m.selected(), nil
}

// Select asks for exactly one of options.
func (t *Terminal) Select(ctx context.Context, question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("prompt: select %q has no options", question)
	}
	final, err := t.run(ctx, newSelectModel(question, options))
	if err != nil {
		return "", err
	}
	m := final.(selectModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.value(), nil
}

// Input asks for a single line of free text.
func (t *Terminal) Input(ctx context.Context, question string) (string, error) {
	final, err := t.run(ctx, newInputModel(question))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.value(), nil
}

func (t *Terminal) run(ctx context.Context, model question) (tea.Model, error) {
	var (
		prog *tea.Program
		eof  *eofReader
	)
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.in != nil {
		eof = &eofReader{r: t.in, quit: func() { prog.Quit() }}
		opts = append(opts, tea.WithInput(eof.wrap()))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}
	prog = tea.NewProgram(model, opts...)
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("prompt: %w", err)
	}
	if q, ok := final.(question); ok && !q.finished() && eof != nil && eof.closed() {
		return nil, fmt.Errorf("%w: input closed", ErrAborted)
	}
	return final, nil
}

// eofReader quits the running program once its input is exhausted. bubbletea
// stops reading at EOF without telling the model, so a prompt on a closed
// stdin would otherwise wait forever.
type eofReader struct {
	r    io.Reader
	quit func()
	once sync.Once
	done atomic.Bool
}

func (e *eofReader) Read(p []byte) (int, error) {
	if e.done.Load() {
		e.once.Do(e.quit)
		return 0, io.EOF
	}
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) {
		e.done.Store(true)
		// bubbletea drops bytes that arrive together with an error.
		if n > 0 {
			return n, nil
		}
		e.once.Do(e.quit)
	}
	return n, err
}

func (e *eofReader) closed() bool { return e.done.Load() }

// wrap keeps an *os.File visible to bubbletea so raw mode and cancelable
// reads still apply to a terminal.
func (e *eofReader) wrap() io.Reader {
	if f, ok := e.r.(*os.File); ok {
		return eofFile{File: f, eof: e}
	}
	return e
}

type eofFile struct {
	*os.File
	eof *eofReader
}

func (f eofFile) Read(p []byte) (int, error) { return f.eof.Read(p) }
