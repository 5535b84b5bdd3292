// Package editor opens files in the operator's preferred editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Editor is a resolved editor command line.
type Editor struct {
	Bin  string
	Args []string
}

// Resolve picks the editor from $VISUAL, then $EDITOR, then the platform
// default. The value is split on whitespace so "code --wait" works.
func Resolve(getenv func(string) string) Editor {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(getenv(key)); len(fields) > 0 {
			return Editor{Bin: fields[0], Args: fields[1:]}
		}
	}
	return Editor{Bin: platformDefault(runtime.GOOS)}
}

func platformDefault(goos string) string {
	if goos == "windows" {
		return "notepad"
	}
	return "vim"
}

// String renders the command line for logs.
func (e Editor) String() string {
	return strings.TrimSpace(e.Bin + " " + strings.Join(e.Args, " "))
}

// Command builds the process that opens path.
func (e Editor) Command(path string) *exec.Cmd {
	args := append(append([]string{}, e.Args...), path)
	cmd := exec.Command(e.Bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	detach(cmd)
	return cmd
}

// Launch starts the editor on path and returns without waiting for it.
// Only failure to start is reported.
func Launch(e Editor, path string) error {
	if strings.TrimSpace(e.Bin) == "" {
		return fmt.Errorf("editor: no editor configured")
	}
	cmd := e.Command(path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("editor: start %s: %w", e.Bin, err)
	}
	_ = cmd.Process.Release()
	return nil
}
