//go:build unix

package editor

import (
	"os/exec"
	"syscall"
)

// detach starts the editor in its own process group so it outlives the CLI.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
