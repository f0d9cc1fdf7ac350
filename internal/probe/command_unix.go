//go:build unix

package probe

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the command in its own group and kills the whole
// group on cancel, so helpers it spawned (docker exec and friends) die too.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
