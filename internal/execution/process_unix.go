//go:build !windows

package execution

import (
	"fmt"
	"os/exec"
	"syscall"

	"fut/pkg/logging"
)

// configureProcAttr runs the validator as leader of its own process group.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcessGroup kills the validator JVM and anything it spawned.
func killProcessGroup(pid int) error {
	// Negative PID addresses the whole group.
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		if err2 := syscall.Kill(pid, syscall.SIGKILL); err2 != nil {
			return fmt.Errorf("failed to kill process group -%d: %v, also failed to kill process %d: %v", pid, err, pid, err2)
		}
		logging.Debug("Execution", "Process group kill failed, killed PID %d directly", pid)
	}
	return nil
}
