//go:build windows

package execution

import (
	"fmt"
	"os/exec"
	"syscall"

	"fut/pkg/logging"
)

const (
	processTerminate        = 0x0001
	processQueryInformation = 0x0400
)

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess      = kernel32.NewProc("OpenProcess")
	procTerminateProcess = kernel32.NewProc("TerminateProcess")
	procCloseHandle      = kernel32.NewProc("CloseHandle")
)

func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// killProcessGroup terminates the validator process. Windows has no process groups in the unix sense.
func killProcessGroup(pid int) error {
	handle, _, err := procOpenProcess.Call(
		uintptr(processTerminate|processQueryInformation),
		uintptr(0),
		uintptr(pid),
	)
	if handle == 0 {
		return fmt.Errorf("failed to open process %d: %v", pid, err)
	}
	defer procCloseHandle.Call(handle)

	if ok, _, err := procTerminateProcess.Call(handle, uintptr(1)); ok == 0 {
		return fmt.Errorf("failed to terminate process %d: %v", pid, err)
	}
	logging.Debug("Execution", "Terminated PID %d", pid)
	return nil
}
