//go:build !windows

package process

import (
	"os"
	"os/exec"
	"syscall"
)

// setupProcessGroup puts the child into its own process group so that
// termination reaches every process the client starts (rsh, ssh).
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func terminate(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGTERM)
}

func kill(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGKILL)
}

func signalOf(state *os.ProcessState) string {
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return ""
	}
	return status.Signal().String()
}
