//go:build windows

package process

import (
	"os"
	"os/exec"
)

func setupProcessGroup(_ *exec.Cmd) {}

// terminate has no graceful variant on Windows.
func terminate(p *os.Process) error {
	return p.Kill()
}

func kill(p *os.Process) error {
	return p.Kill()
}

func signalOf(_ *os.ProcessState) string {
	return ""
}
