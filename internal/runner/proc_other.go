//go:build !unix

package runner

import "os/exec"

// setProcessGroup is a no-op here; grandchildren are not reached by the
// kill, and WaitDelay bounds how long their open pipes can hold up Run.
func setProcessGroup(cmd *exec.Cmd) {}

func killProcess(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
