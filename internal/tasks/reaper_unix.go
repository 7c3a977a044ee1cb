//go:build unix

package tasks

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reapChild waits on pid without blocking. It reports whether the child is
// gone, either collected now or no longer ours.
func reapChild(pid int) bool {
	var status unix.WaitStatus
	wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
	if err != nil {
		return errors.Is(err, unix.ECHILD)
	}
	return wpid == pid
}
