//go:build unix

package vterm

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// waitReadable blocks until the file has input pending or the timeout
// elapses. A false return with nil error means timeout.
func waitReadable(f *os.File, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(f.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

// setCbreak turns off echo and line buffering but leaves signal keys
// and output processing alone, the classic cbreak mode.
func setCbreak(fd int) error {
	tio, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	tio.Lflag &^= unix.ECHO | unix.ICANON
	tio.Cc[unix.VMIN] = 1
	tio.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, tio)
}

// resizeSignals returns the signals announcing a terminal size change.
func resizeSignals() []os.Signal {
	return []os.Signal{unix.SIGWINCH}
}

// enableVT is a no-op outside Windows; Unix terminals speak VT
// natively.
func enableVT(f *os.File) error {
	return nil
}
