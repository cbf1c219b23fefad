//go:build windows

package vterm

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// waitReadable has no console equivalent of poll worth the trouble;
// the read loop falls back to plain blocking reads.
func waitReadable(f *os.File, timeout time.Duration) (bool, error) {
	return true, nil
}

func setCbreak(fd int) error {
	return fmt.Errorf("vterm: cbreak mode not supported on windows")
}

func resizeSignals() []os.Signal {
	return nil
}

// enableVT switches the console to virtual terminal processing so the
// escape sequences we emit are interpreted rather than printed.
func enableVT(f *os.File) error {
	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return err
	}
	mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	return windows.SetConsoleMode(h, mode)
}
