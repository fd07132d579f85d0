//go:build linux || darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// startKeyboard puts the terminal in single-key mode and dispatches keys in
// the background. The returned func restores the terminal.
func startKeyboard(act keyboardActions) (restore func()) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}

	oldState, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return func() {}
	}

	// Disable canonical mode and echo but keep output processing so \n still works
	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &newState); err != nil {
		return func() {}
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 && !handleKey(buf[0], act) {
				return
			}
		}
	}()

	return func() {
		unix.IoctlSetTermios(fd, ioctlSetTermios, oldState)
	}
}
