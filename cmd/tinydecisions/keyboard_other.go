//go:build !linux && !darwin

package main

import (
	"bufio"
	"os"

	"golang.org/x/term"
)

// startKeyboard reads line-buffered input on terminals without termios
func startKeyboard(act keyboardActions) (restore func()) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return func() {}
	}

	go func() {
		r := bufio.NewReader(os.Stdin)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			if b == '\r' || b == '\n' {
				continue
			}
			if !handleKey(b, act) {
				return
			}
		}
	}()
	return func() {}
}
