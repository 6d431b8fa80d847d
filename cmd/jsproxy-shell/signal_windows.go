//go:build windows

package main

import (
	"os"
)

func resizeSignal() (chan os.Signal, func()) {
	// no SIGWINCH on Windows
	return make(chan os.Signal, 1), func() {}
}
