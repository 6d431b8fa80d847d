//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

func resizeSignal() (chan os.Signal, func()) {
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	return winch, func() { signal.Stop(winch) }
}
