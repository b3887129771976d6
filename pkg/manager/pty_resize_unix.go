//go:build !windows
// +build !windows

package manager

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
)

// startPTYResizeWatcher keeps the PTY size in sync with the terminal behind out
// until the returned stop func is called.
//
// Implemented only on non-Windows because Windows does not define SIGWINCH.
func startPTYResizeWatcher(ptmx *os.File, out *os.File) (stop func()) {
	if ptmx == nil || out == nil {
		return func() {}
	}

	winchCh := make(chan os.Signal, 1)
	signal.Notify(winchCh, syscall.SIGWINCH)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-winchCh:
				syncPTYSize(ptmx, out)
			}
		}
	}()
	return func() {
		signal.Stop(winchCh)
		close(done)
	}
}

// inheritPTYSize copies the terminal size of out onto ptmx, best-effort.
func inheritPTYSize(ptmx *os.File, out *os.File) {
	syncPTYSize(ptmx, out)
}

func syncPTYSize(ptmx *os.File, out *os.File) {
	if rows, cols, ok := terminalSize(out); ok {
		_ = pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	}
}
