//go:build windows
// +build windows

package manager

import (
	"os"

	"github.com/creack/pty"
)

// startPTYResizeWatcher is a no-op on Windows, which has no SIGWINCH.
func startPTYResizeWatcher(_ *os.File, _ *os.File) (stop func()) {
	return func() {}
}

func inheritPTYSize(ptmx *os.File, out *os.File) {
	if rows, cols, ok := terminalSize(out); ok {
		_ = pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	}
}
