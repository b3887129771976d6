//go:build !windows
// +build !windows

package manager

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// flushTTYInput best-effort discards unread input queued on the controlling
// terminal (keys typed while the list was redrawing, terminal replies such as
// OSC/DSR) so they are not delivered to the remote login.
//
// If /dev/tty isn't available (non-interactive), this is a no-op.
func flushTTYInput() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
	if err != nil {
		return
	}
	defer func() { _ = tty.Close() }()

	fd := int(tty.Fd())

	// tcflush(fd, TCIFLUSH) via ioctl(TCFLSH); 0x540B on Linux and Darwin.
	const TCFLSH = 0x540B
	_, _, _ = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(TCFLSH), uintptr(unix.TCIFLUSH))

	// Short non-blocking drain for bytes arriving right after the flush.
	_ = unix.SetNonblock(fd, true)
	defer func() { _ = unix.SetNonblock(fd, false) }()

	deadline := time.Now().Add(150 * time.Millisecond)
	buf := make([]byte, 512)
	for time.Now().Before(deadline) {
		n, _ := unix.Read(fd, buf)
		if n <= 0 {
			break
		}
		deadline = time.Now().Add(50 * time.Millisecond)
	}
}
