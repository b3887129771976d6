package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// ErrAuthFailed is returned when the credential bootstrap command fails.
var ErrAuthFailed = errors.New("auth bootstrap failed")

// Bootstrap runs the configured credential command (kinit by default) once
// before the UI starts. When the password file exists its contents are piped to
// the command's stdin; otherwise the command reads from the terminal.
//
// An empty command is a no-op. Failures are returned wrapped in ErrAuthFailed
// and are not meant to stop the program.
func (a AuthConfig) Bootstrap(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, logger *slog.Logger) error {
	if len(a.Command) == 0 {
		return nil
	}
	if logger == nil {
		logger = discardLogger()
	}

	cmd := exec.CommandContext(ctx, a.Command[0], a.Command[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr

	pw := expandPath(a.PasswordFile)
	if pw != "" {
		if f, err := os.Open(pw); err == nil {
			defer f.Close()
			cmd.Stdin = f
			logger.Info("auth bootstrap", "command", a.Command[0], "password_file", pw)
		} else {
			logger.Info("auth bootstrap", "command", a.Command[0], "interactive", true)
		}
	}

	if err := cmd.Run(); err != nil {
		logger.Warn("auth bootstrap failed", "command", a.Command[0], "err", err)
		return fmt.Errorf("%w: %s: %v", ErrAuthFailed, a.Command[0], err)
	}
	return nil
}
