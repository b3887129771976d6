package manager

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// ErrExternalProcess wraps a remote login that could not be started or exited
// with an error. It is reported in the status line; the UI keeps running.
var ErrExternalProcess = errors.New("remote login failed")

// RemoteLogin runs the login command for one host with the terminal handed over.
// It implements tea.ExecCommand, so Bubble Tea releases the screen before Run and
// restores it afterwards.
//
// With TranscriptDir set the command runs under a pty and everything it prints is
// also appended to the host's daily transcript.
type RemoteLogin struct {
	Argv          []string
	Host          string
	User          string
	TranscriptDir string
	Logger        *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRemoteLogin builds the login for user@host from cfg.
func NewRemoteLogin(cfg *Config, user, host string, logger *slog.Logger) *RemoteLogin {
	r := &RemoteLogin{
		Argv:   cfg.LoginArgv(user, host),
		Host:   host,
		User:   user,
		Logger: logger,
	}
	if cfg.Transcripts {
		if dir, err := TranscriptsBaseDir(); err == nil {
			r.TranscriptDir = dir
		}
	}
	return r
}

func (r *RemoteLogin) SetStdin(in io.Reader)   { r.stdin = in }
func (r *RemoteLogin) SetStdout(out io.Writer) { r.stdout = out }
func (r *RemoteLogin) SetStderr(out io.Writer) { r.stderr = out }

// Run executes the login and blocks until it exits.
func (r *RemoteLogin) Run() error {
	if len(r.Argv) == 0 {
		return fmt.Errorf("%w: empty login command", ErrExternalProcess)
	}
	if r.Logger == nil {
		r.Logger = discardLogger()
	}
	if r.stdin == nil {
		r.stdin = os.Stdin
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}

	restoreTerminalForExec(r.stdout)
	flushTTYInput()

	start := time.Now()
	r.Logger.Info("connect", "host", r.Host, "user", r.User, "argv", r.Argv)

	var err error
	if r.TranscriptDir != "" {
		err = r.runRecorded()
	} else {
		err = r.runDirect()
	}
	if err != nil {
		r.Logger.Warn("connect failed", "host", r.Host, "err", err)
		return fmt.Errorf("%w: %s: %v", ErrExternalProcess, r.Host, err)
	}
	r.Logger.Info("disconnected", "host", r.Host, "duration", time.Since(start).Round(time.Second))
	return nil
}

func (r *RemoteLogin) runDirect() error {
	cmd := exec.Command(r.Argv[0], r.Argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = r.stdin, r.stdout, r.stderr
	return cmd.Run()
}

// runRecorded starts the login under a pty, puts the local terminal in raw mode
// and pumps bytes both ways, teeing the output into the transcript.
func (r *RemoteLogin) runRecorded() error {
	transcript, err := OpenTranscript(r.TranscriptDir, r.Host, r.User, time.Now())
	if err != nil {
		r.Logger.Warn("transcript unavailable, connecting without it", "host", r.Host, "err", err)
		return r.runDirect()
	}
	defer transcript.Close()

	cmd := exec.Command(r.Argv[0], r.Argv[1:]...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("pty start: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	outFile, _ := r.stdout.(*os.File)
	inheritPTYSize(ptmx, outFile)
	stopResize := startPTYResizeWatcher(ptmx, outFile)
	defer stopResize()

	if inFile, ok := r.stdin.(*os.File); ok && term.IsTerminal(int(inFile.Fd())) {
		if oldState, err := term.MakeRaw(int(inFile.Fd())); err == nil {
			defer func() { _ = term.Restore(int(inFile.Fd()), oldState) }()
		}
	}

	// stdin must be released when the login exits, or the next key pressed in the
	// list would be swallowed by this pump.
	in, err := cancelreader.NewReader(r.stdin)
	if err != nil {
		return fmt.Errorf("stdin reader: %w", err)
	}
	defer in.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(ptmx, in)
	}()

	// Reading the pty master returns EIO once the child side is closed.
	_, _ = io.Copy(io.MultiWriter(r.stdout, transcript), ptmx)
	waitErr := cmd.Wait()

	// A reader that cannot be cancelled leaves the pump blocked until the next
	// key; it is abandoned rather than waited for.
	if in.Cancel() {
		wg.Wait()
	}
	return waitErr
}

// restoreTerminalForExec shows the cursor and resets attributes before the
// remote side starts drawing.
func restoreTerminalForExec(out io.Writer) {
	// CSI ? 25 h => show cursor, CSI 0 m => reset attributes
	_, _ = fmt.Fprint(out, "\033[?25h\033[0m")
}

// terminalSize reports the rows and columns of f when it is a terminal.
func terminalSize(f *os.File) (rows, cols int, ok bool) {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, false
	}
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil || rows <= 0 || cols <= 0 {
		return 0, 0, false
	}
	return rows, cols, true
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// connectMsg reports a finished remote login back to the model.
type connectMsg struct {
	Host string
	Err  error
}

// connectCmd hands the terminal to login and reports back when it exits.
func connectCmd(login *RemoteLogin) tea.Cmd {
	return tea.Exec(login, func(err error) tea.Msg {
		return connectMsg{Host: login.Host, Err: err}
	})
}
