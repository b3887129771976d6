package manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Remote sessions can be recorded to per-host daily transcripts:
//
//   ~/.config/gwkit/logs/<hostkey>/YYYY-MM-DD.log
//
// A new file is started per local calendar day and appended to. The host key is
// sanitized so any catalog key maps to a single path component.

const (
	transcriptsSubdir  = "logs"
	transcriptExt      = ".log"
	transcriptDayFmt   = "2006-01-02"
	transcriptFilePerm = 0o600
	transcriptDirPerm  = 0o700
)

// TranscriptsBaseDir returns the directory holding every host's transcripts.
func TranscriptsBaseDir() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, transcriptsSubdir), nil
}

// TranscriptPath returns the transcript file for hostKey on the day of t, below base.
// If t is zero, it uses time.Now().
func TranscriptPath(base, hostKey string, t time.Time) (string, error) {
	hostKey = strings.TrimSpace(hostKey)
	if hostKey == "" {
		return "", errors.New("hostKey is required")
	}
	if t.IsZero() {
		t = time.Now()
	}
	day := t.In(time.Local).Format(transcriptDayFmt)
	return filepath.Join(base, sanitizeHostKey(hostKey), day+transcriptExt), nil
}

// OpenTranscript creates (if needed) and opens today's transcript for hostKey in
// append mode, writing a session header line.
func OpenTranscript(base, hostKey, user string, t time.Time) (*os.File, error) {
	if t.IsZero() {
		t = time.Now()
	}
	p, err := TranscriptPath(base, hostKey, t)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), transcriptDirPerm); err != nil {
		return nil, fmt.Errorf("mkdir transcripts dir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, transcriptFilePerm)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	header := fmt.Sprintf("\n=== %s session %s@%s ===\n", t.In(time.Local).Format(time.RFC3339), user, hostKey)
	if _, err := f.WriteString(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write transcript header: %w", err)
	}
	return f, nil
}

// sanitizeHostKey maps a host key to a filesystem-safe directory name.
func sanitizeHostKey(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_', r == '@':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "_"
	}
	return out
}
