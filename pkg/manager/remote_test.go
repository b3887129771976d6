package manager

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteLogin_RunsCommandWithGivenStdio(t *testing.T) {
	skipOnWindows(t)
	var out bytes.Buffer
	r := &RemoteLogin{Argv: []string{"sh", "-c", "echo hello from $0", "web01"}, Host: "web01"}
	r.SetStdin(strings.NewReader(""))
	r.SetStdout(&out)
	r.SetStderr(&out)

	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "hello from web01")
}

func TestRemoteLogin_FailureIsExternalProcessError(t *testing.T) {
	skipOnWindows(t)
	r := &RemoteLogin{Argv: []string{"false"}, Host: "db01"}
	r.SetStdin(strings.NewReader(""))
	r.SetStdout(&bytes.Buffer{})
	r.SetStderr(&bytes.Buffer{})

	err := r.Run()
	require.ErrorIs(t, err, ErrExternalProcess)
	assert.Contains(t, err.Error(), "db01")

	empty := &RemoteLogin{}
	assert.ErrorIs(t, empty.Run(), ErrExternalProcess)
}

func TestRemoteLogin_RecordsTranscript(t *testing.T) {
	skipOnWindows(t)
	base := t.TempDir()
	var out bytes.Buffer
	r := &RemoteLogin{
		Argv:          []string{"sh", "-c", "echo transcript-line"},
		Host:          "web01",
		User:          "irteam",
		TranscriptDir: base,
	}
	r.SetStdin(strings.NewReader(""))
	r.SetStdout(&out)
	r.SetStderr(&out)

	err := r.Run()
	if err != nil && strings.Contains(err.Error(), "pty start") {
		t.Skipf("no pty available: %v", err)
	}
	require.NoError(t, err)
	assert.Contains(t, out.String(), "transcript-line")

	p, err := TranscriptPath(base, "web01", time.Now())
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session irteam@web01")
	assert.Contains(t, string(data), "transcript-line")
	assert.Equal(t, filepath.Join(base, "web01"), filepath.Dir(p))
}

func TestNewRemoteLogin_UsesLoginTemplate(t *testing.T) {
	isolateConfigDirs(t)
	cfg := DefaultConfig()
	r := NewRemoteLogin(cfg, "irteamsu", "db01", nil)
	assert.Equal(t, []string{"rlogin", "-l", "irteamsu", "db01"}, r.Argv)
	assert.Empty(t, r.TranscriptDir)

	cfg.Transcripts = true
	r = NewRemoteLogin(cfg, "irteam", "db01", nil)
	assert.NotEmpty(t, r.TranscriptDir)
}
