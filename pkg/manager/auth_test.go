package manager

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX userland")
	}
}

func TestBootstrap_PipesPasswordFile(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	pw := filepath.Join(dir, ".kinit_passwd")
	writeFile(t, pw, "s3cret\n")

	var out bytes.Buffer
	a := AuthConfig{Command: []string{"cat"}, PasswordFile: pw}
	require.NoError(t, a.Bootstrap(context.Background(), strings.NewReader("typed\n"), &out, &out, nil))
	assert.Equal(t, "s3cret\n", out.String())
}

func TestBootstrap_InteractiveWithoutPasswordFile(t *testing.T) {
	skipOnWindows(t)
	var out bytes.Buffer
	a := AuthConfig{Command: []string{"cat"}, PasswordFile: filepath.Join(t.TempDir(), "missing")}
	require.NoError(t, a.Bootstrap(context.Background(), strings.NewReader("typed\n"), &out, &out, nil))
	assert.Equal(t, "typed\n", out.String())
}

func TestBootstrap_FailureIsWrapped(t *testing.T) {
	skipOnWindows(t)
	a := AuthConfig{Command: []string{"false"}}
	err := a.Bootstrap(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}, nil)
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestBootstrap_EmptyCommandIsNoop(t *testing.T) {
	assert.NoError(t, AuthConfig{}.Bootstrap(context.Background(), nil, nil, nil, nil))
}
