package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSSHConfig_LiteralAliasesAndIncludes(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.conf")
	require.NoError(t, os.WriteFile(extra, []byte("Host included\n  HostName 10.0.0.9\n"), 0o600))

	main := filepath.Join(dir, "config")
	content := `# top comment
Host bastion # inline comment
  HostName bastion.example.com
  User ops
  Port 2222

Host web-* !web-bad
  User deploy

Host alias1 alias2
  HostName=shared.example.com

Include extra.conf

Match host foo
  User ignored
`
	require.NoError(t, os.WriteFile(main, []byte(content), 0o600))

	recs, err := ParseSSHConfig(main)
	require.NoError(t, err)

	got := map[string]string{}
	for _, r := range recs {
		got[r.Key] = r.Description
	}
	assert.Equal(t, map[string]string{
		"bastion":  "ops@bastion.example.com:2222",
		"alias1":   "shared.example.com",
		"alias2":   "shared.example.com",
		"included": "10.0.0.9",
	}, got)
}

func TestImportSSHConfig_KeepsExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("Host a\nHost b\n"), 0o600))

	s := NewStore(Record{Key: "a", Description: "mine"})
	added, err := ImportSSHConfig(s, path)
	require.NoError(t, err)

	assert.Equal(t, 1, added)
	r, _ := s.Lookup("a")
	assert.Equal(t, "mine", r.Description)
}

func TestParseSSHConfig_MissingFileIsEmpty(t *testing.T) {
	recs, err := ParseSSHConfig(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}
