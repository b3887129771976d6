package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u", ".known_hosts"), LegacyPath("/home/u"))
	assert.Equal(t, "/home/u/.known_hosts", LegacyPath("/home/u/.known_hosts"))
}

func TestParseLegacyLine(t *testing.T) {
	rec, ok := ParseLegacyLine("  gw01.example.com   build   gateway  ")
	require.True(t, ok)
	assert.Equal(t, "gw01.example.com", rec.Key)
	assert.Equal(t, "build gateway", rec.Description)
	assert.Empty(t, rec.Tags)

	_, ok = ParseLegacyLine("   ")
	assert.False(t, ok)
}

func TestImportLegacy_SkipsDuplicatesAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	content := "new1 first host\n\nexisting should be skipped\nnew2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".known_hosts"), []byte(content), 0o600))

	s := NewStore(Record{Key: "existing", Description: "keep me"})
	added, err := ImportLegacy(s, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"existing", "new1", "new2"}, keys(s.Records()))
	r, _ := s.Lookup("existing")
	assert.Equal(t, "keep me", r.Description)
}

func TestImportLegacy_MissingFile(t *testing.T) {
	s := NewStore()
	added, err := ImportLegacy(s, t.TempDir())
	require.ErrorIs(t, err, ErrMissingImportFile)
	assert.Zero(t, added)
	assert.Zero(t, s.Len())
}
