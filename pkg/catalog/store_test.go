package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(recs []*Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Key)
	}
	return out
}

func TestNewStore_SortsByKeyAndKeepsFirstDuplicate(t *testing.T) {
	s := NewStore(
		Record{Key: "web2", Description: "second"},
		Record{Key: "db1"},
		Record{Key: "web2", Description: "dup"},
		Record{Key: "app1"},
	)

	assert.Equal(t, []string{"app1", "db1", "web2"}, keys(s.Records()))
	r, ok := s.Lookup("web2")
	require.True(t, ok)
	assert.Equal(t, "second", r.Description)
}

func TestInsert_ExistingKeyIsNoop(t *testing.T) {
	s := NewStore(Record{Key: "h1", Description: "orig"})

	assert.False(t, s.Insert(Record{Key: "h1", Description: "other"}))
	assert.True(t, s.Insert(Record{Key: "h0"}))

	r, _ := s.Lookup("h1")
	assert.Equal(t, "orig", r.Description)
	assert.Equal(t, []string{"h0", "h1"}, keys(s.Records()))
}

func TestInsert_KeyIsCaseSensitive(t *testing.T) {
	s := NewStore(Record{Key: "Host"})
	assert.True(t, s.Insert(Record{Key: "host"}))
	assert.Equal(t, 2, s.Len())
}

func TestDelete(t *testing.T) {
	s := NewStore(Record{Key: "a"}, Record{Key: "b"}, Record{Key: "c"})

	assert.True(t, s.Delete("b"))
	assert.False(t, s.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, keys(s.Records()))
}

func TestUpdate_RenameKeepsPointerAndOrder(t *testing.T) {
	s := NewStore(Record{Key: "alpha"}, Record{Key: "mid"}, Record{Key: "zulu"})
	ptr, _ := s.Lookup("alpha")

	err := s.Update("alpha", Record{Key: "yankee", Description: "renamed", Tags: []string{"x"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"mid", "yankee", "zulu"}, keys(s.Records()))
	assert.Equal(t, "yankee", ptr.Key)
	assert.Equal(t, "renamed", ptr.Description)
}

func TestUpdate_RejectsCollision(t *testing.T) {
	s := NewStore(Record{Key: "a"}, Record{Key: "b"})

	err := s.Update("a", Record{Key: "b"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	err = s.Update("missing", Record{Key: "c"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestColumnWidths(t *testing.T) {
	host, tags := NewStore().ColumnWidths()
	assert.Equal(t, 30, host)
	assert.Equal(t, 30, tags)

	s := NewStore(
		Record{Key: "short", Tags: []string{"a", "bb"}},
		Record{Key: "much-longer-host"},
	)
	host, tags = s.ColumnWidths()
	assert.Equal(t, len("much-longer-host"), host)
	assert.Equal(t, len("a, bb"), tags)
}

func TestColumnWidths_WideRunes(t *testing.T) {
	s := NewStore(Record{Key: "東京-db01", Tags: []string{"本番"}})
	host, tags := s.ColumnWidths()
	assert.Equal(t, 9, host)
	assert.Equal(t, 4, tags)
}

func TestRecords_ReturnsIndependentSlice(t *testing.T) {
	s := NewStore(Record{Key: "a"}, Record{Key: "b"})
	recs := s.Records()
	recs[0] = nil
	assert.NotNil(t, s.Records()[0])
}
