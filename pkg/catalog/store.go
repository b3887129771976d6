// Package catalog holds the host records browsed by gwkit and the files they are read from.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Record is a single remote host entry.
//
// Key is the identity of the record (the host name) and is case-sensitive.
// On disk it is serialized as "host" to stay compatible with existing server_list.json files.
type Record struct {
	Key         string   `json:"host" yaml:"host"`
	Description string   `json:"description" yaml:"description,omitempty"`
	Tags        []string `json:"tags" yaml:"tags,omitempty"`
}

// TagLine returns the tags joined the way they are displayed in the list.
func (r Record) TagLine() string {
	return strings.Join(r.Tags, ", ")
}

var (
	// ErrDuplicateKey is returned when a record would collide with an existing key.
	ErrDuplicateKey = errors.New("duplicate host")

	// ErrNotFound is returned when a key is not present in the store.
	ErrNotFound = errors.New("host not found")
)

// defaultColumnWidth is used for the host and tag columns when the store is empty.
const defaultColumnWidth = 30

// Store is the in-memory, key-sorted collection of records.
//
// Records are held by pointer so filtered views can reference them without copying.
// The store is not safe for concurrent use; gwkit mutates it only from the UI loop.
type Store struct {
	records []*Record
}

// NewStore builds a store from recs. Records are sorted by key; when keys repeat
// the first occurrence wins.
func NewStore(recs ...Record) *Store {
	s := &Store{}
	for _, r := range recs {
		s.Insert(r)
	}
	return s
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns the records in key order. The slice is a copy; the records are shared.
func (s *Store) Records() []*Record {
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Snapshot returns value copies of all records in key order (used for saving).
func (s *Store) Snapshot() []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		cp.Tags = append([]string(nil), r.Tags...)
		out = append(out, cp)
	}
	return out
}

// search returns the insertion index for key and whether it is already present.
func (s *Store) search(key string) (int, bool) {
	i := sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Key >= key
	})
	return i, i < len(s.records) && s.records[i].Key == key
}

// Lookup returns the record stored under key.
func (s *Store) Lookup(key string) (*Record, bool) {
	i, ok := s.search(key)
	if !ok {
		return nil, false
	}
	return s.records[i], true
}

// Contains reports whether key is present.
func (s *Store) Contains(key string) bool {
	_, ok := s.search(key)
	return ok
}

// Insert adds r at its sorted position. An existing key makes Insert a no-op;
// the return value reports whether the record was added.
func (s *Store) Insert(r Record) bool {
	i, ok := s.search(r.Key)
	if ok {
		return false
	}
	rec := r
	rec.Tags = append([]string(nil), r.Tags...)
	s.records = append(s.records, nil)
	copy(s.records[i+1:], s.records[i:])
	s.records[i] = &rec
	return true
}

// Delete removes the record stored under key.
func (s *Store) Delete(key string) bool {
	i, ok := s.search(key)
	if !ok {
		return false
	}
	copy(s.records[i:], s.records[i+1:])
	s.records[len(s.records)-1] = nil
	s.records = s.records[:len(s.records)-1]
	return true
}

// Update replaces the record stored under originalKey with r, in place.
// The record pointer stays valid; if the key changes the store is re-sorted.
func (s *Store) Update(originalKey string, r Record) error {
	i, ok := s.search(originalKey)
	if !ok {
		return fmt.Errorf("update %q: %w", originalKey, ErrNotFound)
	}
	if r.Key != originalKey && s.Contains(r.Key) {
		return fmt.Errorf("update %q -> %q: %w", originalKey, r.Key, ErrDuplicateKey)
	}
	rec := s.records[i]
	rec.Key = r.Key
	rec.Description = r.Description
	rec.Tags = append([]string(nil), r.Tags...)
	if r.Key != originalKey {
		sort.SliceStable(s.records, func(a, b int) bool {
			return s.records[a].Key < s.records[b].Key
		})
	}
	return nil
}

// ColumnWidths returns the display widths of the longest host and the longest
// joined tag list.
// An empty store reports the default width for both.
func (s *Store) ColumnWidths() (host, tags int) {
	if len(s.records) == 0 {
		return defaultColumnWidth, defaultColumnWidth
	}
	for _, r := range s.records {
		host = max(host, runewidth.StringWidth(r.Key))
		tags = max(tags, runewidth.StringWidth(r.TagLine()))
	}
	return host, tags
}
