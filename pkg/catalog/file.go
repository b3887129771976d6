package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMalformedCatalog is returned when the catalog file exists but cannot be decoded.
var ErrMalformedCatalog = errors.New("malformed catalog")

// isYAML reports whether path should be read and written as YAML rather than JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Load reads the catalog at path into a new, key-sorted Store.
//
// A missing file yields an empty store and a nil error. A file that exists but
// cannot be read or decoded returns an empty store together with an error
// wrapping ErrMalformedCatalog, so callers can log it and carry on.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewStore(), nil
		}
		return NewStore(), fmt.Errorf("read catalog %s: %w: %v", path, ErrMalformedCatalog, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return NewStore(), nil
	}

	var recs []Record
	if isYAML(path) {
		err = yaml.Unmarshal(data, &recs)
	} else {
		err = json.Unmarshal(data, &recs)
	}
	if err != nil {
		return NewStore(), fmt.Errorf("parse catalog %s: %w: %v", path, ErrMalformedCatalog, err)
	}
	for i := range recs {
		recs[i].Key = strings.TrimSpace(recs[i].Key)
	}
	return NewStore(recs...), nil
}

// Save writes every record of s to path, replacing the file atomically.
// The parent directory is created with 0700 permissions if missing.
func Save(path string, s *Store) error {
	if s == nil {
		return errors.New("nil store")
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("empty catalog path")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create catalog dir %s: %w", dir, err)
	}

	recs := s.Snapshot()
	for i := range recs {
		// Empty tags are written as [] rather than null.
		if recs[i].Tags == nil {
			recs[i].Tags = []string{}
		}
	}

	var payload []byte
	var err error
	if isYAML(path) {
		payload, err = yaml.Marshal(recs)
	} else {
		payload, err = json.MarshalIndent(recs, "", "  ")
		payload = append(payload, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	tmp := path + fmt.Sprintf(".tmp-%d-%d", os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write temp catalog %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename to %s: %w", path, err)
	}
	return nil
}

// Backup moves the file at path aside to path+".bak", replacing an older backup,
// and returns the backup path. A missing file is not an error and yields "".
func Backup(path string) (string, error) {
	bak := path + ".bak"
	if err := os.Rename(path, bak); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("back up catalog %s: %w", path, err)
	}
	return bak, nil
}
