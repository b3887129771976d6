package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingImportFile is returned when a legacy import file does not exist.
var ErrMissingImportFile = errors.New("import file not found")

// legacyFileName is the file looked up inside a directory given to ImportLegacy.
const legacyFileName = ".known_hosts"

// LegacyPath normalizes the path typed by the user: a path that does not name a
// .known_hosts file is treated as the directory containing one.
func LegacyPath(p string) string {
	if strings.Contains(p, legacyFileName) {
		return p
	}
	return filepath.Join(p, legacyFileName)
}

// ParseLegacyLine parses one "host[ description...]" line. Blank lines report ok=false.
func ParseLegacyLine(line string) (Record, bool) {
	chunks := strings.Fields(line)
	if len(chunks) == 0 {
		return Record{}, false
	}
	return Record{
		Key:         chunks[0],
		Description: strings.Join(chunks[1:], " "),
		Tags:        []string{},
	}, true
}

// ImportLegacy inserts every record listed in the legacy gateway file at path
// (see LegacyPath) into s. Keys already present are skipped. It returns the
// number of records added.
func ImportLegacy(s *Store, path string) (int, error) {
	path = LegacyPath(path)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%s: %w", path, ErrMissingImportFile)
		}
		return 0, fmt.Errorf("open legacy file %s: %w", path, err)
	}
	defer f.Close()

	added := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		rec, ok := ParseLegacyLine(sc.Text())
		if !ok {
			continue
		}
		if s.Insert(rec) {
			added++
		}
	}
	if err := sc.Err(); err != nil {
		return added, fmt.Errorf("scan legacy file %s: %w", path, err)
	}
	return added, nil
}
