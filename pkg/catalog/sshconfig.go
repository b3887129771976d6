package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sshHostBlock collects the settings of one "Host" block that matter for a record.
type sshHostBlock struct {
	patterns []string
	hostName string
	user     string
	port     string
}

func (b *sshHostBlock) records() []Record {
	var desc []string
	if b.hostName != "" {
		target := b.hostName
		if b.user != "" {
			target = b.user + "@" + target
		}
		if b.port != "" && b.port != "22" {
			target += ":" + b.port
		}
		desc = append(desc, target)
	}
	var out []Record
	for _, p := range b.patterns {
		if !isLiteralHostPattern(p) {
			continue
		}
		out = append(out, Record{Key: p, Description: strings.Join(desc, " "), Tags: []string{}})
	}
	return out
}

// ParseSSHConfig returns one record per literal Host alias found in the OpenSSH
// client config at path, following Include directives. Wildcard and negated
// patterns are skipped; Match sections are ignored.
func ParseSSHConfig(path string) ([]Record, error) {
	return parseSSHConfig(expandHome(path), map[string]struct{}{})
}

// ImportSSHConfig inserts the aliases of every config in paths into s and returns
// the number of records added. Existing keys are kept untouched.
func ImportSSHConfig(s *Store, paths ...string) (int, error) {
	if len(paths) == 0 {
		paths = []string{"~/.ssh/config"}
	}
	added := 0
	for _, p := range paths {
		recs, err := ParseSSHConfig(p)
		if err != nil {
			return added, err
		}
		for _, r := range recs {
			if s.Insert(r) {
				added++
			}
		}
	}
	return added, nil
}

func parseSSHConfig(path string, visited map[string]struct{}) ([]Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, ok := visited[abs]; ok {
		return nil, nil
	}
	visited[abs] = struct{}{}

	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ssh config %s: %w", abs, err)
	}
	defer f.Close()

	var out []Record
	var current *sshHostBlock
	flush := func() {
		if current != nil {
			out = append(out, current.records()...)
			current = nil
		}
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(stripSSHComment(sc.Text()))
		if line == "" {
			continue
		}
		key, val, ok := splitSSHKeyVal(line)
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "host":
			flush()
			current = &sshHostBlock{patterns: strings.Fields(val)}
		case "match":
			flush()
		case "include":
			flush()
			for _, inc := range expandSSHInclude(abs, val) {
				children, err := parseSSHConfig(inc, visited)
				if err != nil {
					return nil, err
				}
				out = append(out, children...)
			}
		case "hostname":
			if current != nil {
				current.hostName = val
			}
		case "user":
			if current != nil {
				current.user = val
			}
		case "port":
			if current != nil {
				current.port = val
			}
		}
	}
	flush()

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan ssh config %s: %w", abs, err)
	}
	return out, nil
}

// stripSSHComment drops a trailing "# ..." comment unless the hash is quoted.
func stripSSHComment(s string) string {
	inSingle, inDouble := false, false
	for i, r := range s {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return strings.TrimRight(s[:i], " \t")
			}
		}
	}
	return s
}

// splitSSHKeyVal accepts "Key Value" and "Key=Value".
func splitSSHKeyVal(line string) (key, val string, ok bool) {
	i := strings.IndexAny(line, " \t=")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	val = strings.Trim(strings.TrimSpace(line[i+1:]), "=\" \t")
	if key == "" {
		return "", "", false
	}
	return key, val, true
}

func expandSSHInclude(baseFile, pattern string) []string {
	pattern = expandHome(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil
	}
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(filepath.Dir(baseFile), pattern)
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
			out = append(out, m)
		}
	}
	return out
}

// isLiteralHostPattern reports whether p names a single host rather than a pattern.
func isLiteralHostPattern(p string) bool {
	if p == "" || strings.HasPrefix(p, "!") {
		return false
	}
	return !strings.ContainsAny(p, "*?[] \t")
}

func expandHome(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, _ := os.UserHomeDir(); home != "" {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
