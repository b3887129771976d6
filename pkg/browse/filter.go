// Package browse implements the keyword filter, the scrolling selection window and
// the per-word highlighting used by the host list.
package browse

import (
	"strings"

	"gwkit/pkg/catalog"
)

// Tokenize splits a raw keyword query on whitespace. Empty tokens are never returned.
func Tokenize(raw string) []string {
	return strings.Fields(raw)
}

// Matches reports whether token is a case-insensitive substring of the record's
// key, description or any of its tags.
func Matches(r *catalog.Record, token string) bool {
	if containsFold(r.Key, token) || containsFold(r.Description, token) {
		return true
	}
	for _, tag := range r.Tags {
		if containsFold(tag, token) {
			return true
		}
	}
	return false
}

// Filter returns the records matching every token, in input order.
//
// The result always is a new slice holding the same record pointers, so it can be
// fed back into Filter; with no tokens every record is kept.
func Filter(recs []*catalog.Record, tokens []string) []*catalog.Record {
	out := make([]*catalog.Record, 0, len(recs))
	for _, r := range recs {
		if matchesAll(r, tokens) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r *catalog.Record, tokens []string) bool {
	for _, t := range tokens {
		if !Matches(r, t) {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the record with key in view, or -1.
func IndexOf(view []*catalog.Record, key string) int {
	for i, r := range view {
		if r.Key == key {
			return i
		}
	}
	return -1
}
