package form

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gwkit/pkg/catalog"
)

// Field indexes of a record form.
const (
	FieldHost = iota
	FieldDescription
	FieldTags
)

// ErrEmptyKey is returned when a record form is committed without a host.
var ErrEmptyKey = errors.New("host is required")

// ErrCancelled is returned by Commit on a cancelled form.
var ErrCancelled = errors.New("cancelled")

var recordLabels = []string{"Host :", "Description :", "Tags :"}

// KeyLookup is the part of the record store a form needs for validation.
type KeyLookup interface {
	Contains(key string) bool
}

// RecordEditor is the register/modify host form.
type RecordEditor struct {
	*Editor

	// OriginalKey is the key of the record being modified; empty when registering.
	OriginalKey string
}

// NewRecordEditor returns an empty form for registering a new host.
func NewRecordEditor() *RecordEditor {
	return &RecordEditor{Editor: NewEditor(recordLabels)}
}

// EditRecordEditor returns a form prefilled from r for modifying it in place.
func EditRecordEditor(r catalog.Record) *RecordEditor {
	return &RecordEditor{
		Editor:      NewEditor(recordLabels, r.Key, r.Description, strings.Join(r.Tags, " ")),
		OriginalKey: r.Key,
	}
}

// Editing reports whether the form modifies an existing record.
func (e *RecordEditor) Editing() bool {
	return e.OriginalKey != ""
}

// SplitTags splits s on commas and whitespace, dropping empty entries.
func SplitTags(s string) []string {
	tags := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if tags == nil {
		return []string{}
	}
	return tags
}

// Record builds the candidate record from the current field texts.
func (e *RecordEditor) Record() catalog.Record {
	return catalog.Record{
		Key:         strings.TrimSpace(e.Value(FieldHost)),
		Description: e.Value(FieldDescription),
		Tags:        SplitTags(e.Value(FieldTags)),
	}
}

// Commit validates the form against store and returns the candidate record.
//
// The host must be non-empty and must not belong to another record; when
// modifying, the record's own original key is exempt. On failure the fields are
// left untouched so the user can correct them.
func (e *RecordEditor) Commit(store KeyLookup) (catalog.Record, error) {
	if e.Cancelled() {
		return catalog.Record{}, ErrCancelled
	}
	rec := e.Record()
	if rec.Key == "" {
		return catalog.Record{}, ErrEmptyKey
	}
	if e.Editing() && rec.Key == e.OriginalKey {
		return rec, nil
	}
	if store != nil && store.Contains(rec.Key) {
		return catalog.Record{}, fmt.Errorf("%q: %w", rec.Key, catalog.ErrDuplicateKey)
	}
	return rec, nil
}
