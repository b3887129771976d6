// Package form implements the small cyclic-focus text entry used by gwkit's modal
// dialogs (register/modify host, load legacy file).
package form

// Control codes understood by Editor.InputChar.
const (
	KeyBackspace rune = 0x08
	KeyDelete    rune = 0x7f
	KeyClear     rune = 0x12 // ctrl+r
)

// Field is one labeled line of text. Cursor is the insertion point; text is only
// ever appended to or trimmed at the end, so Cursor == len(Text).
type Field struct {
	Label  string
	Text   string
	Cursor int
}

func newField(label, value string) Field {
	return Field{Label: label, Text: value, Cursor: len(value)}
}

// Editor holds the fields of a modal form and which one has focus.
type Editor struct {
	Fields []Field
	Focus  int

	cancelled bool
}

// NewEditor returns an editor with one field per label, prefilled from values
// (missing values start empty). Focus starts on the first field.
func NewEditor(labels []string, values ...string) *Editor {
	e := &Editor{Fields: make([]Field, len(labels))}
	for i, l := range labels {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		e.Fields[i] = newField(l, v)
	}
	return e
}

// FocusNext moves focus to the next field, wrapping to the first.
func (e *Editor) FocusNext() {
	e.moveFocus(1)
}

// FocusPrev moves focus to the previous field, wrapping to the last.
func (e *Editor) FocusPrev() {
	e.moveFocus(-1)
}

func (e *Editor) moveFocus(delta int) {
	n := len(e.Fields)
	if n == 0 {
		return
	}
	e.Focus = ((e.Focus+delta)%n + n) % n
}

// Focused returns the field that has focus, or nil for an editor without fields.
func (e *Editor) Focused() *Field {
	if e.Focus < 0 || e.Focus >= len(e.Fields) {
		return nil
	}
	return &e.Fields[e.Focus]
}

// InputChar applies one input unit to the focused field: printable ASCII is
// appended, backspace/delete drop the last character and KeyClear empties it.
// Anything else is ignored. It reports whether the field changed.
func (e *Editor) InputChar(c rune) bool {
	switch {
	case c == KeyBackspace || c == KeyDelete:
		return e.Backspace()
	case c == KeyClear:
		return e.Clear()
	case c >= 0x20 && c <= 0x7e:
		f := e.Focused()
		if f == nil {
			return false
		}
		f.Text += string(c)
		f.Cursor++
		return true
	default:
		return false
	}
}

// InputString feeds every rune of s to InputChar.
func (e *Editor) InputString(s string) {
	for _, r := range s {
		e.InputChar(r)
	}
}

// Backspace removes the last character of the focused field.
func (e *Editor) Backspace() bool {
	f := e.Focused()
	if f == nil || f.Cursor == 0 {
		return false
	}
	f.Text = f.Text[:f.Cursor-1]
	f.Cursor--
	return true
}

// Clear empties the focused field.
func (e *Editor) Clear() bool {
	f := e.Focused()
	if f == nil || f.Text == "" {
		return false
	}
	f.Text = ""
	f.Cursor = 0
	return true
}

// Value returns the text of field i.
func (e *Editor) Value(i int) string {
	if i < 0 || i >= len(e.Fields) {
		return ""
	}
	return e.Fields[i].Text
}

// Cancel discards every field's text. A cancelled editor produces no result.
func (e *Editor) Cancel() {
	for i := range e.Fields {
		e.Fields[i].Text = ""
		e.Fields[i].Cursor = 0
	}
	e.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (e *Editor) Cancelled() bool {
	return e.cancelled
}
