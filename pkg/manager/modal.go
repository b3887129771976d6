package manager

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gwkit/pkg/catalog"
	"gwkit/pkg/form"
)

const duplicateHostMsg = "Duplicated Host !!!"

// formResult is emitted when the register/modify modal closes.
type formResult struct {
	Record      catalog.Record
	OriginalKey string
	Cancelled   bool
}

// pathResult is emitted when the load-file modal closes.
type pathResult struct {
	Path      string
	Cancelled bool
}

// editorKey applies the shared modal keys to e. It reports whether the key was
// consumed; Enter and cancel are left to the caller.
func editorKey(e *form.Editor, keys formKeyMap, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.Next):
		e.FocusNext()
	case key.Matches(msg, keys.Prev):
		e.FocusPrev()
	case key.Matches(msg, keys.Clear):
		e.InputChar(form.KeyClear)
	case msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH:
		e.Backspace()
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		for _, r := range msg.Runes {
			e.InputChar(r)
		}
	default:
		return false
	}
	return true
}

func resultCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// recordModal registers a new host or modifies an existing one.
type recordModal struct {
	editor *form.RecordEditor
	title  string
	err    string
	keys   formKeyMap
}

func newRecordModal() *recordModal {
	return &recordModal{editor: form.NewRecordEditor(), title: "New host", keys: defaultFormKeyMap()}
}

func editRecordModal(r catalog.Record) *recordModal {
	return &recordModal{editor: form.EditRecordEditor(r), title: "Edit host", keys: defaultFormKeyMap()}
}

func (m *recordModal) Update(msg tea.KeyMsg, store form.KeyLookup) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editor.Cancel()
		return resultCmd(formResult{OriginalKey: m.editor.OriginalKey, Cancelled: true})
	case key.Matches(msg, m.keys.Submit):
		rec, err := m.editor.Commit(store)
		switch {
		case err == nil:
			return resultCmd(formResult{Record: rec, OriginalKey: m.editor.OriginalKey})
		case errors.Is(err, catalog.ErrDuplicateKey):
			m.err = duplicateHostMsg
		default:
			m.err = err.Error()
		}
		return nil
	}
	if editorKey(m.editor.Editor, m.keys, msg) {
		m.err = ""
	}
	return nil
}

func (m *recordModal) View(t Theme, h help.Model, width int) string {
	return renderEditor(t, h, m.keys, m.title, m.editor.Editor, m.err, width)
}

// pathModal asks for the directory (or file) of a legacy .known_hosts list.
type pathModal struct {
	editor *form.Editor
	err    string
	keys   formKeyMap
}

func newPathModal() *pathModal {
	home, _ := os.UserHomeDir()
	return &pathModal{editor: form.NewEditor([]string{"Path :"}, home), keys: defaultFormKeyMap()}
}

func (m *pathModal) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editor.Cancel()
		return resultCmd(pathResult{Cancelled: true})
	case key.Matches(msg, m.keys.Submit):
		p := strings.TrimSpace(m.editor.Value(0))
		if p == "" {
			m.err = "path is required"
			return nil
		}
		return resultCmd(pathResult{Path: p})
	}
	if editorKey(m.editor, m.keys, msg) {
		m.err = ""
	}
	return nil
}

func (m *pathModal) View(t Theme, h help.Model, width int) string {
	return renderEditor(t, h, m.keys, "Load .known_hosts", m.editor, m.err, width)
}

func renderEditor(t Theme, h help.Model, keys formKeyMap, title string, e *form.Editor, errText string, width int) string {
	labelW := 0
	for _, f := range e.Fields {
		labelW = max(labelW, lipgloss.Width(f.Label))
	}
	var b strings.Builder
	b.WriteString(t.Header.Render(title))
	b.WriteString("\n\n")
	for i, f := range e.Fields {
		label := lipgloss.NewStyle().Width(labelW + 1).Render(f.Label)
		text := f.Text
		if i == e.Focus {
			text += "_"
			label = t.Selected.Render(label)
		}
		b.WriteString(label + " " + text + "\n")
	}
	b.WriteString("\n")
	if errText != "" {
		b.WriteString(t.Error.Render(errText))
	}
	b.WriteString("\n")
	b.WriteString(h.ShortHelpView(keys.ShortHelp()))

	boxW := max(20, min(width-4, 72))
	return t.Box.Width(boxW).Padding(0, 1).Render(t.Popup.Render(b.String()))
}
