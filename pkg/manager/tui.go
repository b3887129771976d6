package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gwkit/pkg/browse"
	"gwkit/pkg/catalog"
)

// UIOptions are the per-run settings that come from the command line.
type UIOptions struct {
	CatalogPath string
	User        string
	Query       string
	StatePath   string

	// CatalogMalformed marks a catalog file that failed to load. It is only
	// written if the session changed the catalog, after moving the old file to
	// CatalogPath+".bak".
	CatalogMalformed bool
}

// Column layout of the host list.
const (
	listGutter    = 5
	columnPadding = 5
)

const (
	statusShort = 2500
	statusLong  = 4000
)

// RunTUI runs the host browser until the user quits, then saves the catalog and
// UI state. The catalog is saved on every orderly exit, including an interrupt.
func RunTUI(cfg *Config, store *catalog.Store, opts UIOptions, logger *slog.Logger) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = discardLogger()
	}
	m := newModel(cfg, store, opts, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, runErr := p.Run()

	if fm, ok := final.(model); ok {
		m = fm
	}
	saveErr := m.save()
	if runErr != nil && !errors.Is(runErr, tea.ErrInterrupted) {
		return fmt.Errorf("run tui: %w", runErr)
	}
	return saveErr
}

type model struct {
	cfg    *Config
	store  *catalog.Store
	logger *slog.Logger
	opts   UIOptions

	theme Theme
	keys  KeyMap
	help  help.Model
	input textinput.Model

	tokens []string
	view   []*catalog.Record
	vp     *browse.Viewport

	userIdx int
	state   *State

	recordForm *recordModal
	pathForm   *pathModal

	width    int
	height   int
	ready    bool
	showHelp bool

	status      string
	statusErr   bool
	statusUntil time.Time

	quitting bool
	dirty    bool

	// overridable in tests
	connect func(*RemoteLogin) tea.Cmd
	copy    func(string) error
}

func newModel(cfg *Config, store *catalog.Store, opts UIOptions, logger *slog.Logger) model {
	if store == nil {
		store = catalog.NewStore()
	}
	if logger == nil {
		logger = discardLogger()
	}

	ti := textinput.New()
	ti.Prompt = "Keyword : "
	ti.Placeholder = "space separated keywords"
	ti.CharLimit = 256
	ti.SetValue(opts.Query)
	ti.Focus()

	h := help.New()
	h.ShowAll = true

	st, err := LoadState(opts.StatePath)
	if err != nil {
		logger.Warn("state unreadable, starting fresh", "err", err)
		st = &State{Version: 1}
	}

	m := model{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		opts:     opts,
		theme:    LoadTheme(cfg.Theme),
		keys:     DefaultKeyMap(),
		help:     h,
		input:    ti,
		vp:       browse.NewViewport(1),
		state:    st,
		showHelp: true,
		connect:  connectCmd,
		copy:     clipboard.WriteAll,
	}

	switch {
	case strings.TrimSpace(opts.User) != "":
		m.userIdx = cfg.UserIndex(opts.User)
	case st.User != "":
		m.userIdx = cfg.UserIndex(st.User)
	}
	m.refilter(-1)
	m.selectRecent()
	return m
}

// selectRecent preselects the most recently connected host still in the view.
func (m *model) selectRecent() {
	for _, k := range m.state.Recents {
		if i := browse.IndexOf(m.view, k); i >= 0 {
			m.vp.Refilter(len(m.view), i)
			m.vp.MoveSelection(0, browse.Down)
			return
		}
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// user is the currently selected login user.
func (m model) user() string {
	if len(m.cfg.Users) == 0 {
		return currentUsername()
	}
	return m.cfg.Users[m.userIdx%len(m.cfg.Users)]
}

// current returns the selected record, or nil.
func (m model) current() *catalog.Record {
	if m.vp.Selected < 0 || m.vp.Selected >= len(m.view) {
		return nil
	}
	return m.view[m.vp.Selected]
}

// refilter recomputes the filtered view from the keyword bar and resets the
// viewport, selecting preferred when it is a valid index.
func (m *model) refilter(preferred int) {
	m.tokens = browse.Tokenize(m.input.Value())
	m.view = browse.Filter(m.store.Records(), m.tokens)
	m.vp.Refilter(len(m.view), preferred)
}

func (m *model) setStatus(s string, ms int) {
	m.status = s
	m.statusErr = false
	m.statusUntil = time.Now().Add(time.Duration(ms) * time.Millisecond)
}

func (m *model) setError(s string) {
	m.setStatus(s, statusLong)
	m.statusErr = true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-lipgloss.Width(m.input.Prompt)-lipgloss.Width(m.userTag())-6)
		m.vp.Resize(m.listCapacity())
		return m, nil

	case formResult:
		m.recordForm = nil
		return m.applyFormResult(msg)

	case pathResult:
		m.pathForm = nil
		return m.applyPathResult(msg)

	case connectMsg:
		if msg.Err != nil {
			m.setError(msg.Err.Error())
		} else {
			m.state.AddRecent(msg.Host)
			m.setStatus(fmt.Sprintf("disconnected from %s", msg.Host), statusShort)
		}
		return m, tea.ClearScreen

	case tea.KeyMsg:
		if m.recordForm != nil {
			return m, m.recordForm.Update(msg, m.store)
		}
		if m.pathForm != nil {
			return m, m.pathForm.Update(msg)
		}
		return m.handleListKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key", "key", msg.String())
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.vp.MoveSelection(1, browse.Up)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.vp.MoveSelection(1, browse.Down)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.vp.MoveSelection(m.cfg.PageSize, browse.Up)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.vp.MoveSelection(m.cfg.PageSize, browse.Down)
		return m, nil

	case key.Matches(msg, m.keys.CycleUser):
		if n := len(m.cfg.Users); n > 0 {
			m.userIdx = (m.userIdx + 1) % n
		}
		m.state.User = m.user()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.vp.Resize(m.listCapacity())
		return m, nil

	case key.Matches(msg, m.keys.Connect):
		r := m.current()
		if r == nil {
			return m, nil
		}
		return m, m.connect(NewRemoteLogin(m.cfg, m.user(), r.Key, m.logger))

	case key.Matches(msg, m.keys.New):
		m.recordForm = newRecordModal()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if r := m.current(); r != nil {
			m.recordForm = editRecordModal(*r)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		return m.deleteCurrent()

	case key.Matches(msg, m.keys.LoadLegacy):
		m.pathForm = newPathModal()
		return m, nil

	case key.Matches(msg, m.keys.Yank):
		if r := m.current(); r != nil {
			if err := m.copy(r.Key); err != nil {
				m.setError(fmt.Sprintf("copy: %v", err))
			} else {
				m.setStatus(fmt.Sprintf("copied %s", r.Key), statusShort)
			}
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter(-1)
	}
	return m, cmd
}

func (m model) deleteCurrent() (tea.Model, tea.Cmd) {
	r := m.current()
	if r == nil {
		return m, nil
	}
	idx := m.vp.Selected
	k := r.Key
	if !m.store.Delete(k) {
		return m, nil
	}
	m.dirty = true
	m.state.RemoveRecent(k)
	m.logger.Info("host deleted", "host", k)
	m.refilter(idx)
	m.setStatus(fmt.Sprintf("deleted %s", k), statusShort)
	return m, nil
}

func (m model) applyFormResult(res formResult) (tea.Model, tea.Cmd) {
	if res.Cancelled {
		return m, nil
	}
	if res.OriginalKey == "" {
		m.store.Insert(res.Record)
		m.dirty = true
		m.logger.Info("host added", "host", res.Record.Key)
		m.refilter(-1)
		m.setStatus(fmt.Sprintf("added %s", res.Record.Key), statusShort)
		return m, nil
	}

	if err := m.store.Update(res.OriginalKey, res.Record); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.dirty = true
	if res.OriginalKey != res.Record.Key {
		m.state.RenameRecent(res.OriginalKey, res.Record.Key)
	}
	m.logger.Info("host updated", "host", res.Record.Key, "was", res.OriginalKey)
	m.refilter(-1)
	if i := browse.IndexOf(m.view, res.Record.Key); i >= 0 {
		m.vp.Refilter(len(m.view), i)
		m.vp.MoveSelection(0, browse.Down)
	}
	m.setStatus(fmt.Sprintf("updated %s", res.Record.Key), statusShort)
	return m, nil
}

func (m model) applyPathResult(res pathResult) (tea.Model, tea.Cmd) {
	if res.Cancelled {
		return m, nil
	}
	p := catalog.LegacyPath(res.Path)
	n, err := catalog.ImportLegacy(m.store, p)
	switch {
	case errors.Is(err, catalog.ErrMissingImportFile):
		m.logger.Info("legacy import skipped", "path", p)
		m.setError(fmt.Sprintf("no such file: %s", p))
		return m, nil
	case err != nil:
		m.logger.Warn("legacy import failed", "path", p, "err", err)
		m.setError(err.Error())
		return m, nil
	}
	m.logger.Info("legacy import", "path", p, "added", n)
	if n > 0 {
		m.dirty = true
	}
	m.refilter(-1)
	m.setStatus(fmt.Sprintf("imported %d hosts from %s", n, p), statusShort)
	return m, nil
}

// save writes the catalog and the UI state.
func (m model) save() error {
	var errs []error
	if m.opts.CatalogPath != "" {
		if err := m.saveCatalog(); err != nil {
			m.logger.Error("catalog save failed", "path", m.opts.CatalogPath, "err", err)
			errs = append(errs, err)
		} else {
			m.logger.Info("catalog saved", "path", m.opts.CatalogPath, "hosts", m.store.Len())
		}
	}
	m.state.User = m.user()
	if err := SaveState(m.opts.StatePath, m.state); err != nil {
		m.logger.Warn("state save failed", "err", err)
	}
	return errors.Join(errs...)
}

func (m model) saveCatalog() error {
	if m.opts.CatalogMalformed {
		if !m.dirty {
			m.logger.Warn("catalog unchanged, keeping unreadable file", "path", m.opts.CatalogPath)
			return nil
		}
		bak, err := catalog.Backup(m.opts.CatalogPath)
		if err != nil {
			return err
		}
		if bak != "" {
			m.logger.Warn("malformed catalog moved aside", "path", bak)
		}
	}
	return catalog.Save(m.opts.CatalogPath, m.store)
}

// --- View ---

func (m model) userTag() string {
	return "[" + m.user() + "]"
}

func (m model) topView() string {
	line := m.theme.Header.Render(m.userTag()) + " " + m.input.View()
	return m.theme.Box.Width(max(10, m.width-2)).Render(line)
}

func (m model) helpView() string {
	if !m.showHelp {
		return m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return m.theme.Box.Width(max(10, m.width-2)).Render(m.help.FullHelpView(m.keys.FullHelp()))
}

// listCapacity is the number of host rows that fit between the keyword bar,
// the column header, the status line and the help panel.
func (m model) listCapacity() int {
	if m.height <= 0 {
		return 1
	}
	chrome := lipgloss.Height(m.topView()) + 1 + 1 + lipgloss.Height(m.helpView())
	return max(1, m.height-chrome)
}

func (m model) columnWidths() (host, tags int) {
	host, tags = m.store.ColumnWidths()
	return host + columnPadding, tags + columnPadding
}

func (m model) headerView() string {
	hostW, tagsW := m.columnWidths()
	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).Render(s)
	}
	line := strings.Repeat(" ", listGutter) + cell("Host", hostW) + cell("Tags", tagsW) + "Description"
	return m.theme.Header.Render(line)
}

func (m model) rowView(r *catalog.Record, selected bool) string {
	hostW, tagsW := m.columnWidths()
	host := browse.Pad(browse.Highlight(r.Key, m.tokens, selected), hostW, selected)
	tags := browse.Pad(browse.Highlight(r.TagLine(), m.tokens, selected), tagsW, selected)
	desc := browse.Highlight(r.Description, m.tokens, selected)

	gutter := strings.Repeat(" ", listGutter)
	if selected {
		gutter = "  >  "
	}
	// Padded fields already span their full column width.
	line := gutter +
		m.theme.RenderSegments(host, selected) +
		m.theme.RenderSegments(tags, selected) +
		m.theme.RenderSegments(desc, selected)
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}

func (m model) listView() string {
	capacity := m.vp.Capacity()
	lines := make([]string, 0, capacity)
	from, to := m.vp.Visible()
	for i := from; i < to; i++ {
		lines = append(lines, m.rowView(m.view[i], m.vp.IsSelected(i)))
	}
	if len(m.view) == 0 {
		msg := "no hosts"
		if m.store.Len() > 0 {
			msg = "no host matches"
		}
		lines = append(lines, strings.Repeat(" ", listGutter)+m.theme.Dim.Render(msg))
	}
	for len(lines) < capacity {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) statusView() string {
	if m.status != "" && time.Now().Before(m.statusUntil) {
		if m.statusErr {
			return m.theme.Error.Render(m.status)
		}
		return m.status
	}
	return m.theme.Dim.Render(fmt.Sprintf("%d/%d hosts", len(m.view), m.store.Len()))
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "gwkit: loading...\n"
	}
	if m.recordForm != nil || m.pathForm != nil {
		var box string
		if m.recordForm != nil {
			box = m.recordForm.View(m.theme, m.help, m.width)
		} else {
			box = m.pathForm.View(m.theme, m.help, m.width)
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.topView(),
		m.headerView(),
		m.listView(),
		m.statusView(),
		m.helpView(),
	)
}
