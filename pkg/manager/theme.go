package manager

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gwkit/pkg/browse"
)

// Theme holds the lipgloss styles of the host list, modals and status line.
// A disabled theme renders every style as plain text.
//
// Configuration (config.yaml, all fields optional):
//
//	theme:
//	  name: classic        # classic | mono | none
//	  colors:
//	    selected_fg: black
//	    selected_bg: yellow
//	    match: red
//	    error: red
//	    popup_fg: black
//	    popup_bg: white
//	    accent: cyan
//
// NO_COLOR in the environment disables colors regardless of the file.
type Theme struct {
	Enabled bool

	Plain           lipgloss.Style
	Selected        lipgloss.Style
	Matched         lipgloss.Style
	MatchedSelected lipgloss.Style

	Error  lipgloss.Style
	Popup  lipgloss.Style
	Header lipgloss.Style
	Box    lipgloss.Style
	Dim    lipgloss.Style
}

// ThemeConfig is the YAML representation of a theme.
type ThemeConfig struct {
	Name   string            `yaml:"name,omitempty"`
	Colors map[string]string `yaml:"colors,omitempty"`
}

var classicColors = map[string]string{
	"selected_fg": "0", // black
	"selected_bg": "3", // yellow
	"match":       "1", // red
	"error":       "1",
	"popup_fg":    "0",
	"popup_bg":    "7", // white
	"accent":      "6", // cyan
}

var colorNames = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

// LoadTheme builds the theme described by tc.
func LoadTheme(tc ThemeConfig) Theme {
	name := strings.ToLower(strings.TrimSpace(tc.Name))
	if name == "none" || name == "off" || !terminalSupportsColor() {
		return NoTheme()
	}
	colors := make(map[string]string, len(classicColors))
	for k, v := range classicColors {
		colors[k] = v
	}
	for k, v := range tc.Colors {
		if c := parseColor(v); c != "" {
			colors[strings.ToLower(strings.TrimSpace(k))] = c
		}
	}
	if name == "mono" {
		return monoTheme()
	}
	return colorTheme(colors)
}

// NoTheme disables all styling.
func NoTheme() Theme {
	p := lipgloss.NewStyle()
	return Theme{
		Plain:           p,
		Selected:        p.Reverse(true),
		Matched:         p,
		MatchedSelected: p.Reverse(true),
		Error:           p,
		Popup:           p,
		Header:          p,
		Box:             p.Border(lipgloss.NormalBorder()),
		Dim:             p,
	}
}

func monoTheme() Theme {
	t := NoTheme()
	t.Enabled = true
	t.Matched = lipgloss.NewStyle().Bold(true).Underline(true)
	t.MatchedSelected = t.Matched.Reverse(true)
	t.Header = lipgloss.NewStyle().Bold(true)
	t.Dim = lipgloss.NewStyle().Faint(true)
	t.Box = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	return t
}

func colorTheme(c map[string]string) Theme {
	sel := lipgloss.NewStyle().
		Foreground(lipgloss.Color(c["selected_fg"])).
		Background(lipgloss.Color(c["selected_bg"]))
	match := lipgloss.NewStyle().Foreground(lipgloss.Color(c["match"]))
	accent := lipgloss.Color(c["accent"])
	return Theme{
		Enabled:         true,
		Plain:           lipgloss.NewStyle(),
		Selected:        sel,
		Matched:         match,
		MatchedSelected: sel.Foreground(lipgloss.Color(c["match"])),
		Error:           lipgloss.NewStyle().Foreground(lipgloss.Color(c["error"])).Bold(true),
		Popup: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c["popup_fg"])).
			Background(lipgloss.Color(c["popup_bg"])),
		Header: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Box:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent),
		Dim:    lipgloss.NewStyle().Faint(true),
	}
}

// For returns the style of a highlight class.
func (t Theme) For(s browse.Style) lipgloss.Style {
	switch s {
	case browse.StyleSelected:
		return t.Selected
	case browse.StyleMatched:
		return t.Matched
	case browse.StyleMatchedSelected:
		return t.MatchedSelected
	default:
		return t.Plain
	}
}

// RenderSegments renders highlighted segments joined by single spaces. The
// separator takes the row's base style so selected rows stay one solid bar.
func (t Theme) RenderSegments(segs []browse.Segment, selected bool) string {
	base := t.For(browse.StyleFor(selected, false))
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteString(base.Render(" "))
		}
		if s.Text == "" {
			continue
		}
		b.WriteString(t.For(s.Style).Render(s.Text))
	}
	return b.String()
}

// parseColor accepts a color name, an ANSI index or a #rrggbb value.
func parseColor(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if c, ok := colorNames[s]; ok {
		return c
	}
	if strings.HasPrefix(s, "#") && (len(s) == 7 || len(s) == 4) {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}

func terminalSupportsColor() bool {
	// Respect NO_COLOR https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return term != "dumb"
}
