package browse

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Style is the rendering class of a piece of text in the host list.
type Style int

const (
	StylePlain Style = iota
	StyleSelected
	StyleMatched
	StyleMatchedSelected
)

// StyleFor derives the style class from the row selection and the word match.
func StyleFor(selected, matched bool) Style {
	switch {
	case selected && matched:
		return StyleMatchedSelected
	case matched:
		return StyleMatched
	case selected:
		return StyleSelected
	default:
		return StylePlain
	}
}

// Segment is one word (or padding run) of a rendered field.
type Segment struct {
	Text  string
	Style Style
}

// Highlight splits text into its space-separated words and styles each one.
//
// For every token the first case-insensitive occurrence in text is located; the
// word containing it is marked matched. Rejoining the segment texts with single
// spaces gives back text unchanged.
func Highlight(text string, tokens []string, selected bool) []Segment {
	words := strings.Split(text, " ")

	// Byte offset of each word start within text.
	starts := make([]int, len(words))
	off := 0
	for i, w := range words {
		starts[i] = off
		off += len(w) + 1
	}

	matched := make([]bool, len(words))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		at := indexFold(text, tok)
		if at < 0 {
			continue
		}
		for i := len(words) - 1; i >= 0; i-- {
			if starts[i] <= at {
				matched[i] = true
				break
			}
		}
	}

	out := make([]Segment, len(words))
	for i, w := range words {
		out[i] = Segment{Text: w, Style: StyleFor(selected, matched[i])}
	}
	return out
}

// indexFold returns the byte offset in s of the first case-insensitive
// occurrence of substr, or -1. Case folding never changes the offsets, even for
// runes whose upper case has a different encoded length.
func indexFold(s, substr string) int {
	n := utf8.RuneCountInString(substr)
	for i := range s {
		j := i
		for k := 0; k < n; k++ {
			if j >= len(s) {
				return -1
			}
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
		}
		if strings.EqualFold(s[i:j], substr) {
			return i
		}
	}
	return -1
}

// containsFold reports whether substr occurs in s ignoring case.
func containsFold(s, substr string) bool {
	return indexFold(s, substr) >= 0
}

// Join reassembles the text of segs, separating words by single spaces.
func Join(segs []Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// Width is the number of terminal columns segs occupy once joined by spaces.
// East Asian wide runes count as two columns.
func Width(segs []Segment) int {
	if len(segs) == 0 {
		return 0
	}
	w := len(segs) - 1
	for _, s := range segs {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// Pad right-pads a field to width columns with a trailing padding segment in the
// row's base style. Fields already at or beyond width are returned unchanged; a
// width <= 0 means the field has no column budget.
func Pad(segs []Segment, width int, selected bool) []Segment {
	if width <= 0 {
		return segs
	}
	w := Width(segs)
	if w >= width {
		return segs
	}
	return append(segs, Segment{Text: strings.Repeat(" ", width-w-1), Style: StyleFor(selected, false)})
}
