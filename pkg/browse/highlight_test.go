package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleFor(t *testing.T) {
	assert.Equal(t, StylePlain, StyleFor(false, false))
	assert.Equal(t, StyleSelected, StyleFor(true, false))
	assert.Equal(t, StyleMatched, StyleFor(false, true))
	assert.Equal(t, StyleMatchedSelected, StyleFor(true, true))
}

func TestHighlight_MarksWordContainingToken(t *testing.T) {
	segs := Highlight("alpha beta", []string{"bet"}, false)

	assert.Equal(t, []Segment{
		{Text: "alpha", Style: StylePlain},
		{Text: "beta", Style: StyleMatched},
	}, segs)
	assert.Equal(t, "alpha beta", Join(segs))
}

func TestHighlight_SelectedRow(t *testing.T) {
	segs := Highlight("Alpha Beta", []string{"ALP"}, true)

	assert.Equal(t, []Segment{
		{Text: "Alpha", Style: StyleMatchedSelected},
		{Text: "Beta", Style: StyleSelected},
	}, segs)
}

func TestHighlight_FirstOccurrencePerToken(t *testing.T) {
	segs := Highlight("web web web", []string{"web"}, false)

	assert.Equal(t, StyleMatched, segs[0].Style)
	assert.Equal(t, StylePlain, segs[1].Style)
	assert.Equal(t, StylePlain, segs[2].Style)
}

func TestHighlight_MultipleTokens(t *testing.T) {
	segs := Highlight("prod nginx edge", []string{"edge", "NGI", "missing"}, false)

	assert.Equal(t, []Style{StylePlain, StyleMatched, StyleMatched},
		[]Style{segs[0].Style, segs[1].Style, segs[2].Style})
}

func TestHighlight_LosslessWithRepeatedSpaces(t *testing.T) {
	for _, text := range []string{"", "one", "a  b", " lead", "trail ", "x, y, z"} {
		assert.Equal(t, text, Join(Highlight(text, []string{"a", "y"}, false)), "text=%q", text)
	}
}

func TestHighlight_NoTokens(t *testing.T) {
	for _, s := range Highlight("a b c", nil, false) {
		assert.Equal(t, StylePlain, s.Style)
	}
}

func TestPad(t *testing.T) {
	segs := Highlight("ab cd", []string{"cd"}, true)
	padded := Pad(segs, 10, true)

	assert.Equal(t, 10, Width(padded))
	last := padded[len(padded)-1]
	assert.Equal(t, StyleSelected, last.Style)
	assert.Equal(t, "ab cd", Join(padded[:len(padded)-1]))
}

func TestPad_NeverTruncates(t *testing.T) {
	segs := Highlight("a-rather-long-host-name", nil, false)

	assert.Equal(t, segs, Pad(segs, 5, false))
	assert.Equal(t, segs, Pad(segs, 0, false))
	assert.Equal(t, segs, Pad(segs, -1, false))
}

func TestPad_OneColumnShort(t *testing.T) {
	segs := Highlight("abcd", nil, false)
	padded := Pad(segs, 5, false)
	assert.Equal(t, 5, Width(padded))
}

func TestHighlight_NonASCIIPrefixKeepsWordOffsets(t *testing.T) {
	// "ſ" upper-cases to the shorter "S" and "ɐ" to the longer "Ɐ".
	for _, text := range []string{"ſſſſ beta", "ɐɐɐɐ beta"} {
		segs := Highlight(text, []string{"bet"}, false)
		assert.Equal(t, StylePlain, segs[0].Style, "text=%q", text)
		assert.Equal(t, StyleMatched, segs[1].Style, "text=%q", text)
	}
}

func TestHighlight_FoldsNonASCIICase(t *testing.T) {
	segs := Highlight("db ɐlpha", []string{"ⱯL"}, false)
	assert.Equal(t, []Style{StylePlain, StyleMatched}, []Style{segs[0].Style, segs[1].Style})
}

func TestIndexFold(t *testing.T) {
	assert.Equal(t, 0, indexFold("Beta", "bet"))
	assert.Equal(t, 9, indexFold("ſſſſ beta", "BETA"))
	assert.Equal(t, -1, indexFold("beta", "betamax"))
	assert.Equal(t, -1, indexFold("", "a"))
}

func TestWidth_CountsWideRunes(t *testing.T) {
	segs := Highlight("ab 漢字", nil, false)
	assert.Equal(t, 7, Width(segs))

	padded := Pad(segs, 10, false)
	assert.Equal(t, 10, Width(padded))
	assert.Equal(t, "  ", padded[len(padded)-1].Text)
}
