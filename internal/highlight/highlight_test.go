package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightEmptyQuestion(t *testing.T) {
	answer := "8-hour TWA of 1 ppm"
	assert.Equal(t, answer, Highlight(answer, ""))
	assert.Equal(t, answer, Highlight(answer, "   "))
}

func TestHighlightDropsShortTokens(t *testing.T) {
	answer := "An exposure is at or above the limit"
	got := Highlight(answer, "is at or an")
	assert.Equal(t, answer, got)
}

func TestHighlightBenzeneScenario(t *testing.T) {
	answer := "The permissible exposure limit for Benzene is an 8-hour TWA of 1 ppm."
	got := Highlight(answer, "What is the permissible exposure limit for benzene?")

	for _, term := range []string{"permissible", "exposure", "limit", "Benzene"} {
		assert.Contains(t, got, Open+term+Close)
	}
	assert.Equal(t, answer, Strip(got))
}

func TestHighlightIsCaseInsensitive(t *testing.T) {
	got := Highlight("Wear GLOVES. Gloves protect.", "gloves")
	assert.Equal(t, "Wear <mark>GLOVES</mark>. <mark>Gloves</mark> protect.", got)
}

func TestHighlightEscapesPatternCharacters(t *testing.T) {
	answer := "Use a (P100) respirator, not a P100x."
	got := Highlight(answer, "(P100)")
	// Surrounding punctuation is trimmed from the token, the rest is literal.
	assert.Equal(t, "Use a (<mark>P100</mark>) respirator, not a <mark>P100</mark>x.", got)

	got = Highlight("a.b.c and abc", "a.b.c")
	assert.Equal(t, "<mark>a.b.c</mark> and abc", got)
}

func TestHighlightWrapsSubstringsAgain(t *testing.T) {
	got := Highlight("limited limit", "limited limit")
	assert.Equal(t, "<mark><mark>limit</mark>ed</mark> <mark>limit</mark>", got)
	assert.Equal(t, "limited limit", Strip(got))
}

func TestHighlightPreservesCharacters(t *testing.T) {
	answers := []string{
		"",
		"Noise exposure above 85 dBA requires hearing protection.",
		"Lockout/tagout applies to servicing and maintenance — ÜBER machines.",
		"$1 and \\1 are not templates",
		"Use the benzene mark on the drum.",
	}
	questions := []string{
		"noise exposure hearing",
		"What does lockout tagout apply to?",
		"über machines servicing",
		"$1 templates \\1",
		"benzene mark",
		"mark /mark",
	}
	for _, a := range answers {
		for _, q := range questions {
			assert.Equal(t, a, Strip(Highlight(a, q)), "answer=%q question=%q", a, q)
		}
	}
}

func TestStripUndoesWrappedMarkers(t *testing.T) {
	answer := "Use the benzene mark on the drum."
	got := Highlight(answer, "benzene mark")
	assert.Equal(t, "Use the <<mark>mark</mark>>benzene</<mark>mark</mark>> <mark>mark</mark> on the drum.", got)
	assert.Equal(t, answer, Strip(got))
}

func TestWrapSinglePass(t *testing.T) {
	got := Wrap("Use the benzene mark on the drum.", "benzene mark", "[", "]")
	assert.Equal(t, "Use the [benzene] [mark] on the drum.", got)

	got = Wrap("limited limit", "limit limited", "[", "]")
	assert.Equal(t, "[limited] [limit]", got)

	assert.Equal(t, "no terms", Wrap("no terms", "a b", "[", "]"))
}

func TestTerms(t *testing.T) {
	terms := Terms("What is the PEL, for benzene?")
	assert.Equal(t, []string{"What", "the", "PEL", "for", "benzene"}, terms)
	assert.Empty(t, Terms(strings.Repeat(" ", 4)))
}
