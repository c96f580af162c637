// Package highlight marks question terms inside answer text.
package highlight

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Emphasis markers inserted around matched terms.
const (
	Open  = "<mark>"
	Close = "</mark>"
)

// minTermLen is the shortest term that gets highlighted; shorter tokens are noise words.
const minTermLen = 3

// Terms returns the question tokens that take part in highlighting, in question order.
func Terms(question string) []string {
	var terms []string
	for _, tok := range strings.Fields(question) {
		tok = strings.TrimFunc(tok, unicode.IsPunct)
		if utf8.RuneCountInString(tok) < minTermLen {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

// Highlight wraps every case-insensitive occurrence of each question term in
// answer with emphasis markers.
//
// Terms are applied one after another to the already-marked text, so a term
// that is a substring of an earlier one, or of the markers, is wrapped again.
func Highlight(answer, question string) string {
	out := answer
	for _, term := range Terms(question) {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
		out = re.ReplaceAllStringFunc(out, func(m string) string {
			return Open + m + Close
		})
	}
	return out
}

var markers = strings.NewReplacer(Open, "", Close, "")

// Strip removes the emphasis markers inserted by Highlight. A term found
// inside a marker was wrapped again, so removal repeats until the text is
// stable.
func Strip(text string) string {
	for {
		out := markers.Replace(text)
		if out == text {
			return out
		}
		text = out
	}
}

// Wrap marks every case-insensitive occurrence of the question terms in a
// single pass, preferring the longest term at each position. Unlike
// Highlight it never wraps text twice, which suits renderers whose markers
// are not Open and Close.
func Wrap(answer, question, open, close string) string {
	terms := Terms(question)
	if len(terms) == 0 {
		return answer
	}
	slices.SortStableFunc(terms, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = regexp.QuoteMeta(term)
	}
	re := regexp.MustCompile("(?i)(?:" + strings.Join(quoted, "|") + ")")
	return re.ReplaceAllStringFunc(answer, func(m string) string {
		return open + m + close
	})
}
