// Package reconciler merges oracle output back onto the original text.
package reconciler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/matn/internal/core/domain"
)

// Reconcile produces the corrected text for one chunk.
// A full-text outcome is adopted unchanged; records are applied in order.
func Reconcile(original string, outcome domain.OracleOutcome) string {
	if outcome.Kind() == domain.OutcomeFullText {
		return outcome.Text()
	}
	return Apply(original, outcome.CorrectionRecords())
}

// Apply applies each record to the working copy in list order.
// Records whose wrong text does not occur are ignored.
func Apply(text string, records []domain.CorrectionRecord) string {
	out, _ := Applied(text, records)
	return out
}

// Applied is Apply that also reports the records which changed the text.
func Applied(text string, records []domain.CorrectionRecord) (string, []domain.CorrectionRecord) {
	var applied []domain.CorrectionRecord
	for _, r := range records {
		if r.IsNoop() {
			continue
		}
		var n int
		text, n = Replace(text, r.Wrong, r.Correct)
		if n > 0 {
			applied = append(applied, r)
		}
	}
	return text, applied
}

// Replace substitutes every occurrence of wrong in a single left-to-right
// pass and returns the new text and the number of replacements.
//
// A single-token wrong (letters, apostrophes and hyphens only) is replaced
// only where it is not adjacent to another letter, so "yer" never matches
// inside "yerda". Any other pattern is replaced as a literal substring.
func Replace(text, wrong, correct string) (string, int) {
	if wrong == "" || wrong == correct {
		return text, 0
	}
	if !IsSingleToken(wrong) {
		n := strings.Count(text, wrong)
		if n == 0 {
			return text, 0
		}
		return strings.ReplaceAll(text, wrong, correct), n
	}
	return replaceToken(text, wrong, correct)
}

func replaceToken(text, wrong, correct string) (string, int) {
	var b strings.Builder
	n := 0
	pos := 0

	for pos < len(text) {
		idx := strings.Index(text[pos:], wrong)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(wrong)

		if bounded(text, start, end) {
			b.WriteString(text[pos:start])
			b.WriteString(correct)
			pos = end
			n++
			continue
		}

		// Step past the first rune of the rejected match.
		_, size := utf8.DecodeRuneInString(text[start:])
		b.WriteString(text[pos : start+size])
		pos = start + size
	}

	if n == 0 {
		return text, 0
	}
	b.WriteString(text[pos:])
	return b.String(), n
}

// bounded reports whether text[start:end] has no letter on either side.
func bounded(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// IsSingleToken reports whether s is one run of letters, apostrophes and
// hyphens with no whitespace or other punctuation.
func IsSingleToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) && !isApostrophe(r) && !isHyphen(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r)
}

func isApostrophe(r rune) bool {
	switch r {
	case '\'', '’', '‘', 'ʻ', 'ʼ', '`':
		return true
	default:
		return false
	}
}

func isHyphen(r rune) bool {
	return r == '-' || r == '‐'
}
