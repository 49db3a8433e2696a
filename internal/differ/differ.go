// Package differ aligns an original and a corrected text into annotated runs.
//
// Both texts are split into word, whitespace and punctuation tokens. Each
// distinct token is mapped to a single rune so that the Myers diff in
// sergi/go-diff aligns whole tokens instead of characters.
package differ

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/custodia-labs/matn/internal/core/domain"
)

// Engine computes token-level diffs.
type Engine struct {
	dmp       *diffmatchpatch.DiffMatchPatch
	maxTokens int
}

// NewEngine creates a diff engine.
func NewEngine() *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // minimal edit script, no time cut-off
	return &Engine{dmp: dmp, maxTokens: maxDistinctTokens}
}

// DefaultEngine is a shared engine for general use.
var DefaultEngine = NewEngine()

// Diff is a convenience function using the default engine.
func Diff(original, corrected string) []domain.AnnotatedRun {
	return DefaultEngine.Diff(original, corrected)
}

// Diff returns the runs that turn original into corrected.
// Within one change the removed run precedes the added run, and adjacent
// runs of the same kind are merged.
func (e *Engine) Diff(original, corrected string) []domain.AnnotatedRun {
	if original == corrected {
		if original == "" {
			return nil
		}
		return []domain.AnnotatedRun{{Text: original, Kind: domain.RunSame}}
	}

	in := newInterner(e.maxTokens)
	a, okA := in.encode(Tokenize(original))
	b, okB := in.encode(Tokenize(corrected))
	if !okA || !okB {
		return replaceAll(original, corrected)
	}

	diffs := e.dmp.DiffMainRunes(a, b, false)

	var (
		runs    []domain.AnnotatedRun
		removed strings.Builder
		added   strings.Builder
	)

	flushChange := func() {
		if removed.Len() > 0 {
			runs = appendRun(runs, removed.String(), domain.RunRemoved)
			removed.Reset()
		}
		if added.Len() > 0 {
			runs = appendRun(runs, added.String(), domain.RunAdded)
			added.Reset()
		}
	}

	for _, d := range diffs {
		text := in.decode(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed.WriteString(text)
		case diffmatchpatch.DiffInsert:
			added.WriteString(text)
		case diffmatchpatch.DiffEqual:
			flushChange()
			runs = appendRun(runs, text, domain.RunSame)
		}
	}
	flushChange()

	return runs
}

func appendRun(runs []domain.AnnotatedRun, text string, kind domain.RunKind) []domain.AnnotatedRun {
	if text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].Kind == kind {
		runs[n-1].Text += text
		return runs
	}
	return append(runs, domain.AnnotatedRun{Text: text, Kind: kind})
}

// Tokenize splits s into word, whitespace and punctuation tokens.
// Concatenating the tokens reproduces s exactly.
//
// A word is a run of letters, digits and combining marks; an apostrophe or
// hyphen between two word characters stays inside the word. Whitespace runs
// are single tokens. Every other character is a token on its own.
func Tokenize(s string) []string {
	var tokens []string
	i := 0

	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		start := i

		switch {
		case isWordRune(r):
			i += size
			for i < len(s) {
				r, size = utf8.DecodeRuneInString(s[i:])
				if isWordRune(r) {
					i += size
					continue
				}
				if isJoiner(r) && i+size < len(s) {
					next, _ := utf8.DecodeRuneInString(s[i+size:])
					if isWordRune(next) {
						i += size
						continue
					}
				}
				break
			}
		case unicode.IsSpace(r):
			i += size
			for i < len(s) {
				r, size = utf8.DecodeRuneInString(s[i:])
				if !unicode.IsSpace(r) {
					break
				}
				i += size
			}
		default:
			i += size
		}

		tokens = append(tokens, s[start:i])
	}

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.M, r)
}

func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘', 'ʼ', '`', '-', '‐':
		return true
	default:
		return false
	}
}

// interner maps tokens to runes outside the surrogate range so that the
// encoded sequences survive conversion to and from string.
type interner struct {
	ids    map[string]rune
	tokens []string
	limit  int
}

// replaceAll is the whole-text change used when the texts hold more
// distinct tokens than there are runes to encode them.
func replaceAll(original, corrected string) []domain.AnnotatedRun {
	var runs []domain.AnnotatedRun
	if original != "" {
		runs = append(runs, domain.AnnotatedRun{Text: original, Kind: domain.RunRemoved})
	}
	if corrected != "" {
		runs = append(runs, domain.AnnotatedRun{Text: corrected, Kind: domain.RunAdded})
	}
	return runs
}

func newInterner(limit int) *interner {
	return &interner{ids: make(map[string]rune), limit: limit}
}

// encode maps tokens to runes. It reports false once more than limit
// distinct tokens have been seen.
func (in *interner) encode(tokens []string) ([]rune, bool) {
	out := make([]rune, len(tokens))
	for i, tok := range tokens {
		id, ok := in.ids[tok]
		if !ok {
			if len(in.tokens) >= in.limit {
				return nil, false
			}
			id = runeFor(len(in.tokens))
			in.ids[tok] = id
			in.tokens = append(in.tokens, tok)
		}
		out[i] = id
	}
	return out, true
}

func (in *interner) decode(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(in.tokens[indexFor(r)])
	}
	return b.String()
}

const (
	surrogateStart = 0xD800
	surrogateSize  = 0x800

	// maxDistinctTokens is the number of runes above zero that are not surrogates.
	maxDistinctTokens = int(utf8.MaxRune - surrogateSize)
)

func runeFor(i int) rune {
	r := rune(i + 1)
	if r >= surrogateStart {
		r += surrogateSize
	}
	return r
}

func indexFor(r rune) int {
	if r >= surrogateStart+surrogateSize {
		r -= surrogateSize
	}
	return int(r) - 1
}
