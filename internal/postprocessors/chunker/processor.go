// Package chunker provides a paragraph-aware text chunking processor.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultMaxLength is the default maximum number of characters per chunk.
const DefaultMaxLength = domain.DefaultChunkLength

// paragraphBreak matches a newline followed by one or more whitespace-only lines.
var paragraphBreak = regexp.MustCompile(`\r?\n(?:[ \t]*\r?\n)+`)

// Processor splits document text into chunks no longer than a maximum
// length, keeping paragraphs together where they fit.
type Processor struct {
	maxLength int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxLength sets the maximum chunk length in characters.
func WithMaxLength(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxLength = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxLength: DefaultMaxLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxLength returns the maximum chunk length in characters.
func (p *Processor) MaxLength() int {
	return p.maxLength
}

// paragraph is a unit of text and the break that followed it.
type paragraph struct {
	text string
	sep  string
}

// Chunk splits text into ordered chunks.
//
// Paragraphs are packed greedily: the break between two paragraphs that
// share a chunk stays inside the chunk text, the break after the last one
// is recorded as the chunk separator. A paragraph longer than the maximum
// is cut into fixed-length slices. Empty text produces no chunks.
func (p *Processor) Chunk(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	var (
		chunks     []domain.Chunk
		buf        strings.Builder
		bufLen     int
		hasBuf     bool
		pendingSep string
	)

	emit := func(chunkText, sep string) {
		chunks = append(chunks, domain.Chunk{
			Index:     len(chunks),
			Text:      chunkText,
			Separator: sep,
		})
	}

	flush := func() {
		emit(buf.String(), pendingSep)
		buf.Reset()
		bufLen = 0
		hasBuf = false
		pendingSep = ""
	}

	for _, para := range splitParagraphs(text) {
		paraLen := utf8.RuneCountInString(para.text)

		if paraLen > p.maxLength {
			if hasBuf {
				flush()
			}
			slices := sliceRunes(para.text, p.maxLength)
			for i, s := range slices {
				sep := ""
				if i == len(slices)-1 {
					sep = para.sep
				}
				emit(s, sep)
			}
			continue
		}

		sepLen := utf8.RuneCountInString(pendingSep)
		if hasBuf && bufLen+sepLen+paraLen > p.maxLength {
			flush()
			sepLen = 0
		}
		if hasBuf {
			buf.WriteString(pendingSep)
			bufLen += sepLen
		}
		buf.WriteString(para.text)
		bufLen += paraLen
		hasBuf = true
		pendingSep = para.sep
	}

	if hasBuf {
		flush()
	}

	return chunks
}

// splitParagraphs cuts text on blank-line boundaries.
// Leading blank lines stay with the first paragraph.
func splitParagraphs(text string) []paragraph {
	var paras []paragraph
	start := 0

	for _, loc := range paragraphBreak.FindAllStringIndex(text, -1) {
		if loc[0] == 0 {
			continue
		}
		paras = append(paras, paragraph{text: text[start:loc[0]], sep: text[loc[0]:loc[1]]})
		start = loc[1]
	}

	if start < len(text) || len(paras) == 0 {
		paras = append(paras, paragraph{text: text[start:]})
	}

	return paras
}

// sliceRunes cuts s into pieces of at most n runes without splitting
// a multi-byte character.
func sliceRunes(s string, n int) []string {
	var out []string
	count := 0
	start := 0

	for i := range s {
		if count == n {
			out = append(out, s[start:i])
			start = i
			count = 0
		}
		count++
	}

	return append(out, s[start:])
}
