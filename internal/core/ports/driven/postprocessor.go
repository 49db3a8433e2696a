package driven

import "github.com/custodia-labs/matn/internal/core/domain"

// Chunker splits document text into bounded chunks.
type Chunker interface {
	// Chunk splits text into ordered chunks. Joining the chunks with their
	// separators reproduces text exactly. Empty text yields no chunks.
	Chunk(text string) []domain.Chunk

	// MaxLength returns the maximum chunk length in runes.
	MaxLength() int
}
