// Package plainmarked renders annotated runs as plain text with inline
// change markers: removed text as ~~text~~ and added text as [+text+].
package plainmarked

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Marker pairs.
const (
	RemovedOpen  = "~~"
	RemovedClose = "~~"
	AddedOpen    = "[+"
	AddedClose   = "+]"
)

// Exporter produces marked-up plain text.
type Exporter struct{}

// New creates a new plain marked exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns the export format.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportPlainMarked
}

// Extension returns the file extension.
func (e *Exporter) Extension() string {
	return ".txt"
}

// ContentType returns the MIME type.
func (e *Exporter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Export renders the runs with change markers.
func (e *Exporter) Export(runs []domain.AnnotatedRun) ([]byte, error) {
	s, err := Render(runs)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Render returns the marked-up text for runs.
func Render(runs []domain.AnnotatedRun) (string, error) {
	if len(runs) == 0 {
		return "", domain.ErrEmptyExport
	}

	var b strings.Builder
	for _, r := range runs {
		switch r.Kind {
		case domain.RunSame:
			b.WriteString(r.Text)
		case domain.RunRemoved:
			b.WriteString(RemovedOpen)
			b.WriteString(r.Text)
			b.WriteString(RemovedClose)
		case domain.RunAdded:
			b.WriteString(AddedOpen)
			b.WriteString(r.Text)
			b.WriteString(AddedClose)
		default:
			return "", fmt.Errorf("%w: unknown run kind %q", domain.ErrInvalidInput, r.Kind)
		}
	}
	return b.String(), nil
}

// Strip removes the marker syntax, dropping removed spans and unwrapping
// added spans. For text rendered from runs whose own text contains no
// markers, the result is the corrected text.
func Strip(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		switch {
		case strings.HasPrefix(s, RemovedOpen):
			end := strings.Index(s[len(RemovedOpen):], RemovedClose)
			if end < 0 {
				b.WriteString(s)
				return b.String()
			}
			s = s[len(RemovedOpen)+end+len(RemovedClose):]
		case strings.HasPrefix(s, AddedOpen):
			end := strings.Index(s[len(AddedOpen):], AddedClose)
			if end < 0 {
				b.WriteString(s)
				return b.String()
			}
			b.WriteString(s[len(AddedOpen) : len(AddedOpen)+end])
			s = s[len(AddedOpen)+end+len(AddedClose):]
		default:
			next := nextMarker(s[1:]) + 1
			b.WriteString(s[:next])
			s = s[next:]
		}
	}
	return b.String()
}

// nextMarker returns the index of the next opening marker in s, or len(s).
func nextMarker(s string) int {
	i := strings.Index(s, RemovedOpen)
	if j := strings.Index(s, AddedOpen); j >= 0 && (i < 0 || j < i) {
		i = j
	}
	if i < 0 {
		return len(s)
	}
	return i
}
