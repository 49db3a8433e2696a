// Package terminal renders annotated runs for a terminal.
//
// With colour, removed text is struck through in red and added text is bold
// green. Without colour the plain change markers are used instead.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/exporters/plainmarked"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Theme defines the highlight colours.
type Theme struct {
	// Removed is the colour of removed text.
	Removed lipgloss.Color

	// Added is the colour of added text.
	Added lipgloss.Color
}

// DefaultTheme returns the default highlight colours.
func DefaultTheme() Theme {
	return Theme{
		Removed: lipgloss.Color("#E11D48"), // Rose
		Added:   lipgloss.Color("#047857"), // Emerald
	}
}

// Exporter produces styled terminal output.
type Exporter struct {
	renderer *lipgloss.Renderer
	theme    Theme
	color    bool
}

// Option configures the exporter.
type Option func(*Exporter)

// WithRenderer sets the lipgloss renderer, which decides the colour profile.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(e *Exporter) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithTheme overrides the highlight colours.
func WithTheme(t Theme) Option {
	return func(e *Exporter) {
		e.theme = t
	}
}

// WithColor enables or disables ANSI styling.
func WithColor(enabled bool) Option {
	return func(e *Exporter) {
		e.color = enabled
	}
}

// New creates a terminal exporter. Colour is on by default.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		renderer: lipgloss.DefaultRenderer(),
		theme:    DefaultTheme(),
		color:    true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format returns the export format.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportTerminal
}

// Extension returns the file extension.
func (e *Exporter) Extension() string {
	return ".txt"
}

// ContentType returns the MIME type.
func (e *Exporter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Export renders the runs for display.
func (e *Exporter) Export(runs []domain.AnnotatedRun) ([]byte, error) {
	if !e.color {
		return plainmarked.New().Export(runs)
	}
	if len(runs) == 0 {
		return nil, domain.ErrEmptyExport
	}

	removed := e.renderer.NewStyle().
		Strikethrough(true).
		Foreground(e.theme.Removed).
		TabWidth(lipgloss.NoTabConversion)
	added := e.renderer.NewStyle().
		Bold(true).
		Foreground(e.theme.Added).
		TabWidth(lipgloss.NoTabConversion)

	var b strings.Builder
	for _, r := range runs {
		switch r.Kind {
		case domain.RunSame:
			b.WriteString(r.Text)
		case domain.RunRemoved:
			writeStyled(&b, removed, r.Text)
		case domain.RunAdded:
			writeStyled(&b, added, r.Text)
		default:
			return nil, fmt.Errorf("%w: unknown run kind %q", domain.ErrInvalidInput, r.Kind)
		}
	}
	return []byte(b.String()), nil
}

// writeStyled renders each line separately so lipgloss does not pad
// lines to a common width.
func writeStyled(b *strings.Builder, style lipgloss.Style, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line != "" {
			b.WriteString(style.Render(line))
		}
	}
}
