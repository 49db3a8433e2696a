// Package review provides the correction review view for the TUI.
package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/matn/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/matn/internal/core/domain"
)

// View shows the annotated runs of a result followed by its corrections.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model
	result   *domain.AnalysisResult
	width    int
	height   int
}

// NewView creates a new review view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		styles:   s,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   20,
	}
	v.viewport.SetContent(v.renderContent())
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetResult replaces the displayed result and scrolls to the top.
func (v *View) SetResult(result *domain.AnalysisResult) {
	v.result = result
	v.viewport.SetContent(v.renderContent())
	v.viewport.GotoTop()
}

// Result returns the displayed result.
func (v *View) Result() *domain.AnalysisResult {
	return v.result
}

// Update forwards scrolling keys to the viewport.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the review.
func (v *View) View() string {
	title := v.styles.Title.Render("Tuzatishlar")
	return lipgloss.JoinVertical(lipgloss.Left, title, v.viewport.View())
}

// SetDimensions sets the view size, title line included.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	h := height - lipgloss.Height(v.styles.Title.Render("x"))
	if h < 1 {
		h = 1
	}
	v.viewport.Width = width
	v.viewport.Height = h
	v.viewport.SetContent(v.renderContent())
}

// ScrollPercent reports how far the review is scrolled.
func (v *View) ScrollPercent() float64 {
	return v.viewport.ScrollPercent()
}

func (v *View) renderContent() string {
	if v.result == nil {
		return v.styles.Muted.Render("Natija yo'q.")
	}

	wrap := lipgloss.NewStyle().Width(v.width)

	var b strings.Builder
	b.WriteString(wrap.Render(RenderRuns(v.styles, v.result.Runs)))
	b.WriteString("\n\n")

	if len(v.result.Corrections) == 0 {
		b.WriteString(v.styles.Success.Render("Xato topilmadi."))
		return b.String()
	}

	for i, c := range v.result.Corrections {
		line := fmt.Sprintf("%d. %s %s %s  %s",
			i+1,
			v.styles.Removed.Render(c.Wrong),
			v.styles.Muted.Render("→"),
			v.styles.Added.Render(c.Correct),
			v.styles.Muted.Render(string(c.Kind)),
		)
		b.WriteString(wrap.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRuns styles removed and added runs inline.
func RenderRuns(s *styles.Styles, runs []domain.AnnotatedRun) string {
	var b strings.Builder
	for _, r := range runs {
		switch r.Kind {
		case domain.RunRemoved:
			b.WriteString(s.Removed.Render(r.Text))
		case domain.RunAdded:
			b.WriteString(s.Added.Render(r.Text))
		case domain.RunSame:
			b.WriteString(r.Text)
		}
	}
	return b.String()
}
