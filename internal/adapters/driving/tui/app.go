package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/matn/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui/views/review"
	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
	"github.com/custodia-labs/matn/internal/logger"
)

// defaultBaseName names exports when no file was loaded.
const defaultBaseName = "togrilangan-matn"

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	editor     *input.Editor
	reviewView *review.View
	statusBar  *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help closes.
	previousView messages.ViewType

	// result is the last successful analysis.
	result *domain.AnalysisResult

	// filename is the loaded file, used to name exports.
	filename string

	// outputDir receives exported files.
	outputDir string

	checking bool
	err      error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingAnalysisService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		editor:      input.NewEditor(s),
		reviewView:  review.NewView(s),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewEditor,
		outputDir:   ".",
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithText preloads the editor.
func (a *App) WithText(text, filename string) *App {
	a.editor.SetValue(text)
	a.filename = filename
	return a
}

// WithOutputDir sets where exports are written.
func (a *App) WithOutputDir(dir string) *App {
	if dir != "" {
		a.outputDir = dir
	}
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("matn"),
		a.editor.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.CheckCompleted:
		a.checking = false
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.result = msg.Result
		a.reviewView.SetResult(msg.Result)
		a.statusBar.SetMessage("")
		a.statusBar.SetCorrectionCount(len(msg.Result.Corrections))
		return a.switchView(messages.ViewReview)

	case messages.ExportCompleted:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.statusBar.SetState(status.StateReview)
		a.statusBar.SetMessage("Saqlandi: " + msg.Path)
		return a, nil

	case messages.ViewChanged:
		return a.switchView(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		if msg.Err != nil {
			a.statusBar.SetMessage(msg.Err.Error())
		}
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewEditor {
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewEditor:
		// Printable keys belong to the text.
		switch {
		case k == "ctrl+s":
			return a, a.check()
		case k == "f1":
			return a.switchView(messages.ViewHelp)
		}
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd

	case messages.ViewReview:
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.Back):
			return a.switchView(messages.ViewEditor)
		case keymap.Matches(k, a.keymap.Accept):
			if a.result != nil {
				a.editor.SetValue(a.result.Corrected)
			}
			return a.switchView(messages.ViewEditor)
		case keymap.Matches(k, a.keymap.ExportText):
			return a, a.export(domain.ExportPlainMarked)
		case keymap.Matches(k, a.keymap.ExportDocx):
			return a, a.export(domain.ExportRichText)
		case keymap.Matches(k, a.keymap.Help):
			return a.switchView(messages.ViewHelp)
		}
		a.reviewView, cmd = a.reviewView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.Back), keymap.Matches(k, a.keymap.Help):
			return a.switchView(a.previousView)
		}
	}
	return a, nil
}

func (a *App) switchView(view messages.ViewType) (tea.Model, tea.Cmd) {
	if view == messages.ViewHelp && a.currentView != messages.ViewHelp {
		a.previousView = a.currentView
	}
	if view == messages.ViewReview && a.result == nil {
		view = messages.ViewEditor
	}
	a.currentView = view

	switch view {
	case messages.ViewEditor:
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
		return a, a.editor.Focus()
	case messages.ViewReview:
		a.editor.Blur()
		a.statusBar.SetState(status.StateReview)
	case messages.ViewHelp:
		a.editor.Blur()
		a.statusBar.SetState(status.StateHelp)
	}
	return a, nil
}

// check returns a command that analyses the editor text.
func (a *App) check() tea.Cmd {
	if a.checking {
		return nil
	}
	text := a.editor.Value()
	if strings.TrimSpace(text) == "" {
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(domain.ErrEmptyInput.Error())
		return nil
	}

	a.checking = true
	a.statusBar.SetState(status.StateChecking)
	a.statusBar.SetMessage("")

	ctx := a.ctx
	analysis := a.ports.Analysis
	return func() tea.Msg {
		result, err := analysis.AnalyseText(ctx, text)
		return messages.CheckCompleted{Result: result, Err: err}
	}
}

// export returns a command that writes the reviewed runs to outputDir.
func (a *App) export(format domain.ExportFormat) tea.Cmd {
	if a.result == nil {
		return nil
	}

	runs := a.result.Runs
	exporter := a.ports.Export
	path := filepath.Join(a.outputDir, a.baseName())
	return func() tea.Msg {
		return writeExport(exporter, runs, format, path)
	}
}

func writeExport(
	exporter driving.ExportService,
	runs []domain.AnnotatedRun,
	format domain.ExportFormat,
	base string,
) messages.ExportCompleted {
	file, err := exporter.Export(runs, format)
	if err != nil {
		return messages.ExportCompleted{Err: err}
	}

	path := base + file.Extension
	if err := os.WriteFile(path, file.Content, 0o600); err != nil {
		return messages.ExportCompleted{Err: fmt.Errorf("writing %s: %w", path, err)}
	}
	logger.Debug("exported %s", path)
	return messages.ExportCompleted{Path: path}
}

func (a *App) baseName() string {
	if a.filename == "" {
		return defaultBaseName
	}
	name := filepath.Base(a.filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return name + "-togrilangan"
}

// View implements tea.Model.
// It renders the current state as a string.
func (a *App) View() string {
	if !a.ready {
		return "Yuklanmoqda..."
	}

	var body string
	switch a.currentView {
	case messages.ViewReview:
		body = a.reviewView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.editor.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("matn"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, a.styles.Muted.Render(h.Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("f1 opens this view from the editor; esc returns."))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Result returns the last analysis result.
func (a *App) Result() *domain.AnalysisResult {
	return a.result
}

// Text returns the editor text.
func (a *App) Text() string {
	return a.editor.Value()
}

// Checking reports whether an analysis is in flight.
func (a *App) Checking() bool {
	return a.checking
}

// StatusState returns the status bar state.
func (a *App) StatusState() status.State {
	return a.statusBar.State()
}

// StatusMessage returns the status bar message.
func (a *App) StatusMessage() string {
	return a.statusBar.Message()
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	bodyHeight := height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	a.editor.SetSize(width, bodyHeight)
	a.reviewView.SetDimensions(width, bodyHeight)
	a.statusBar.SetWidth(width)
}
