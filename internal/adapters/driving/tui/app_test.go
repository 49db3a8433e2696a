package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/matn/internal/core/domain"
)

func newTestPorts() (*Ports, *MockAnalysisService, *MockExportService) {
	analysis := &MockAnalysisService{Result: sampleResult()}
	export := &MockExportService{}
	return NewPorts(analysis, export), analysis, export
}

func newTestApp(t *testing.T) (*App, *MockAnalysisService, *MockExportService) {
	t.Helper()
	ports, analysis, export := newTestPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(80, 24)
	return app, analysis, export
}

func ctrlS() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyCtrlS}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// checkAndReview runs a check and feeds the completion back into the app.
func checkAndReview(t *testing.T, app *App) {
	t.Helper()
	_, cmd := app.Update(ctrlS())
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, messages.ViewReview, app.CurrentView())
}

func TestNewApp_Success(t *testing.T) {
	ports, _, _ := newTestPorts()

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Export: &MockExportService{}})

	assert.ErrorIs(t, err, ErrMissingAnalysisService)
	assert.Nil(t, app)
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.ErrorIs(t, err, ErrMissingAnalysisService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, analysis, _ := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	assert.Same(t, app, app.WithContext(ctx))

	app.WithText("kitop oqidim", "")
	_, cmd := app.Update(ctrlS())
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "kitop oqidim", analysis.LastText)
}

func TestApp_Init(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	ports, _, _ := newTestPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	assert.Equal(t, "Yuklanmoqda...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.True(t, app.Ready())
	assert.NotEmpty(t, app.View())
}

func TestApp_CheckShowsReview(t *testing.T) {
	app, analysis, _ := newTestApp(t)
	app.WithText("kitop oqidim", "")

	_, cmd := app.Update(ctrlS())

	require.NotNil(t, cmd)
	assert.True(t, app.Checking())
	assert.Equal(t, status.StateChecking, app.StatusState())

	msg := cmd()
	completed, ok := msg.(messages.CheckCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)

	app.Update(completed)

	assert.Equal(t, "kitop oqidim", analysis.LastText)
	assert.False(t, app.Checking())
	assert.Equal(t, messages.ViewReview, app.CurrentView())
	assert.Equal(t, status.StateReview, app.StatusState())
	assert.Equal(t, "kitob oqidim", app.Result().Corrected)
	assert.Contains(t, app.View(), "kitob")
}

func TestApp_CheckWhileChecking(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.WithText("kitop", "")

	_, first := app.Update(ctrlS())
	_, second := app.Update(ctrlS())

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestApp_CheckEmptyText(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, cmd := app.Update(ctrlS())

	assert.Nil(t, cmd)
	assert.False(t, app.Checking())
	assert.Equal(t, status.StateError, app.StatusState())
}

func TestApp_CheckFailure(t *testing.T) {
	app, analysis, _ := newTestApp(t)
	analysis.Result = nil
	analysis.Err = domain.ErrOracle
	app.WithText("kitop", "")

	_, cmd := app.Update(ctrlS())
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrOracle)
	assert.Equal(t, status.StateError, app.StatusState())
	assert.Nil(t, app.Result())
}

func TestApp_EditorTypingDoesNotQuit(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.WithText("salom", "")

	app.Update(runeKey('q'))

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.True(t, strings.HasSuffix(app.Text(), "q"))
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ReviewQuit(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.WithText("kitop oqidim", "")
	checkAndReview(t, app)

	_, cmd := app.Update(runeKey('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ReviewBack(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.WithText("kitop oqidim", "")
	checkAndReview(t, app)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Equal(t, "kitop oqidim", app.Text())
	assert.Equal(t, status.StateReady, app.StatusState())
}

func TestApp_ReviewAccept(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.WithText("kitop oqidim", "")
	checkAndReview(t, app)

	app.Update(runeKey('a'))

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Equal(t, "kitob oqidim", app.Text())
}

func TestApp_ExportPlainText(t *testing.T) {
	app, _, export := newTestApp(t)
	dir := t.TempDir()
	app.WithOutputDir(dir).WithText("kitop oqidim", "")
	checkAndReview(t, app)

	_, cmd := app.Update(runeKey('t'))
	require.NotNil(t, cmd)
	msg := cmd()
	app.Update(msg)

	completed, ok := msg.(messages.ExportCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Equal(t, domain.ExportPlainMarked, export.LastFormat)
	assert.Equal(t, filepath.Join(dir, "togrilangan-matn.txt"), completed.Path)

	data, err := os.ReadFile(completed.Path)
	require.NoError(t, err)
	assert.Equal(t, "kitob oqidim", string(data))
	assert.Contains(t, app.StatusMessage(), completed.Path)
}

func TestApp_ExportDocxUsesFilename(t *testing.T) {
	app, _, export := newTestApp(t)
	dir := t.TempDir()
	app.WithOutputDir(dir).WithText("kitop oqidim", "/tmp/insho.txt")
	checkAndReview(t, app)

	_, cmd := app.Update(runeKey('d'))
	require.NotNil(t, cmd)
	completed, ok := cmd().(messages.ExportCompleted)

	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Equal(t, domain.ExportRichText, export.LastFormat)
	assert.Equal(t, filepath.Join(dir, "insho-togrilangan.docx"), completed.Path)
}

func TestApp_ExportFailure(t *testing.T) {
	app, _, export := newTestApp(t)
	export.Err = domain.ErrEmptyExport
	app.WithOutputDir(t.TempDir()).WithText("kitop oqidim", "")
	checkAndReview(t, app)

	_, cmd := app.Update(runeKey('t'))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrEmptyExport)
	assert.Equal(t, status.StateError, app.StatusState())
}

func TestApp_ExportWithoutResult(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.Nil(t, app.export(domain.ExportPlainMarked))
}

func TestApp_HelpView(t *testing.T) {
	app, _, _ := newTestApp(t)

	app.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "ctrl+s")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
}

func TestApp_HelpFromReviewReturnsToReview(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.WithText("kitop oqidim", "")
	checkAndReview(t, app)

	app.Update(runeKey('?'))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(runeKey('?'))
	assert.Equal(t, messages.ViewReview, app.CurrentView())
}

func TestApp_ViewChangedToReviewWithoutResult(t *testing.T) {
	app, _, _ := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewReview})

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _, _ := newTestApp(t)
	testErr := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: testErr})

	assert.Equal(t, testErr, app.Err())
	assert.Equal(t, "boom", app.StatusMessage())
}

func TestApp_QuitMessage(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_BaseName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"", "togrilangan-matn"},
		{"insho.docx", "insho-togrilangan"},
		{"/home/user/hujjat.txt", "hujjat-togrilangan"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			app, _, _ := newTestApp(t)
			app.filename = tt.filename
			assert.Equal(t, tt.want, app.baseName())
		})
	}
}
