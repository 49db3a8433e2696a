package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/adapters/driving/tui"
	"github.com/custodia-labs/matn/internal/core/domain"
)

// captureTUI replaces the program runner and returns the app it was given.
func captureTUI(t *testing.T) **tui.App {
	t.Helper()
	var captured *tui.App
	old := runTUIApp
	runTUIApp = func(app *tui.App) error {
		captured = app
		return nil
	}
	t.Cleanup(func() {
		runTUIApp = old
		tuiOutDir = "."
	})
	return &captured
}

func executeTUI(args ...string) error {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"tui"}, args...))
	return rootCmd.Execute()
}

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui [file]", tuiCmd.Use)
	assert.NotNil(t, tuiCmd.Flags().Lookup("out-dir"))
}

func TestTUICmd_StartsEmptyEditor(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	captured := captureTUI(t)

	err := executeTUI()

	require.NoError(t, err)
	require.NotNil(t, *captured)
	assert.Equal(t, "", (*captured).Text())
}

func TestTUICmd_LoadsTextFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	captured := captureTUI(t)

	path := filepath.Join(t.TempDir(), "insho.txt")
	require.NoError(t, os.WriteFile(path, []byte("kitop oqidim"), 0o600))

	err := executeTUI(path)

	require.NoError(t, err)
	require.NotNil(t, *captured)
	assert.Contains(t, (*captured).Text(), "kitop oqidim")
}

func TestTUICmd_UnsupportedFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	captured := captureTUI(t)

	err := executeTUI("rasm.png")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Nil(t, *captured)
}

func TestTUICmd_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	captureTUI(t)

	err := executeTUI(filepath.Join(t.TempDir(), "yoq.txt"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
