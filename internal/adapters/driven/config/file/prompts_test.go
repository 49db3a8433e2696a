package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".matn", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptCorrectRewrite)
	require.NoError(t, err)

	for _, f := range []string{"correct_rewrite.txt", "correct_structured.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	rewrite, err := store.Load(driven.PromptCorrectRewrite)
	require.NoError(t, err)
	assert.Contains(t, rewrite, "imlo va grammatik xatolarni")

	structured, err := store.Load(driven.PromptCorrectStructured)
	require.NoError(t, err)
	assert.Contains(t, structured, `{"corrections":[`)
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "correct_rewrite.txt"), []byte("Fix the text."), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptCorrectRewrite)

	require.NoError(t, err)
	assert.Equal(t, "Fix the text.", prompt)
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, _ = store.Load(driven.PromptCorrectRewrite)
	require.NoError(t, os.Remove(filepath.Join(dir, "correct_rewrite.txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptCorrectRewrite)

	require.NoError(t, err)
	want, _ := DefaultPrompt(driven.PromptCorrectRewrite)
	assert.Equal(t, want, prompt)
}

func TestPromptStore_Load_EmptyFileFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "correct_structured.txt"), []byte("  \n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptCorrectStructured)

	require.NoError(t, err)
	want, _ := DefaultPrompt(driven.PromptCorrectStructured)
	assert.Equal(t, want, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nonexistent_prompt")

	assert.Error(t, err)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptCorrectRewrite)
	require.NoError(t, err)

	path := filepath.Join(dir, "correct_rewrite.txt")
	require.NoError(t, os.WriteFile(path, []byte("changed"), 0600))

	cached, err := store.Load(driven.PromptCorrectRewrite)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptCorrectRewrite)
	require.NoError(t, err)
	assert.Equal(t, "changed", fresh)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				store.Reload()
			}
			p, err := store.Load(driven.PromptCorrectStructured)
			assert.NoError(t, err)
			assert.NotEmpty(t, p)
		}(i)
	}
	wg.Wait()
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "correct_structured.txt")
	require.NoError(t, os.WriteFile(path, []byte("mine"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, _ = store.Load(driven.PromptCorrectRewrite)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestPromptStore_Watch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx))

	_, err = store.Load(driven.PromptCorrectRewrite)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "correct_rewrite.txt"), []byte("watched"), 0600))

	assert.Eventually(t, func() bool {
		p, err := store.Load(driven.PromptCorrectRewrite)
		return err == nil && p == "watched"
	}, 5*time.Second, 20*time.Millisecond)
}
