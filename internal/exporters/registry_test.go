package exporters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/exporters/terminal"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.Empty(t, r.Formats())
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	assert.Equal(t, []domain.ExportFormat{domain.ExportCorrected, domain.ExportPlainMarked, domain.ExportRichText}, r.Formats())

	e, ok := r.Get(domain.ExportPlainMarked)
	require.True(t, ok)
	assert.Equal(t, ".txt", e.Extension())

	e, ok = r.Get(domain.ExportRichText)
	require.True(t, ok)
	assert.Equal(t, ".docx", e.Extension())

	_, ok = r.Get(domain.ExportTerminal)
	assert.False(t, ok)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(terminal.New(terminal.WithColor(true)))
	r.Register(terminal.New(terminal.WithColor(false)))

	e, ok := r.Get(domain.ExportTerminal)
	require.True(t, ok)

	out, err := e.Export([]domain.AnnotatedRun{{Text: "x", Kind: domain.RunAdded}})
	require.NoError(t, err)
	assert.Equal(t, "[+x+]", string(out))
	assert.Len(t, r.Formats(), 1)
}
