package plainmarked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/core/domain"
)

func TestCorrectedExporter_Metadata(t *testing.T) {
	e := NewCorrected()
	assert.Equal(t, domain.ExportCorrected, e.Format())
	assert.Equal(t, ".txt", e.Extension())
	assert.Equal(t, "text/plain; charset=utf-8", e.ContentType())
}

func TestCorrectedExporter_DropsRemovedText(t *testing.T) {
	out, err := NewCorrected().Export(scenarioRuns())

	require.NoError(t, err)
	assert.Equal(t, "Men maktabga bordim va kitob o'qidim.", string(out))
	assert.Equal(t, domain.CorrectedText(scenarioRuns()), string(out))
}

func TestCorrectedExporter_MatchesStrippedMarkers(t *testing.T) {
	marked, err := New().Export(scenarioRuns())
	require.NoError(t, err)

	clean, err := NewCorrected().Export(scenarioRuns())
	require.NoError(t, err)

	assert.Equal(t, Strip(string(marked)), string(clean))
}

func TestCorrectedExporter_Errors(t *testing.T) {
	_, err := NewCorrected().Export(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyExport)

	_, err = NewCorrected().Export([]domain.AnnotatedRun{{Text: "x", Kind: "moved"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
