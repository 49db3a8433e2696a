package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestVariant(t *testing.T) {
	assert.Equal(t, domain.VariantText, New().Variant())
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		Filename: "insho.txt",
		Content:  []byte("Men maktabga bordim va kitop oqidim."),
	}

	result, err := normaliser.Normalise(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.Equal(t, "Men maktabga bordim va kitop oqidim.", doc.RawText)
	assert.Equal(t, domain.SourceFormatPlain, doc.SourceFormat)
	assert.Equal(t, domain.InputTXT, doc.Input)
	assert.Equal(t, "insho.txt", doc.DisplayName)
}

func TestNormalise_StripsBOM(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "bom.txt",
		Content:  append([]byte{0xEF, 0xBB, 0xBF}, []byte("o‘zbek")...),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "o‘zbek", result.Document.RawText)
}

func TestNormalise_PreservesWhitespace(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "ws.txt",
		Content:  []byte("  bir\r\n\r\nikki\n\n"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "  bir\r\n\r\nikki\n\n", result.Document.RawText)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "latin1.txt",
		Content:  []byte{'k', 'i', 't', 0xFF, 'b'},
	}

	result, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_NilDocument(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	result, err := normaliser.Normalise(ctx, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormaliser_ImplementsInterface(t *testing.T) {
	var _ driven.Normaliser = New()
}
