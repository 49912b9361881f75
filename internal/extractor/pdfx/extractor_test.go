package pdfx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
}

func TestExtract_EmptyInput(t *testing.T) {
	extractor := New()
	_, err := extractor.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrMalformedPDF)
}

func TestExtract_NotAPDF(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "plain text", raw: []byte("just some text, no pdf here")},
		{name: "truncated header", raw: []byte("%PDF-1.7")},
		{name: "binary garbage", raw: []byte{0x00, 0xFF, 0x13, 0x37, 0x00, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := extractor.Extract(ctx, tt.raw)
			assert.ErrorIs(t, err, domain.ErrMalformedPDF)
			assert.Empty(t, text)
		})
	}
}
