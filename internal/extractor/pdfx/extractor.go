// Package pdfx extracts the text layer from PDF uploads.
//
// It uses ledongthuc/pdf (pure Go, no CGO). Scanned or image-only PDFs have
// no text layer and legitimately extract to nothing; that is a valid
// zero-chunk outcome for the ingestion pipeline, not an error.
package pdfx

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
	"github.com/ledgerworks/analyst-api/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor implements driven.Extractor for PDF documents.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the page texts joined in page order with a newline.
// A page whose text cannot be recovered contributes an empty string; only
// bytes that fail to parse as a PDF at all fail the whole operation.
func (e *Extractor) Extract(_ context.Context, raw []byte) (text string, err error) {
	if len(raw) == 0 {
		return "", domain.ErrMalformedPDF
	}

	// The parser panics on some malformed files instead of returning an
	// error; both cases are the same unrecoverable ingestion failure.
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("pdf parse panicked: %v", r)
			text = ""
			err = domain.ErrMalformedPDF
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		logger.Debug("pdf parse failed: %v", err)
		return "", domain.ErrMalformedPDF
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		pages = append(pages, pageText(reader.Page(i)))
	}

	return strings.Join(pages, "\n"), nil
}

// pageText recovers the text of a single page, tolerating failures silently.
func pageText(page pdf.Page) (text string) {
	if page.V.IsNull() {
		return ""
	}

	// The underlying parser panics on some damaged content streams; a bad
	// page must not abort the rest of the document.
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("page extraction panicked: %v", r)
			text = ""
		}
	}()

	text, err := page.GetPlainText(nil)
	if err != nil {
		logger.Debug("page extraction failed: %v", err)
		return ""
	}
	return text
}
