package driven

import "context"

// Extractor turns raw PDF bytes into a single ordered text string, page by
// page. A page yielding no text contributes an empty string rather than
// failing the document; bytes that cannot be parsed as a PDF at all fail
// with domain.ErrMalformedPDF.
type Extractor interface {
	// Extract returns the page texts joined in page order with a newline.
	Extract(ctx context.Context, raw []byte) (string, error)
}
