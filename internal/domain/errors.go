package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals a resource owned by a different principal.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidID signals a malformed identifier.
	ErrInvalidID = errors.New("invalid id")
	// ErrUnsupportedMediaType signals an upload in a format the extractor cannot handle.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrEmptyDocument signals an upload with no content.
	ErrEmptyDocument = errors.New("empty document")
	// ErrDocumentTooLarge signals an upload exceeding the configured size limit.
	ErrDocumentTooLarge = errors.New("document too large")
	// ErrExtractionFailed signals a corrupt document that yielded no usable text.
	ErrExtractionFailed = errors.New("text extraction failed")
	// ErrAllDocumentsRejected signals a batch upload in which no document survived.
	ErrAllDocumentsRejected = errors.New("all documents rejected")
	// ErrTooManyDocuments signals a batch upload exceeding the per-request file limit.
	ErrTooManyDocuments = errors.New("too many documents in batch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals the token budget is spent.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
)

// ExtractionError wraps ErrExtractionFailed with the document format and the
// underlying cause, so batch uploads can report a human-readable reason per file.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExtractionFailed.Error(), e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return ErrExtractionFailed }

// NewExtractionError creates an extraction error for the given format.
func NewExtractionError(format string, cause error) error {
	return &ExtractionError{Format: format, Cause: cause}
}
