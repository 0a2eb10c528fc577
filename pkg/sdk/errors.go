package resumerank

import "github.com/hireloop/resumerank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrForbidden              = domain.ErrForbidden
	ErrInvalidID              = domain.ErrInvalidID
	ErrUnsupportedMediaType   = domain.ErrUnsupportedMediaType
	ErrEmptyDocument          = domain.ErrEmptyDocument
	ErrDocumentTooLarge       = domain.ErrDocumentTooLarge
	ErrTooManyDocuments       = domain.ErrTooManyDocuments
	ErrExtractionFailed       = domain.ErrExtractionFailed
	ErrAllDocumentsRejected   = domain.ErrAllDocumentsRejected
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
