package candidate

import (
	"context"

	"github.com/hireloop/resumerank/internal/domain"
)

// Repository defines the storage contract for candidate documents.
type Repository interface {
	Insert(ctx context.Context, doc *domain.CandidateDocument) error
	Get(ctx context.Context, owner, id string) (domain.CandidateDocument, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.CandidateDocument, error)
	Delete(ctx context.Context, owner, id string) error
	Count(ctx context.Context, owner string) (int, error)
}

// Extractor converts uploaded bytes into plain text by media type.
type Extractor interface {
	Supported(mediaType string) bool
	Extract(data []byte, mediaType string) (string, error)
}
