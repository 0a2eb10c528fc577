package analysis

import (
	"context"

	"github.com/hireloop/resumerank/internal/domain"
)

// CandidateReader resolves candidate documents for ranking.
type CandidateReader interface {
	Get(ctx context.Context, owner, id string) (domain.CandidateDocument, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.CandidateDocument, error)
}

// JobRepository persists job specifications and resolves titles for history.
type JobRepository interface {
	Insert(ctx context.Context, job *domain.JobSpecification) error
	GetTitle(ctx context.Context, owner, id string) (string, error)
}

// SnapshotRepository persists completed analysis snapshots.
type SnapshotRepository interface {
	Insert(ctx context.Context, snap *domain.AnalysisSnapshot) error
	ListByOwner(ctx context.Context, owner string) ([]domain.AnalysisSnapshot, error)
	Count(ctx context.Context, owner string) (int, error)
}

// Embedder vectorizes a single text (job side).
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// BatchEmbedder vectorizes candidate texts in bulk.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
