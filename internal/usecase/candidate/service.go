// Package candidate implements the candidate document workflow: batch
// upload with per-item failure absorption, owner-scoped listing, and
// deletion.
package candidate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/domain"
	"github.com/hireloop/resumerank/internal/domain/batch"
	"github.com/hireloop/resumerank/internal/metrics"
)

// Upload is one file submitted in a batch.
type Upload struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Summary is the listing view of a stored document: metadata plus a short
// text preview, never the full extracted text or raw bytes.
type Summary struct {
	ID          string
	Filename    string
	MediaType   string
	Size        int64
	TextPreview string
	UploadedAt  time.Time
}

// Service handles candidate document upload, listing and deletion.
type Service struct {
	repo             Repository
	extractor        Extractor
	maxDocumentBytes int64
	maxBatchFiles    int
	logger           *zap.Logger
}

// New creates a candidate service.
func New(repo Repository, extractor Extractor, maxDocumentBytes int64, maxBatchFiles int, logger *zap.Logger) *Service {
	return &Service{
		repo:             repo,
		extractor:        extractor,
		maxDocumentBytes: maxDocumentBytes,
		maxBatchFiles:    maxBatchFiles,
		logger:           logger,
	}
}

// Store processes a batch of uploads for owner. Each item is validated,
// extracted and persisted independently; a bad file yields a skipped or
// failed result and the rest of the batch proceeds. The error return is
// reserved for whole-batch conditions: an oversized batch, or a batch in
// which not a single document was stored.
func (s *Service) Store(ctx context.Context, owner string, uploads []Upload) ([]batch.Result, error) {
	if len(uploads) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if s.maxBatchFiles > 0 && len(uploads) > s.maxBatchFiles {
		return nil, fmt.Errorf("%d files, limit %d: %w", len(uploads), s.maxBatchFiles, domain.ErrTooManyDocuments)
	}

	results := make([]batch.Result, 0, len(uploads))
	stored := 0

	for _, up := range uploads {
		result := s.storeOne(ctx, owner, up)
		if result.Stored() {
			stored++
		}
		results = append(results, result)
	}

	if stored == 0 {
		return results, domain.ErrAllDocumentsRejected
	}
	return results, nil
}

func (s *Service) storeOne(ctx context.Context, owner string, up Upload) batch.Result {
	if !s.extractor.Supported(up.MediaType) {
		return batch.NewSkipped(up.Filename, fmt.Errorf("%q: %w", up.MediaType, domain.ErrUnsupportedMediaType))
	}
	if len(up.Data) == 0 {
		return batch.NewSkipped(up.Filename, domain.ErrEmptyDocument)
	}
	if s.maxDocumentBytes > 0 && int64(len(up.Data)) > s.maxDocumentBytes {
		return batch.NewSkipped(up.Filename, fmt.Errorf(
			"%d bytes, limit %d: %w", len(up.Data), s.maxDocumentBytes, domain.ErrDocumentTooLarge))
	}

	format := formatLabel(up.MediaType)

	text, err := s.extractor.Extract(up.Data, up.MediaType)
	if err != nil {
		metrics.ExtractionTotal.WithLabelValues(format, "error").Inc()
		s.logger.Warn("Text extraction failed",
			zap.String("filename", up.Filename),
			zap.String("media_type", up.MediaType),
			zap.Error(err),
		)
		return batch.NewFailed(up.Filename, err)
	}
	metrics.ExtractionTotal.WithLabelValues(format, "ok").Inc()

	doc := domain.CandidateDocument{
		ID:        uuid.NewString(),
		Owner:     owner,
		Filename:  up.Filename,
		MediaType: up.MediaType,
		Content:   up.Data,
		Text:      text,
		Size:      int64(len(up.Data)),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, &doc); err != nil {
		s.logger.Error("Failed to persist candidate document",
			zap.String("filename", up.Filename),
			zap.Error(err),
		)
		return batch.NewFailed(up.Filename, fmt.Errorf("store document: %w", err))
	}

	s.logger.Info("Candidate document stored",
		zap.String("id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.Int64("size", doc.Size),
	)
	return batch.NewStored(doc.ID, doc.Filename, domain.Preview(doc.Text, domain.UploadPreviewLimit))
}

// List returns owner's documents in upload order, with short previews.
func (s *Service) List(ctx context.Context, owner string) ([]Summary, error) {
	docs, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	summaries := make([]Summary, len(docs))
	for i, doc := range docs {
		summaries[i] = Summary{
			ID:          doc.ID,
			Filename:    doc.Filename,
			MediaType:   doc.MediaType,
			Size:        doc.Size,
			TextPreview: domain.Preview(doc.Text, domain.UploadPreviewLimit),
			UploadedAt:  doc.CreatedAt,
		}
	}
	return summaries, nil
}

// Delete removes owner's document by id.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q: %w", id, domain.ErrInvalidID)
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("delete candidate %s: %w", id, err)
	}
	s.logger.Info("Candidate document deleted", zap.String("id", id))
	return nil
}

// Count returns the number of documents owner has stored.
func (s *Service) Count(ctx context.Context, owner string) (int, error) {
	return s.repo.Count(ctx, owner)
}

func formatLabel(mediaType string) string {
	switch mediaType {
	case domain.MediaTypePDF:
		return "pdf"
	case domain.MediaTypeDOCX:
		return "docx"
	default:
		return "other"
	}
}
