// Package analysis implements the ranking workflow: embed the job text,
// embed the selected resumes, score by cosine similarity, and persist the
// result as an immutable snapshot.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/domain"
	"github.com/hireloop/resumerank/internal/metrics"
)

// Request describes one analysis run. CandidateIDs selects which of the
// owner's documents to rank; nil means all of them.
type Request struct {
	Title        string
	Description  string
	Requirements string
	CandidateIDs []string
}

// HistoryItem is one past analysis with its job title resolved.
type HistoryItem struct {
	ID         string
	JobID      string
	JobTitle   string
	AnalyzedAt time.Time
	Entries    []domain.RankingEntry
}

// Service runs analyses and serves their history.
type Service struct {
	candidates CandidateReader
	jobs       JobRepository
	snapshots  SnapshotRepository
	jobEmb     Embedder
	docEmb     BatchEmbedder
	logger     *zap.Logger
}

// New creates an analysis service. jobEmb embeds the query side (job text),
// docEmb the document side (resume text); with instruct-tuned models the
// two carry different instruction prefixes.
func New(
	candidates CandidateReader,
	jobs JobRepository,
	snapshots SnapshotRepository,
	jobEmb Embedder,
	docEmb BatchEmbedder,
	logger *zap.Logger,
) *Service {
	return &Service{
		candidates: candidates,
		jobs:       jobs,
		snapshots:  snapshots,
		jobEmb:     jobEmb,
		docEmb:     docEmb,
		logger:     logger,
	}
}

// Analyze creates the job record, ranks the selected documents against it,
// and persists the result. Unknown, foreign and malformed candidate IDs are
// dropped from the ranking rather than failing the run; a run that ends up
// with zero candidates still produces a (empty) snapshot.
func (s *Service) Analyze(ctx context.Context, owner string, req Request) (domain.AnalysisSnapshot, error) {
	job := domain.JobSpecification{
		ID:           uuid.NewString(),
		Owner:        owner,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.jobs.Insert(ctx, &job); err != nil {
		return domain.AnalysisSnapshot{}, fmt.Errorf("store job: %w", err)
	}

	docs, err := s.resolveCandidates(ctx, owner, req.CandidateIDs)
	if err != nil {
		return domain.AnalysisSnapshot{}, err
	}

	entries, err := s.rank(ctx, job, docs)
	if err != nil {
		return domain.AnalysisSnapshot{}, err
	}

	// A canceled request must not leave a half-real snapshot behind.
	if err := ctx.Err(); err != nil {
		return domain.AnalysisSnapshot{}, fmt.Errorf("analysis aborted: %w", err)
	}

	snap := domain.AnalysisSnapshot{
		ID:         uuid.NewString(),
		JobID:      job.ID,
		Owner:      owner,
		AnalyzedAt: time.Now().UTC(),
		Entries:    entries,
	}
	if err := s.snapshots.Insert(ctx, &snap); err != nil {
		return domain.AnalysisSnapshot{}, fmt.Errorf("store snapshot: %w", err)
	}

	metrics.RankedCandidatesTotal.Add(float64(len(entries)))
	s.logger.Info("Analysis completed",
		zap.String("analysis_id", snap.ID),
		zap.String("job_id", job.ID),
		zap.Int("candidates", len(entries)),
	)
	return snap, nil
}

// resolveCandidates loads the documents to rank. Explicit IDs are filtered:
// malformed IDs and IDs that do not resolve to one of owner's documents are
// dropped without failing the run.
func (s *Service) resolveCandidates(
	ctx context.Context, owner string, ids []string,
) ([]domain.CandidateDocument, error) {
	if ids == nil {
		docs, err := s.candidates.ListByOwner(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("list candidates: %w", err)
		}
		return docs, nil
	}

	docs := make([]domain.CandidateDocument, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			s.logger.Debug("Dropping malformed candidate id", zap.String("id", id))
			continue
		}
		doc, err := s.candidates.Get(ctx, owner, id)
		if err != nil {
			if isSkippable(err) {
				s.logger.Debug("Dropping unresolvable candidate id",
					zap.String("id", id), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("resolve candidate %s: %w", id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// rank embeds the job and all documents, scores them, and orders the result
// by score descending. The sort is stable so equal scores keep the original
// resolution order, making reruns deterministic.
func (s *Service) rank(
	ctx context.Context, job domain.JobSpecification, docs []domain.CandidateDocument,
) ([]domain.RankingEntry, error) {
	if len(docs) == 0 {
		return []domain.RankingEntry{}, nil
	}

	jobRes, err := s.jobEmb.Embed(ctx, job.Text())
	if err != nil {
		return nil, fmt.Errorf("embed job text: %w", err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	docRes, err := s.docEmb.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed candidate texts: %w", err)
	}
	if len(docRes.Embeddings) != len(docs) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d documents: %w",
			len(docRes.Embeddings), len(docs), domain.ErrEmbeddingProviderError)
	}

	entries := make([]domain.RankingEntry, len(docs))
	for i, doc := range docs {
		entries[i] = domain.RankingEntry{
			CandidateID: doc.ID,
			Filename:    doc.Filename,
			Score:       domain.Similarity(jobRes.Embedding, docRes.Embeddings[i]),
			TextPreview: domain.Preview(doc.Text, domain.RankingPreviewLimit),
			UploadedAt:  doc.CreatedAt,
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}

// History returns owner's past analyses, newest first, with job titles
// resolved. A job that was deleted after the run gets the sentinel title.
func (s *Service) History(ctx context.Context, owner string) ([]HistoryItem, error) {
	snaps, err := s.snapshots.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	items := make([]HistoryItem, len(snaps))
	for i, snap := range snaps {
		title, err := s.jobs.GetTitle(ctx, owner, snap.JobID)
		if err != nil {
			if !isSkippable(err) {
				return nil, fmt.Errorf("resolve job title %s: %w", snap.JobID, err)
			}
			title = domain.MissingJobTitle
		}
		items[i] = HistoryItem{
			ID:         snap.ID,
			JobID:      snap.JobID,
			JobTitle:   title,
			AnalyzedAt: snap.AnalyzedAt,
			Entries:    snap.Entries,
		}
	}
	return items, nil
}

// Count returns the number of analyses owner has run.
func (s *Service) Count(ctx context.Context, owner string) (int, error) {
	return s.snapshots.Count(ctx, owner)
}

// isSkippable reports whether a resolution error means "drop this entry"
// rather than "fail the operation".
func isSkippable(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden)
}
