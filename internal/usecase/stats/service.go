// Package stats aggregates per-owner dashboard figures.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/hireloop/resumerank/internal/domain"
)

// RecentUploads caps the uploads shown on the dashboard.
const RecentUploads = 5

// CandidateReader provides candidate counts and recency data.
type CandidateReader interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.CandidateDocument, error)
}

// Counter reports how many records an owner has.
type Counter interface {
	Count(ctx context.Context, owner string) (int, error)
}

// RecentUpload is one dashboard row.
type RecentUpload struct {
	ID         string
	Filename   string
	UploadedAt time.Time
}

// Overview is the dashboard payload for one owner.
type Overview struct {
	Candidates    int
	Jobs          int
	Analyses      int
	RecentUploads []RecentUpload
}

// Service computes dashboard overviews.
type Service struct {
	candidates CandidateReader
	jobs       Counter
	analyses   Counter
}

// New creates a stats service.
func New(candidates CandidateReader, jobs, analyses Counter) *Service {
	return &Service{candidates: candidates, jobs: jobs, analyses: analyses}
}

// Overview returns owner's counts and the most recent uploads.
func (s *Service) Overview(ctx context.Context, owner string) (Overview, error) {
	docs, err := s.candidates.ListByOwner(ctx, owner)
	if err != nil {
		return Overview{}, fmt.Errorf("list candidates: %w", err)
	}

	jobCount, err := s.jobs.Count(ctx, owner)
	if err != nil {
		return Overview{}, fmt.Errorf("count jobs: %w", err)
	}
	analysisCount, err := s.analyses.Count(ctx, owner)
	if err != nil {
		return Overview{}, fmt.Errorf("count analyses: %w", err)
	}

	// docs arrive oldest first; take the tail, newest first.
	recent := make([]RecentUpload, 0, RecentUploads)
	for i := len(docs) - 1; i >= 0 && len(recent) < RecentUploads; i-- {
		recent = append(recent, RecentUpload{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			UploadedAt: docs[i].CreatedAt,
		})
	}

	return Overview{
		Candidates:    len(docs),
		Jobs:          jobCount,
		Analyses:      analysisCount,
		RecentUploads: recent,
	}, nil
}
