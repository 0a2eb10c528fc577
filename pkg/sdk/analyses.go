package resumerank

import (
	"context"
	"fmt"

	"github.com/hireloop/resumerank/internal/domain"
	analysisuc "github.com/hireloop/resumerank/internal/usecase/analysis"
)

// AnalysisService runs rankings and reads history for one principal.
type AnalysisService struct {
	owner string
	svc   analysisUseCase
}

// Run ranks the selected candidates against the job and persists the
// snapshot. Unknown, foreign and malformed candidate IDs are dropped
// rather than failing the run.
func (s *AnalysisService) Run(ctx context.Context, req JobRequest) (Analysis, error) {
	snap, err := s.svc.Analyze(ctx, s.owner, analysisuc.Request{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		CandidateIDs: req.CandidateIDs,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("run analysis: %w", err)
	}
	return Analysis{
		ID:         snap.ID,
		JobID:      snap.JobID,
		JobTitle:   req.Title,
		AnalyzedAt: snap.AnalyzedAt,
		Entries:    fromInternalEntries(snap.Entries),
	}, nil
}

// History returns past analyses, newest first. Entries keep the order
// computed at analysis time.
func (s *AnalysisService) History(ctx context.Context) ([]Analysis, error) {
	items, err := s.svc.History(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("analysis history: %w", err)
	}
	out := make([]Analysis, len(items))
	for i, item := range items {
		out[i] = Analysis{
			ID:         item.ID,
			JobID:      item.JobID,
			JobTitle:   item.JobTitle,
			AnalyzedAt: item.AnalyzedAt,
			Entries:    fromInternalEntries(item.Entries),
		}
	}
	return out, nil
}

func fromInternalEntries(entries []domain.RankingEntry) []RankingEntry {
	out := make([]RankingEntry, len(entries))
	for i, e := range entries {
		out[i] = RankingEntry{
			CandidateID: e.CandidateID,
			Filename:    e.Filename,
			Score:       e.Score,
			TextPreview: e.TextPreview,
			UploadedAt:  e.UploadedAt,
		}
	}
	return out
}
