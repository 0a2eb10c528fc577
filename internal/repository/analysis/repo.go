// Package analysis persists ranking snapshots. A snapshot is written once
// after an analysis completes and never mutated afterwards, so history views
// always replay the scores computed at analysis time.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/hireloop/resumerank/internal/domain"
)

// store is the consumer interface for analysis snapshots (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

type entryDTO struct {
	CandidateID string    `json:"candidate_id"`
	Filename    string    `json:"filename"`
	Score       float64   `json:"score"`
	TextPreview string    `json:"text_preview"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type dto struct {
	ID         string     `json:"id"`
	JobID      string     `json:"job_id"`
	Owner      string     `json:"owner"`
	AnalyzedAt time.Time  `json:"analyzed_at"`
	Entries    []entryDTO `json:"entries"`
}

// Repo implements usecase/analysis.SnapshotRepository.
type Repo struct {
	store store
}

// New creates an analysis repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Insert stores a completed snapshot under its owner's namespace.
func (r *Repo) Insert(ctx context.Context, snap *domain.AnalysisSnapshot) error {
	key := analysisKey(snap.Owner, snap.ID)

	entries := make([]entryDTO, len(snap.Entries))
	for i, e := range snap.Entries {
		entries[i] = entryDTO{
			CandidateID: e.CandidateID,
			Filename:    e.Filename,
			Score:       e.Score,
			TextPreview: e.TextPreview,
			UploadedAt:  e.UploadedAt,
		}
	}

	data, err := json.Marshal(dto{
		ID:         snap.ID,
		JobID:      snap.JobID,
		Owner:      snap.Owner,
		AnalyzedAt: snap.AnalyzedAt,
		Entries:    entries,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// ListByOwner returns owner's snapshots, most recent analysis first.
func (r *Repo) ListByOwner(ctx context.Context, owner string) ([]domain.AnalysisSnapshot, error) {
	keys, err := r.store.Scan(ctx, analysisKey(owner, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan analyses for %s: %w", owner, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	raws, err := r.store.JSONGetMulti(ctx, keys, "$")
	if err != nil {
		return nil, fmt.Errorf("json.get multi: %w", err)
	}

	snaps := make([]domain.AnalysisSnapshot, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		var dtos []dto
		if err := json.Unmarshal(raw, &dtos); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		if len(dtos) == 0 {
			continue
		}
		snaps = append(snaps, dtos[0].toDomain())
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].AnalyzedAt.Equal(snaps[j].AnalyzedAt) {
			return snaps[i].AnalyzedAt.After(snaps[j].AnalyzedAt)
		}
		return snaps[i].ID < snaps[j].ID
	})
	return snaps, nil
}

// Count returns the number of snapshots owned by owner.
func (r *Repo) Count(ctx context.Context, owner string) (int, error) {
	keys, err := r.store.Scan(ctx, analysisKey(owner, "*"))
	if err != nil {
		return 0, fmt.Errorf("scan analyses for %s: %w", owner, err)
	}
	return len(keys), nil
}

func (d dto) toDomain() domain.AnalysisSnapshot {
	entries := make([]domain.RankingEntry, len(d.Entries))
	for i, e := range d.Entries {
		entries[i] = domain.RankingEntry{
			CandidateID: e.CandidateID,
			Filename:    e.Filename,
			Score:       e.Score,
			TextPreview: e.TextPreview,
			UploadedAt:  e.UploadedAt,
		}
	}
	return domain.AnalysisSnapshot{
		ID:         d.ID,
		JobID:      d.JobID,
		Owner:      d.Owner,
		AnalyzedAt: d.AnalyzedAt,
		Entries:    entries,
	}
}

func analysisKey(owner, id string) string {
	return domain.KeyPrefix + "analysis:" + owner + ":" + id
}
