// Package job persists job specifications as RedisJSON records keyed by
// owner.
package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hireloop/resumerank/internal/db"
	"github.com/hireloop/resumerank/internal/domain"
)

// store is the consumer interface for job specifications (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

type dto struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repo implements usecase/analysis.JobRepository.
type Repo struct {
	store store
}

// New creates a job repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Insert stores a job specification under its owner's namespace.
func (r *Repo) Insert(ctx context.Context, job *domain.JobSpecification) error {
	key := jobKey(job.Owner, job.ID)
	data, err := json.Marshal(dto{
		ID:           job.ID,
		Owner:        job.Owner,
		Title:        job.Title,
		Description:  job.Description,
		Requirements: job.Requirements,
		CreatedAt:    job.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a job specification owned by owner.
func (r *Repo) Get(ctx context.Context, owner, id string) (domain.JobSpecification, error) {
	key := jobKey(owner, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.JobSpecification{}, domain.ErrNotFound
		}
		return domain.JobSpecification{}, fmt.Errorf("json.get %s: %w", key, err)
	}

	var dtos []dto
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return domain.JobSpecification{}, fmt.Errorf("unmarshal job: %w", err)
	}
	if len(dtos) == 0 {
		return domain.JobSpecification{}, domain.ErrNotFound
	}
	d := dtos[0]
	return domain.JobSpecification{
		ID:           d.ID,
		Owner:        d.Owner,
		Title:        d.Title,
		Description:  d.Description,
		Requirements: d.Requirements,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// GetTitle returns just the title of owner's job, for history views.
func (r *Repo) GetTitle(ctx context.Context, owner, id string) (string, error) {
	job, err := r.Get(ctx, owner, id)
	if err != nil {
		return "", err
	}
	return job.Title, nil
}

// Count returns the number of job specifications owned by owner.
func (r *Repo) Count(ctx context.Context, owner string) (int, error) {
	keys, err := r.store.Scan(ctx, jobKey(owner, "*"))
	if err != nil {
		return 0, fmt.Errorf("scan jobs for %s: %w", owner, err)
	}
	return len(keys), nil
}

func jobKey(owner, id string) string {
	return domain.KeyPrefix + "job:" + owner + ":" + id
}
