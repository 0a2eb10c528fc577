// Package candidate persists candidate documents as RedisJSON records keyed
// by owner, so every read is owner-scoped by construction.
package candidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hireloop/resumerank/internal/db"
	"github.com/hireloop/resumerank/internal/domain"
)

// store is the consumer interface for candidate documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/candidate.Repository.
type Repo struct {
	store store
}

// New creates a candidate repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Insert stores a candidate document under its owner's namespace.
func (r *Repo) Insert(ctx context.Context, doc *domain.CandidateDocument) error {
	key := candKey(doc.Owner, doc.ID)
	data, err := json.Marshal(toDTO(doc))
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a candidate document owned by owner.
func (r *Repo) Get(ctx context.Context, owner, id string) (domain.CandidateDocument, error) {
	key := candKey(owner, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.CandidateDocument{}, r.classifyMissing(ctx, id)
		}
		return domain.CandidateDocument{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseOne(raw)
}

// ListByOwner returns all of owner's candidate documents in upload order
// (oldest first, ID as tie-break). Upload order keeps downstream processing
// deterministic across calls.
func (r *Repo) ListByOwner(ctx context.Context, owner string) ([]domain.CandidateDocument, error) {
	keys, err := r.store.Scan(ctx, candKey(owner, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan candidates for %s: %w", owner, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	raws, err := r.store.JSONGetMulti(ctx, keys, "$")
	if err != nil {
		return nil, fmt.Errorf("json.get multi: %w", err)
	}

	docs := make([]domain.CandidateDocument, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue // expired between SCAN and fetch
		}
		doc, err := parseOne(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Delete removes owner's candidate document.
func (r *Repo) Delete(ctx context.Context, owner, id string) error {
	key := candKey(owner, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return r.classifyMissing(ctx, id)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Count returns the number of candidate documents owned by owner.
func (r *Repo) Count(ctx context.Context, owner string) (int, error) {
	keys, err := r.store.Scan(ctx, candKey(owner, "*"))
	if err != nil {
		return 0, fmt.Errorf("scan candidates for %s: %w", owner, err)
	}
	return len(keys), nil
}

// classifyMissing tells a record that does not exist apart from one that
// exists under another owner: the former is ErrNotFound, the latter
// ErrForbidden.
func (r *Repo) classifyMissing(ctx context.Context, id string) error {
	keys, err := r.store.Scan(ctx, candKey("*", id))
	if err != nil {
		return fmt.Errorf("scan candidate %s: %w", id, err)
	}
	if len(keys) > 0 {
		return domain.ErrForbidden
	}
	return domain.ErrNotFound
}

func parseOne(raw []byte) (domain.CandidateDocument, error) {
	var dtos []dto
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return domain.CandidateDocument{}, fmt.Errorf("unmarshal candidate: %w", err)
	}
	if len(dtos) == 0 {
		return domain.CandidateDocument{}, domain.ErrNotFound
	}
	return dtos[0].toDomain(), nil
}

func candKey(owner, id string) string {
	return domain.KeyPrefix + "cand:" + owner + ":" + id
}

// ownerFromKey recovers the owner segment of a candidate key. Used by tests
// and diagnostics; the ID never contains ':' (UUIDs), the owner may not
// either.
func ownerFromKey(key string) string {
	rest := strings.TrimPrefix(key, domain.KeyPrefix+"cand:")
	if i := strings.LastIndex(rest, ":"); i > 0 {
		return rest[:i]
	}
	return ""
}
