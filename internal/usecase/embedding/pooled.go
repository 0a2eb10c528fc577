package embedding

import (
	"context"
	"fmt"

	"github.com/hireloop/resumerank/internal/domain"
)

// DefaultWorkers bounds concurrent embedding work when no limit is configured.
const DefaultWorkers = 4

// PooledEmbedder bounds the number of embedding operations in flight across
// all requests. Analysis runs can fan out aggressively; the semaphore keeps
// provider pressure and local CPU use flat regardless of request volume.
type PooledEmbedder struct {
	inner domain.Embedder
	slots chan struct{}
}

// NewPooledEmbedder creates a bounding decorator with the given worker count.
func NewPooledEmbedder(inner domain.Embedder, workers int) *PooledEmbedder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &PooledEmbedder{
		inner: inner,
		slots: make(chan struct{}, workers),
	}
}

// Embed acquires a worker slot, honoring context cancellation while waiting.
func (p *PooledEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := p.acquire(ctx); err != nil {
		return domain.EmbeddingResult{}, err
	}
	defer p.release()

	result, err := p.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("pooled embed: %w", err)
	}
	return result, nil
}

// BatchEmbed acquires a single slot for the whole batch. The inner layers
// already chunk provider requests; one slot per batch keeps large analyses
// from starving single-document uploads.
func (p *PooledEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	if err := p.acquire(ctx); err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	defer p.release()

	var res domain.BatchEmbeddingResult
	var err error
	if be, ok := p.inner.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, p.inner, texts)
	}
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("pooled batch embed: %w", err)
	}
	return res, nil
}

func (p *PooledEmbedder) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("acquire embed slot: %w", ctx.Err())
	}
}

func (p *PooledEmbedder) release() {
	<-p.slots
}
