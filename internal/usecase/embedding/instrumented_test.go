package embedding

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/domain"
	"github.com/hireloop/resumerank/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterCoreMetrics()
	os.Exit(m.Run())
}

type mockEmbedder struct {
	mu         sync.Mutex
	result     domain.EmbeddingResult
	err        error
	batchErr   error
	batchCalls int
	embedFn    func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return m.result, m.err
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.result.Embedding
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.result.PromptTokens * len(texts),
		TotalTokens:  m.result.TotalTokens * len(texts),
	}, nil
}

func TestInstrumentedEmbedder_Success(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 12,
		TotalTokens:  12,
	}}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", nil, zap.NewNop())

	result, err := p.Embed(context.Background(), "senior backend engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(result.Embedding))
	}
	if result.TotalTokens != 12 {
		t.Fatalf("expected 12 total tokens, got %d", result.TotalTokens)
	}
}

func TestInstrumentedEmbedder_Error(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("api error")}
	p := NewInstrumentedEmbedder(inner, "test-err", "test-model-e", nil, zap.NewNop())

	if _, err := p.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestInstrumentedEmbedder_BudgetReject(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	budget := NewBudgetTracker("test-budget", 100, 0, BudgetActionReject, zap.NewNop())
	budget.Record(100) // spend the whole daily budget

	p := NewInstrumentedEmbedder(inner, "test-budget", "m", budget, zap.NewNop())

	_, err := p.Embed(context.Background(), "text")
	if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Fatalf("expected ErrEmbeddingQuotaExceeded, got %v", err)
	}

	_, err = p.BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Fatalf("expected ErrEmbeddingQuotaExceeded for batch, got %v", err)
	}
}

func TestInstrumentedEmbedder_BudgetWarnAllows(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1}, TotalTokens: 5,
	}}
	budget := NewBudgetTracker("test-warn", 1, 0, BudgetActionWarn, zap.NewNop())
	budget.Record(10)

	p := NewInstrumentedEmbedder(inner, "test-warn", "m", budget, zap.NewNop())

	if _, err := p.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("warn action must allow the request, got %v", err)
	}
}

func TestInstrumentedEmbedder_BatchRecordsTokens(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1}, PromptTokens: 2, TotalTokens: 2,
	}}
	budget := NewBudgetTracker("test-record", 100, 0, BudgetActionReject, zap.NewNop())
	p := NewInstrumentedEmbedder(inner, "test-record", "m", budget, zap.NewNop())

	res, err := p.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.TotalTokens != 6 {
		t.Fatalf("expected 6 total tokens, got %d", res.TotalTokens)
	}
	if got := budget.RemainingDaily(); got != 94 {
		t.Errorf("expected 94 tokens remaining, got %d", got)
	}
}

func TestInstrumentedEmbedder_BatchEmpty(t *testing.T) {
	inner := &mockEmbedder{}
	p := NewInstrumentedEmbedder(inner, "test", "m", nil, zap.NewNop())

	res, err := p.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 0 {
		t.Errorf("expected no embeddings for empty input")
	}
	if inner.batchCalls != 0 {
		t.Errorf("expected no inner calls for empty input")
	}
}
