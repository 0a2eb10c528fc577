package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/domain"
)

func TestBudgetTracker_UnderLimit(t *testing.T) {
	b := NewBudgetTracker("p", 100, 1000, BudgetActionReject, zap.NewNop())
	b.Record(50)

	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error under limit: %v", err)
	}
	if got := b.RemainingDaily(); got != 50 {
		t.Errorf("expected 50 daily remaining, got %d", got)
	}
	if got := b.RemainingMonthly(); got != 950 {
		t.Errorf("expected 950 monthly remaining, got %d", got)
	}
}

func TestBudgetTracker_DailyExceeded(t *testing.T) {
	b := NewBudgetTracker("p", 100, 0, BudgetActionReject, zap.NewNop())
	b.Record(100)

	err := b.Check(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Fatalf("expected ErrEmbeddingQuotaExceeded, got %v", err)
	}
	if got := b.RemainingDaily(); got != 0 {
		t.Errorf("expected 0 remaining, got %d", got)
	}
}

func TestBudgetTracker_MonthlyExceeded(t *testing.T) {
	b := NewBudgetTracker("p", 0, 100, BudgetActionReject, zap.NewNop())
	b.Record(150)

	err := b.Check(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Fatalf("expected ErrEmbeddingQuotaExceeded, got %v", err)
	}
}

func TestBudgetTracker_WarnAllows(t *testing.T) {
	b := NewBudgetTracker("p", 10, 0, BudgetActionWarn, zap.NewNop())
	b.Record(100)

	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("warn action must not block, got %v", err)
	}
}

func TestBudgetTracker_Unlimited(t *testing.T) {
	b := NewBudgetTracker("p", 0, 0, BudgetActionReject, zap.NewNop())
	b.Record(1 << 40)

	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("zero limits mean unlimited, got %v", err)
	}
	if got := b.RemainingDaily(); got != -1 {
		t.Errorf("expected -1 for unlimited, got %d", got)
	}
	if got := b.RemainingMonthly(); got != -1 {
		t.Errorf("expected -1 for unlimited, got %d", got)
	}
}

type mockBudgetStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{counts: map[string]int64{}}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key] += val
	return nil
}

func (m *mockBudgetStore) GetInt(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key], nil
}

func TestBudgetTracker_PersistsToStore(t *testing.T) {
	store := newMockBudgetStore()
	b := NewBudgetTracker("p", 1000, 0, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)
	b.Record(42)

	store.mu.Lock()
	var total int64
	for _, v := range store.counts {
		total += v
	}
	store.mu.Unlock()

	// One daily and one monthly key, 42 each.
	if total != 84 {
		t.Errorf("expected 84 persisted tokens across keys, got %d", total)
	}
}

func TestBudgetTracker_LoadsFromStore(t *testing.T) {
	store := newMockBudgetStore()
	seed := NewBudgetTracker("p", 1000, 0, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)
	seed.Record(600)

	restarted := NewBudgetTracker("p", 1000, 0, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)

	if got := restarted.RemainingDaily(); got != 400 {
		t.Errorf("expected 400 remaining after reload, got %d", got)
	}
}
