package resumerank

import (
	"context"

	"github.com/hireloop/resumerank/internal/domain"
	dombatch "github.com/hireloop/resumerank/internal/domain/batch"
	analysisuc "github.com/hireloop/resumerank/internal/usecase/analysis"
	candidateuc "github.com/hireloop/resumerank/internal/usecase/candidate"
	healthuc "github.com/hireloop/resumerank/internal/usecase/health"
	statsuc "github.com/hireloop/resumerank/internal/usecase/stats"
)

// --- candidateUseCase mock ---

type mockCandidateUC struct {
	storeFn  func(ctx context.Context, owner string, uploads []candidateuc.Upload) ([]dombatch.Result, error)
	listFn   func(ctx context.Context, owner string) ([]candidateuc.Summary, error)
	deleteFn func(ctx context.Context, owner, id string) error
}

func (m *mockCandidateUC) Store(
	ctx context.Context, owner string, uploads []candidateuc.Upload,
) ([]dombatch.Result, error) {
	return m.storeFn(ctx, owner, uploads)
}

func (m *mockCandidateUC) List(ctx context.Context, owner string) ([]candidateuc.Summary, error) {
	return m.listFn(ctx, owner)
}

func (m *mockCandidateUC) Delete(ctx context.Context, owner, id string) error {
	return m.deleteFn(ctx, owner, id)
}

// --- analysisUseCase mock ---

type mockAnalysisUC struct {
	analyzeFn func(ctx context.Context, owner string, req analysisuc.Request) (domain.AnalysisSnapshot, error)
	historyFn func(ctx context.Context, owner string) ([]analysisuc.HistoryItem, error)
}

func (m *mockAnalysisUC) Analyze(
	ctx context.Context, owner string, req analysisuc.Request,
) (domain.AnalysisSnapshot, error) {
	return m.analyzeFn(ctx, owner, req)
}

func (m *mockAnalysisUC) History(ctx context.Context, owner string) ([]analysisuc.HistoryItem, error) {
	return m.historyFn(ctx, owner)
}

// --- statsUseCase mock ---

type mockStatsUC struct {
	overviewFn func(ctx context.Context, owner string) (statsuc.Overview, error)
}

func (m *mockStatsUC) Overview(ctx context.Context, owner string) (statsuc.Overview, error) {
	return m.overviewFn(ctx, owner)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}
