package resumerank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/db"
	dbRedis "github.com/hireloop/resumerank/internal/db/redis"
	"github.com/hireloop/resumerank/internal/domain"
	dombatch "github.com/hireloop/resumerank/internal/domain/batch"
	"github.com/hireloop/resumerank/internal/extract"
	analysisrepo "github.com/hireloop/resumerank/internal/repository/analysis"
	candidaterepo "github.com/hireloop/resumerank/internal/repository/candidate"
	jobrepo "github.com/hireloop/resumerank/internal/repository/job"
	analysisuc "github.com/hireloop/resumerank/internal/usecase/analysis"
	candidateuc "github.com/hireloop/resumerank/internal/usecase/candidate"
	embeddinguc "github.com/hireloop/resumerank/internal/usecase/embedding"
	healthuc "github.com/hireloop/resumerank/internal/usecase/health"
	statsuc "github.com/hireloop/resumerank/internal/usecase/stats"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultPrincipal        = "local"
	defaultMaxDocumentSize  = 10 << 20
	defaultMaxBatchFiles    = 20
)

// Internal interfaces for test substitution.
type candidateUseCase interface {
	Store(ctx context.Context, owner string, uploads []candidateuc.Upload) ([]dombatch.Result, error)
	List(ctx context.Context, owner string) ([]candidateuc.Summary, error)
	Delete(ctx context.Context, owner, id string) error
}

type analysisUseCase interface {
	Analyze(ctx context.Context, owner string, req analysisuc.Request) (domain.AnalysisSnapshot, error)
	History(ctx context.Context, owner string) ([]analysisuc.HistoryItem, error)
}

type statsUseCase interface {
	Overview(ctx context.Context, owner string) (statsuc.Overview, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the resumerank SDK entry point.
type Client struct {
	store       db.Store
	principal   string
	candSvc     candidateUseCase
	analysisSvc analysisUseCase
	statsSvc    statsUseCase
	healthSvc   healthUseCase
}

// New creates a resumerank Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		principal:        defaultPrincipal,
		maxDocumentBytes: defaultMaxDocumentSize,
		maxBatchFiles:    defaultMaxBatchFiles,
		embedWorkers:     embeddinguc.DefaultWorkers,
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("resumerank: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("resumerank: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("resumerank: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	candRepo := candidaterepo.New(store)
	jobRepo := jobrepo.New(store)
	analysisRepo := analysisrepo.New(store)

	// Embedder: noop when not configured (uploads work, analyses error)
	var domEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = embeddinguc.NewPooledEmbedder(
			&embedderAdapter{inner: cfg.embedder}, cfg.embedWorkers,
		)
	}

	candSvc := candidateuc.New(
		candRepo, extract.DefaultSet(),
		cfg.maxDocumentBytes, cfg.maxBatchFiles, cfg.logger,
	)
	analysisSvc := analysisuc.New(
		candRepo, jobRepo, analysisRepo,
		domEmb, &batchAdapter{inner: domEmb}, cfg.logger,
	)
	statsSvc := statsuc.New(candRepo, jobRepo, analysisRepo)
	healthSvc := healthuc.New(store, nil)

	return &Client{
		store:       store,
		principal:   cfg.principal,
		candSvc:     candSvc,
		analysisSvc: analysisSvc,
		statsSvc:    statsSvc,
		healthSvc:   healthSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Candidates returns the candidate document service.
func (c *Client) Candidates() *CandidateService {
	return &CandidateService{owner: c.principal, svc: c.candSvc}
}

// Analyses returns the ranking service.
func (c *Client) Analyses() *AnalysisService {
	return &AnalysisService{owner: c.principal, svc: c.analysisSvc}
}

// Stats returns the dashboard overview for the client's principal.
func (c *Client) Stats(ctx context.Context) (Overview, error) {
	ov, err := c.statsSvc.Overview(ctx, c.principal)
	if err != nil {
		return Overview{}, fmt.Errorf("stats: %w", err)
	}
	out := Overview{
		Candidates:    ov.Candidates,
		Jobs:          ov.Jobs,
		Analyses:      ov.Analyses,
		RecentUploads: make([]RecentUpload, len(ov.RecentUploads)),
	}
	for i, up := range ov.RecentUploads {
		out.RecentUploads[i] = RecentUpload{
			ID:         up.ID,
			Filename:   up.Filename,
			UploadedAt: up.UploadedAt,
		}
	}
	return out, nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// BatchEmbed delegates to the public BatchEmbedder when available.
func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchFallback(ctx, a, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// batchAdapter exposes BatchEmbed on any embedder chain.
type batchAdapter struct {
	inner domain.Embedder
}

func (a *batchAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := a.inner.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, a.inner, texts)
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"resumerank: embedder not configured (use WithEmbedder to run analyses)",
	)
}
