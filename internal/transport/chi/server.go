// Package chi implements the HTTP API: candidate uploads, analyses, the
// dashboard, and the operational endpoints.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/domain"
	dombatch "github.com/hireloop/resumerank/internal/domain/batch"
	analysisuc "github.com/hireloop/resumerank/internal/usecase/analysis"
	candidateuc "github.com/hireloop/resumerank/internal/usecase/candidate"
	healthuc "github.com/hireloop/resumerank/internal/usecase/health"
	statsuc "github.com/hireloop/resumerank/internal/usecase/stats"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest           = "bad_request"
	codeUnauthorized         = "unauthorized"
	codeForbidden            = "forbidden"
	codeNotFound             = "not_found"
	codePayloadTooLarge      = "payload_too_large"
	codeUnsupportedMediaType = "unsupported_media_type"
	codeExtractionFailed     = "extraction_failed"
	codeAllRejected          = "all_documents_rejected"
	codeQuotaExceeded        = "embedding_quota_exceeded"
	codeProviderError        = "embedding_provider_error"
	codeInternalError        = "internal_error"
)

// CandidateService is the candidate workflow consumed by the transport.
type CandidateService interface {
	Store(ctx context.Context, owner string, uploads []candidateuc.Upload) ([]dombatch.Result, error)
	List(ctx context.Context, owner string) ([]candidateuc.Summary, error)
	Delete(ctx context.Context, owner, id string) error
}

// AnalysisService is the ranking workflow consumed by the transport.
type AnalysisService interface {
	Analyze(ctx context.Context, owner string, req analysisuc.Request) (domain.AnalysisSnapshot, error)
	History(ctx context.Context, owner string) ([]analysisuc.HistoryItem, error)
}

// StatsService serves the dashboard overview.
type StatsService interface {
	Overview(ctx context.Context, owner string) (statsuc.Overview, error)
}

// HealthService aggregates component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	candidates    CandidateService
	analyses      AnalysisService
	stats         StatsService
	health        HealthService
	maxUploadBody int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxUploadBody caps the whole
// multipart request body.
func NewServer(
	candidates CandidateService,
	analyses AnalysisService,
	stats StatsService,
	health HealthService,
	maxUploadBody int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		candidates:    candidates,
		analyses:      analyses,
		stats:         stats,
		health:        health,
		maxUploadBody: maxUploadBody,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrInvalidID, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrEmptyDocument, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrTooManyDocuments, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrAllDocumentsRejected, http.StatusBadRequest, codeAllRejected),
		sentinelHandler(domain.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, codeUnsupportedMediaType),
		sentinelHandler(domain.ErrDocumentTooLarge, http.StatusRequestEntityTooLarge, codePayloadTooLarge),
		sentinelHandler(domain.ErrExtractionFailed, http.StatusUnprocessableEntity, codeExtractionFailed),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, codeQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Routes mounts all API routes on r.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/candidates", s.UploadCandidates)
	r.Get("/candidates", s.ListCandidates)
	r.Delete("/candidates/{id}", s.DeleteCandidate)
	r.Post("/analyses", s.CreateAnalysis)
	r.Get("/analyses", s.ListAnalyses)
	r.Get("/dashboard/stats", s.DashboardStats)
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
}

// --- DTOs ---

type uploadItemResponse struct {
	ID          string `json:"id,omitempty"`
	Filename    string `json:"filename"`
	Status      string `json:"status"`
	TextPreview string `json:"text_preview,omitempty"`
	Error       string `json:"error,omitempty"`
}

type uploadResponse struct {
	Items []uploadItemResponse `json:"items"`
}

type candidateResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	MediaType   string    `json:"media_type"`
	Size        int64     `json:"size"`
	TextPreview string    `json:"text_preview"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type candidateListResponse struct {
	Items []candidateResponse `json:"items"`
}

type analyzeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	CandidateIDs []string `json:"candidate_ids,omitempty"`
}

type rankingEntryResponse struct {
	CandidateID string    `json:"candidate_id"`
	Filename    string    `json:"filename"`
	Score       float64   `json:"score"`
	TextPreview string    `json:"text_preview"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type analysisResponse struct {
	ID         string                 `json:"id"`
	JobID      string                 `json:"job_id"`
	JobTitle   string                 `json:"job_title,omitempty"`
	AnalyzedAt time.Time              `json:"analyzed_at"`
	Entries    []rankingEntryResponse `json:"entries"`
}

type analysisListResponse struct {
	Items []analysisResponse `json:"items"`
}

type recentUploadResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type statsResponse struct {
	Candidates    int                    `json:"candidates"`
	Jobs          int                    `json:"jobs"`
	Analyses      int                    `json:"analyses"`
	RecentUploads []recentUploadResponse `json:"recent_uploads"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Handlers ---

// UploadCandidates handles POST /candidates (multipart, field "files").
func (s *Server) UploadCandidates(w http.ResponseWriter, r *http.Request) {
	owner := PrincipalFromContext(r.Context())

	if s.maxUploadBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBody)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	uploads := make([]candidateuc.Upload, 0, len(files))
	for _, fh := range files {
		up, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "read upload "+fh.Filename+": "+err.Error())
			return
		}
		uploads = append(uploads, up)
	}

	results, err := s.candidates.Store(r.Context(), owner, uploads)
	if err != nil && !errors.Is(err, domain.ErrAllDocumentsRejected) {
		s.handleDomainError(w, err)
		return
	}

	resp := uploadResponse{Items: make([]uploadItemResponse, len(results))}
	for i, res := range results {
		resp.Items[i] = batchResultToResponse(res)
	}

	status := http.StatusCreated
	if err != nil {
		// every file was rejected: report per-item outcomes with an error status
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

// ListCandidates handles GET /candidates.
func (s *Server) ListCandidates(w http.ResponseWriter, r *http.Request) {
	owner := PrincipalFromContext(r.Context())

	summaries, err := s.candidates.List(r.Context(), owner)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := candidateListResponse{Items: make([]candidateResponse, len(summaries))}
	for i, sum := range summaries {
		resp.Items[i] = candidateResponse{
			ID:          sum.ID,
			Filename:    sum.Filename,
			MediaType:   sum.MediaType,
			Size:        sum.Size,
			TextPreview: sum.TextPreview,
			UploadedAt:  sum.UploadedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteCandidate handles DELETE /candidates/{id}.
func (s *Server) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	owner := PrincipalFromContext(r.Context())
	id := chirouter.URLParam(r, "id")

	if err := s.candidates.Delete(r.Context(), owner, id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateAnalysis handles POST /analyses.
func (s *Server) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	owner := PrincipalFromContext(r.Context())

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "title is required")
		return
	}

	snap, err := s.analyses.Analyze(r.Context(), owner, analysisuc.Request{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		CandidateIDs: req.CandidateIDs,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, analysisResponse{
		ID:         snap.ID,
		JobID:      snap.JobID,
		JobTitle:   req.Title,
		AnalyzedAt: snap.AnalyzedAt,
		Entries:    entriesToResponse(snap.Entries),
	})
}

// ListAnalyses handles GET /analyses.
func (s *Server) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	owner := PrincipalFromContext(r.Context())

	items, err := s.analyses.History(r.Context(), owner)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := analysisListResponse{Items: make([]analysisResponse, len(items))}
	for i, item := range items {
		resp.Items[i] = analysisResponse{
			ID:         item.ID,
			JobID:      item.JobID,
			JobTitle:   item.JobTitle,
			AnalyzedAt: item.AnalyzedAt,
			Entries:    entriesToResponse(item.Entries),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// DashboardStats handles GET /dashboard/stats.
func (s *Server) DashboardStats(w http.ResponseWriter, r *http.Request) {
	owner := PrincipalFromContext(r.Context())

	ov, err := s.stats.Overview(r.Context(), owner)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := statsResponse{
		Candidates:    ov.Candidates,
		Jobs:          ov.Jobs,
		Analyses:      ov.Analyses,
		RecentUploads: make([]recentUploadResponse, len(ov.RecentUploads)),
	}
	for i, up := range ov.RecentUploads {
		resp.RecentUploads[i] = recentUploadResponse{
			ID:         up.ID,
			Filename:   up.Filename,
			UploadedAt: up.UploadedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Helpers ---

func readUpload(fh *multipart.FileHeader) (candidateuc.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return candidateuc.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return candidateuc.Upload{}, err
	}

	return candidateuc.Upload{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}, nil
}

func batchResultToResponse(res dombatch.Result) uploadItemResponse {
	item := uploadItemResponse{
		ID:          res.ID(),
		Filename:    res.Filename(),
		Status:      string(res.Status()),
		TextPreview: res.TextPreview(),
	}
	if res.Err() != nil {
		item.Error = safeDomainMessage(res.Err())
	}
	return item
}

func entriesToResponse(entries []domain.RankingEntry) []rankingEntryResponse {
	out := make([]rankingEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = rankingEntryResponse{
			CandidateID: e.CandidateID,
			Filename:    e.Filename,
			Score:       e.Score,
			TextPreview: e.TextPreview,
			UploadedAt:  e.UploadedAt,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	var extErr *domain.ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Error()
	}

	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrInvalidID,
		domain.ErrUnsupportedMediaType,
		domain.ErrEmptyDocument,
		domain.ErrDocumentTooLarge,
		domain.ErrTooManyDocuments,
		domain.ErrExtractionFailed,
		domain.ErrAllDocumentsRejected,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler matching a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
