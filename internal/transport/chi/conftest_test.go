package chi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/domain"
	dombatch "github.com/hireloop/resumerank/internal/domain/batch"
	analysisuc "github.com/hireloop/resumerank/internal/usecase/analysis"
	candidateuc "github.com/hireloop/resumerank/internal/usecase/candidate"
	healthuc "github.com/hireloop/resumerank/internal/usecase/health"
	statsuc "github.com/hireloop/resumerank/internal/usecase/stats"
)

type mockCandidateService struct {
	storeFn  func(ctx context.Context, owner string, uploads []candidateuc.Upload) ([]dombatch.Result, error)
	listFn   func(ctx context.Context, owner string) ([]candidateuc.Summary, error)
	deleteFn func(ctx context.Context, owner, id string) error
}

func (m *mockCandidateService) Store(ctx context.Context, owner string, uploads []candidateuc.Upload) ([]dombatch.Result, error) {
	if m.storeFn != nil {
		return m.storeFn(ctx, owner, uploads)
	}
	return nil, nil
}

func (m *mockCandidateService) List(ctx context.Context, owner string) ([]candidateuc.Summary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, owner)
	}
	return nil, nil
}

func (m *mockCandidateService) Delete(ctx context.Context, owner, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, owner, id)
	}
	return nil
}

type mockAnalysisService struct {
	analyzeFn func(ctx context.Context, owner string, req analysisuc.Request) (domain.AnalysisSnapshot, error)
	historyFn func(ctx context.Context, owner string) ([]analysisuc.HistoryItem, error)
}

func (m *mockAnalysisService) Analyze(ctx context.Context, owner string, req analysisuc.Request) (domain.AnalysisSnapshot, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, owner, req)
	}
	return domain.AnalysisSnapshot{}, nil
}

func (m *mockAnalysisService) History(ctx context.Context, owner string) ([]analysisuc.HistoryItem, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, owner)
	}
	return nil, nil
}

type mockStatsService struct {
	overviewFn func(ctx context.Context, owner string) (statsuc.Overview, error)
}

func (m *mockStatsService) Overview(ctx context.Context, owner string) (statsuc.Overview, error) {
	if m.overviewFn != nil {
		return m.overviewFn(ctx, owner)
	}
	return statsuc.Overview{}, nil
}

type mockHealthService struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthService) Check(ctx context.Context) healthuc.Report {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return healthuc.Report{Status: healthuc.Healthy}
}

type testEnv struct {
	candidates *mockCandidateService
	analyses   *mockAnalysisService
	stats      *mockStatsService
	health     *mockHealthService
	router     chirouter.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		candidates: &mockCandidateService{},
		analyses:   &mockAnalysisService{},
		stats:      &mockStatsService{},
		health:     &mockHealthService{},
	}
	srv := NewServer(env.candidates, env.analyses, env.stats, env.health, 10<<20, zap.NewNop())
	env.router = chirouter.NewRouter()
	srv.Routes(env.router)
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req = req.WithContext(ContextWithPrincipal(req.Context(), "alice@example.com"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// multipartBody builds a multipart body with one part per file under the
// "files" field.
func multipartBody(t *testing.T, files map[string][]byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{`form-data; name="files"; filename="` + name + `"`}
		hdr["Content-Type"] = []string{domain.MediaTypePDF}
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
