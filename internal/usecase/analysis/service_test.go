package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/resumerank/internal/domain"
)

const (
	idGo     = "11111111-1111-4111-8111-111111111111"
	idJava   = "22222222-2222-4222-8222-222222222222"
	idDesign = "33333333-3333-4333-8333-333333333333"
)

type mockCandidates struct {
	docs map[string]domain.CandidateDocument // id -> doc
	errs map[string]error
}

func (m *mockCandidates) Get(_ context.Context, _, id string) (domain.CandidateDocument, error) {
	if err, ok := m.errs[id]; ok {
		return domain.CandidateDocument{}, err
	}
	doc, ok := m.docs[id]
	if !ok {
		return domain.CandidateDocument{}, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockCandidates) ListByOwner(_ context.Context, _ string) ([]domain.CandidateDocument, error) {
	out := make([]domain.CandidateDocument, 0, len(m.docs))
	for _, id := range []string{idGo, idJava, idDesign} {
		if doc, ok := m.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

type mockJobs struct {
	inserted []domain.JobSpecification
	titles   map[string]string
	insErr   error
}

func (m *mockJobs) Insert(_ context.Context, job *domain.JobSpecification) error {
	if m.insErr != nil {
		return m.insErr
	}
	m.inserted = append(m.inserted, *job)
	return nil
}

func (m *mockJobs) GetTitle(_ context.Context, _, id string) (string, error) {
	title, ok := m.titles[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return title, nil
}

type mockSnapshots struct {
	inserted []domain.AnalysisSnapshot
	list     []domain.AnalysisSnapshot
	insErr   error
}

func (m *mockSnapshots) Insert(_ context.Context, snap *domain.AnalysisSnapshot) error {
	if m.insErr != nil {
		return m.insErr
	}
	m.inserted = append(m.inserted, *snap)
	return nil
}

func (m *mockSnapshots) ListByOwner(_ context.Context, _ string) ([]domain.AnalysisSnapshot, error) {
	return m.list, nil
}

func (m *mockSnapshots) Count(_ context.Context, _ string) (int, error) {
	return len(m.list), nil
}

// vecEmbedder returns a fixed vector for the job and per-text vectors for
// documents, looked up by substring.
type vecEmbedder struct {
	jobVec  []float32
	docVecs map[string][]float32
	err     error
}

func (e *vecEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.jobVec}, nil
}

func (e *vecEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if e.err != nil {
		return domain.BatchEmbeddingResult{}, e.err
	}
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		for marker, vec := range e.docVecs {
			if strings.Contains(text, marker) {
				embeddings[i] = vec
			}
		}
		if embeddings[i] == nil {
			embeddings[i] = []float32{0, 0, 0}
		}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

func testFixtures() (*mockCandidates, *mockJobs, *mockSnapshots, *vecEmbedder) {
	t0 := time.Unix(1700000000, 0).UTC()
	candidates := &mockCandidates{docs: map[string]domain.CandidateDocument{
		idGo:     {ID: idGo, Filename: "go.pdf", Text: "golang services", CreatedAt: t0},
		idJava:   {ID: idJava, Filename: "java.pdf", Text: "java spring", CreatedAt: t0.Add(time.Minute)},
		idDesign: {ID: idDesign, Filename: "design.pdf", Text: "figma portfolio", CreatedAt: t0.Add(2 * time.Minute)},
	}}
	jobs := &mockJobs{titles: map[string]string{}}
	snaps := &mockSnapshots{}
	emb := &vecEmbedder{
		jobVec: []float32{1, 0, 0},
		docVecs: map[string][]float32{
			"golang": {0.9, 0.1, 0},  // closest
			"java":   {0.5, 0.5, 0},  // middle
			"figma":  {0, 1, 0},      // orthogonal
		},
	}
	return candidates, jobs, snaps, emb
}

func newTestService(c *mockCandidates, j *mockJobs, s *mockSnapshots, e *vecEmbedder) *Service {
	return New(c, j, s, e, e, zap.NewNop())
}

// --- Analyze ---

func TestAnalyze_RanksByScoreDescending(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	svc := newTestService(candidates, jobs, snaps, emb)

	snap, err := svc.Analyze(context.Background(), "alice@corp.test", Request{
		Title:        "Go Developer",
		Description:  "Backend services",
		Requirements: "Go, Redis",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap.Entries))
	}
	if snap.Entries[0].CandidateID != idGo {
		t.Errorf("expected go.pdf first, got %s", snap.Entries[0].Filename)
	}
	if snap.Entries[2].CandidateID != idDesign {
		t.Errorf("expected design.pdf last, got %s", snap.Entries[2].Filename)
	}
	for i := 1; i < len(snap.Entries); i++ {
		if snap.Entries[i].Score > snap.Entries[i-1].Score {
			t.Errorf("entries out of order at %d: %v > %v", i, snap.Entries[i].Score, snap.Entries[i-1].Score)
		}
	}
	for _, e := range snap.Entries {
		if e.Score < 0 || e.Score > 1 {
			t.Errorf("score out of [0,1]: %v", e.Score)
		}
	}
}

func TestAnalyze_PersistsJobAndSnapshot(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	svc := newTestService(candidates, jobs, snaps, emb)

	snap, err := svc.Analyze(context.Background(), "alice@corp.test", Request{Title: "Go Developer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs.inserted) != 1 {
		t.Fatalf("expected 1 job insert, got %d", len(jobs.inserted))
	}
	if jobs.inserted[0].ID != snap.JobID {
		t.Errorf("snapshot points at wrong job: %s != %s", snap.JobID, jobs.inserted[0].ID)
	}
	if len(snaps.inserted) != 1 {
		t.Fatalf("expected 1 snapshot insert, got %d", len(snaps.inserted))
	}
	if snaps.inserted[0].ID != snap.ID {
		t.Errorf("returned snapshot differs from persisted one")
	}
}

func TestAnalyze_StableOrderOnTies(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	// all documents identical to the job vector: three-way tie
	emb.docVecs = map[string][]float32{
		"golang": {1, 0, 0}, "java": {1, 0, 0}, "figma": {1, 0, 0},
	}
	svc := newTestService(candidates, jobs, snaps, emb)

	snap, err := svc.Analyze(context.Background(), "alice@corp.test", Request{
		Title:        "Any",
		CandidateIDs: []string{idJava, idGo, idDesign},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ties keep request resolution order
	want := []string{idJava, idGo, idDesign}
	for i, id := range want {
		if snap.Entries[i].CandidateID != id {
			t.Fatalf("tie order broken at %d: got %s, want %s", i, snap.Entries[i].CandidateID, id)
		}
	}
}

func TestAnalyze_DropsUnresolvableIDs(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	candidates.errs = map[string]error{idJava: domain.ErrForbidden}
	svc := newTestService(candidates, jobs, snaps, emb)

	snap, err := svc.Analyze(context.Background(), "alice@corp.test", Request{
		Title: "Go Developer",
		CandidateIDs: []string{
			idGo,
			"not-a-uuid", // malformed: dropped
			idJava,       // foreign: dropped
			"44444444-4444-4444-8444-444444444444", // unknown: dropped
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Entries) != 1 || snap.Entries[0].CandidateID != idGo {
		t.Fatalf("expected only the resolvable candidate, got %+v", snap.Entries)
	}
}

func TestAnalyze_EmptySelectionStillPersists(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	svc := newTestService(candidates, jobs, snaps, emb)

	snap, err := svc.Analyze(context.Background(), "alice@corp.test", Request{
		Title:        "Go Developer",
		CandidateIDs: []string{"nope"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Entries) != 0 {
		t.Fatalf("expected empty ranking, got %d entries", len(snap.Entries))
	}
	if len(snaps.inserted) != 1 {
		t.Fatal("empty analysis must still be persisted")
	}
}

func TestAnalyze_RankingPreviewTruncated(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	long := "golang " + strings.Repeat("y", 600)
	candidates.docs[idGo] = domain.CandidateDocument{
		ID: idGo, Filename: "go.pdf", Text: long, CreatedAt: time.Unix(1, 0),
	}
	svc := newTestService(candidates, jobs, snaps, emb)

	snap, err := svc.Analyze(context.Background(), "alice@corp.test", Request{
		Title:        "Go Developer",
		CandidateIDs: []string{idGo},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	preview := snap.Entries[0].TextPreview
	if len([]rune(preview)) != domain.RankingPreviewLimit+3 {
		t.Errorf("expected %d chars plus ellipsis, got %d", domain.RankingPreviewLimit, len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Error("truncated preview must end with ellipsis")
	}
}

func TestAnalyze_EmbedErrorFailsRun(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	emb.err = errors.New("provider down")
	svc := newTestService(candidates, jobs, snaps, emb)

	_, err := svc.Analyze(context.Background(), "alice@corp.test", Request{Title: "Go"})
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
	if len(snaps.inserted) != 0 {
		t.Error("failed run must not persist a snapshot")
	}
}

func TestAnalyze_CanceledContextDoesNotPersist(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	svc := newTestService(candidates, jobs, snaps, emb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, "alice@corp.test", Request{Title: "Go"})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if len(snaps.inserted) != 0 {
		t.Error("canceled run must not persist a snapshot")
	}
}

// --- History ---

func TestHistory_ResolvesTitles(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	t0 := time.Unix(1700000000, 0).UTC()
	jobs.titles["job-live"] = "Platform Engineer"
	snaps.list = []domain.AnalysisSnapshot{
		{ID: "an-2", JobID: "job-live", AnalyzedAt: t0.Add(time.Hour)},
		{ID: "an-1", JobID: "job-deleted", AnalyzedAt: t0},
	}
	svc := newTestService(candidates, jobs, snaps, emb)

	items, err := svc.History(context.Background(), "alice@corp.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].JobTitle != "Platform Engineer" {
		t.Errorf("unexpected title: %s", items[0].JobTitle)
	}
	if items[1].JobTitle != domain.MissingJobTitle {
		t.Errorf("expected sentinel title for deleted job, got %q", items[1].JobTitle)
	}
}

func TestHistory_Empty(t *testing.T) {
	candidates, jobs, snaps, emb := testFixtures()
	svc := newTestService(candidates, jobs, snaps, emb)

	items, err := svc.History(context.Background(), "alice@corp.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty history, got %d items", len(items))
	}
}
