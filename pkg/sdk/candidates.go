package resumerank

import (
	"context"
	"errors"
	"fmt"

	"github.com/hireloop/resumerank/internal/domain"
	candidateuc "github.com/hireloop/resumerank/internal/usecase/candidate"
)

// CandidateService manages resume documents for one principal.
type CandidateService struct {
	owner string
	svc   candidateUseCase
}

// Upload extracts text from the given files and stores them. Individual
// file failures are reported per item; Upload returns an error only when
// the batch as a whole is rejected. ErrAllDocumentsRejected is returned
// together with the per-file results.
func (s *CandidateService) Upload(ctx context.Context, files []UploadFile) ([]UploadResult, error) {
	uploads := make([]candidateuc.Upload, len(files))
	for i, f := range files {
		uploads[i] = candidateuc.Upload{
			Filename:  f.Filename,
			MediaType: f.MediaType,
			Data:      f.Data,
		}
	}

	results, err := s.svc.Store(ctx, s.owner, uploads)
	out := make([]UploadResult, len(results))
	for i, res := range results {
		out[i] = UploadResult{
			ID:          res.ID(),
			Filename:    res.Filename(),
			Status:      UploadStatus(res.Status()),
			TextPreview: res.TextPreview(),
			Err:         res.Err(),
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrAllDocumentsRejected) {
			return out, err
		}
		return nil, fmt.Errorf("upload: %w", err)
	}
	return out, nil
}

// List returns all stored documents in upload order.
func (s *CandidateService) List(ctx context.Context) ([]Candidate, error) {
	summaries, err := s.svc.List(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	out := make([]Candidate, len(summaries))
	for i, sum := range summaries {
		out[i] = Candidate{
			ID:          sum.ID,
			Filename:    sum.Filename,
			MediaType:   sum.MediaType,
			Size:        sum.Size,
			TextPreview: sum.TextPreview,
			UploadedAt:  sum.UploadedAt,
		}
	}
	return out, nil
}

// Delete removes a document by ID.
func (s *CandidateService) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, s.owner, id); err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return nil
}
