package candidate

import (
	"time"

	"github.com/hireloop/resumerank/internal/domain"
)

// dto is the stored JSON shape of a candidate document. Content is held as
// base64 (encoding/json default for []byte) next to the extracted text, so a
// document is one record with no blob side-channel.
type dto struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Filename  string    `json:"filename"`
	MediaType string    `json:"media_type"`
	Content   []byte    `json:"content"`
	Text      string    `json:"text"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(doc *domain.CandidateDocument) dto {
	return dto{
		ID:        doc.ID,
		Owner:     doc.Owner,
		Filename:  doc.Filename,
		MediaType: doc.MediaType,
		Content:   doc.Content,
		Text:      doc.Text,
		Size:      doc.Size,
		CreatedAt: doc.CreatedAt,
	}
}

func (d dto) toDomain() domain.CandidateDocument {
	return domain.CandidateDocument{
		ID:        d.ID,
		Owner:     d.Owner,
		Filename:  d.Filename,
		MediaType: d.MediaType,
		Content:   d.Content,
		Text:      d.Text,
		Size:      d.Size,
		CreatedAt: d.CreatedAt,
	}
}
