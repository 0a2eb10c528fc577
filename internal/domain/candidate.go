package domain

import "time"

// Key prefix for all persisted records.
const KeyPrefix = "resumerank:"

// Supported upload media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// CandidateDocument is an uploaded file whose extracted text is matched
// against job text. Immutable after creation: a re-upload produces a new
// document, never an in-place edit.
type CandidateDocument struct {
	ID        string
	Owner     string
	Filename  string
	MediaType string
	Content   []byte
	Text      string
	Size      int64
	CreatedAt time.Time
}
