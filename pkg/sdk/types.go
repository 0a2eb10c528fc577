package resumerank

import "time"

// UploadFile is one resume file submitted for extraction and storage.
type UploadFile struct {
	Filename  string
	MediaType string
	Data      []byte
}

// UploadStatus is the processing outcome of a single uploaded file.
type UploadStatus string

// Upload status constants.
const (
	UploadStored  UploadStatus = "stored"
	UploadSkipped UploadStatus = "skipped"
	UploadFailed  UploadStatus = "failed"
)

// UploadResult is the per-file outcome of a batch upload.
type UploadResult struct {
	ID          string // set when Status is UploadStored
	Filename    string
	Status      UploadStatus
	TextPreview string // short extracted-text preview, empty unless stored
	Err         error  // skip reason or failure, nil when stored
}

// Candidate is a stored resume document summary.
type Candidate struct {
	ID          string
	Filename    string
	MediaType   string
	Size        int64
	TextPreview string
	UploadedAt  time.Time
}

// JobRequest describes the position candidates are ranked against.
// Leave CandidateIDs empty to rank every stored document.
type JobRequest struct {
	Title        string
	Description  string
	Requirements string
	CandidateIDs []string
}

// RankingEntry is one candidate's position in an analysis.
type RankingEntry struct {
	CandidateID string
	Filename    string
	Score       float64
	TextPreview string
	UploadedAt  time.Time
}

// Analysis is a persisted ranking snapshot. Entries are ordered by score
// descending, exactly as computed at analysis time.
type Analysis struct {
	ID         string
	JobID      string
	JobTitle   string
	AnalyzedAt time.Time
	Entries    []RankingEntry
}

// RecentUpload is a dashboard item for a recently stored document.
type RecentUpload struct {
	ID         string
	Filename   string
	UploadedAt time.Time
}

// Overview aggregates dashboard counters for one principal.
type Overview struct {
	Candidates    int
	Jobs          int
	Analyses      int
	RecentUploads []RecentUpload
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component -> "ok"/"error"
}
