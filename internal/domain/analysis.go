package domain

import "time"

// Preview limits in characters for the two places extracted text is echoed back.
const (
	UploadPreviewLimit  = 200
	RankingPreviewLimit = 300
)

// MissingJobTitle is returned by history reads when the referenced job
// record no longer exists. Snapshots never enforce referential integrity.
const MissingJobTitle = "Job Title Not Found"

// RankingEntry is one candidate's position in a ranking run.
type RankingEntry struct {
	CandidateID string
	Filename    string
	Score       float64
	TextPreview string
	UploadedAt  time.Time
}

// AnalysisSnapshot is the immutable persisted record of one ranking run.
// Entries keep the authoritative order computed at creation time and must
// never be re-sorted on read.
type AnalysisSnapshot struct {
	ID         string
	JobID      string
	Owner      string
	AnalyzedAt time.Time
	Entries    []RankingEntry
}

// Preview truncates text to limit characters, appending an ellipsis marker
// when anything was cut. Texts at or under the limit are returned verbatim.
func Preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
