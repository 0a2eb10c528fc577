// Package batch models per-item outcomes of multi-document operations.
// Individual failures are collected, never raised, so one corrupt upload
// cannot abort the rest of the batch.
package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusStored  ItemStatus = "stored"
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	id          string
	filename    string
	textPreview string
	status      ItemStatus
	err         error
}

// NewStored creates a successful batch result carrying a short preview of
// the extracted text.
func NewStored(id, filename, textPreview string) Result {
	return Result{id: id, filename: filename, textPreview: textPreview, status: StatusStored}
}

// NewSkipped creates a result for an item rejected before extraction
// (unsupported media type, empty or oversized content).
func NewSkipped(filename string, reason error) Result {
	return Result{filename: filename, status: StatusSkipped, err: reason}
}

// NewFailed creates a result for an item that failed during processing.
func NewFailed(filename string, err error) Result {
	return Result{filename: filename, status: StatusFailed, err: err}
}

// ID returns the stored document identifier, empty unless StatusStored.
func (r Result) ID() string { return r.id }

// Filename returns the original upload filename.
func (r Result) Filename() string { return r.filename }

// TextPreview returns a short preview of the extracted text, empty unless
// StatusStored.
func (r Result) TextPreview() string { return r.textPreview }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the skip reason or failure, if any.
func (r Result) Err() error { return r.err }

// Stored reports whether the item produced a persisted document.
func (r Result) Stored() bool { return r.status == StatusStored }
