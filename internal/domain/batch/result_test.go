package batch

import (
	"errors"
	"testing"
)

func TestNewStored(t *testing.T) {
	r := NewStored("doc-1", "resume.pdf", "Go engineer, 5y")
	if r.Status() != StatusStored {
		t.Errorf("status = %s, want %s", r.Status(), StatusStored)
	}
	if r.ID() != "doc-1" || r.Filename() != "resume.pdf" {
		t.Errorf("unexpected identity: id=%q filename=%q", r.ID(), r.Filename())
	}
	if r.TextPreview() != "Go engineer, 5y" {
		t.Errorf("TextPreview() = %q", r.TextPreview())
	}
	if !r.Stored() {
		t.Error("Stored() = false for a stored result")
	}
	if r.Err() != nil {
		t.Errorf("unexpected error: %v", r.Err())
	}
}

func TestNewSkipped(t *testing.T) {
	reason := errors.New("unsupported media type")
	r := NewSkipped("photo.png", reason)
	if r.Status() != StatusSkipped {
		t.Errorf("status = %s, want %s", r.Status(), StatusSkipped)
	}
	if r.ID() != "" {
		t.Errorf("skipped result has id %q, want empty", r.ID())
	}
	if !errors.Is(r.Err(), reason) {
		t.Errorf("Err() = %v, want %v", r.Err(), reason)
	}
	if r.Stored() {
		t.Error("Stored() = true for a skipped result")
	}
}

func TestNewFailed(t *testing.T) {
	cause := errors.New("corrupt pdf")
	r := NewFailed("broken.pdf", cause)
	if r.Status() != StatusFailed {
		t.Errorf("status = %s, want %s", r.Status(), StatusFailed)
	}
	if !errors.Is(r.Err(), cause) {
		t.Errorf("Err() = %v, want %v", r.Err(), cause)
	}
}
