// Package extract converts uploaded document bytes into plain text.
// Extractors are pure: same bytes in, same text out, no side effects.
package extract

import (
	"fmt"

	"github.com/hireloop/resumerank/internal/domain"
)

// Extractor recovers plain text from one document format.
type Extractor interface {
	// MediaType returns the MIME type this extractor handles.
	MediaType() string
	// Extract converts document bytes to plain text. A malformed document
	// returns an error wrapping domain.ErrExtractionFailed; a well-formed
	// document with no text layer legitimately yields "".
	Extract(data []byte) (string, error)
}

// Set dispatches extraction by declared media type.
type Set struct {
	byType map[string]Extractor
}

// NewSet creates a dispatch set over the given extractors.
func NewSet(extractors ...Extractor) *Set {
	byType := make(map[string]Extractor, len(extractors))
	for _, e := range extractors {
		byType[e.MediaType()] = e
	}
	return &Set{byType: byType}
}

// DefaultSet returns the supported capability set: PDF and DOCX.
func DefaultSet() *Set {
	return NewSet(NewPDF(), NewDOCX())
}

// Supported reports whether mediaType has a registered extractor.
func (s *Set) Supported(mediaType string) bool {
	_, ok := s.byType[mediaType]
	return ok
}

// Extract dispatches to the extractor registered for mediaType.
func (s *Set) Extract(data []byte, mediaType string) (string, error) {
	e, ok := s.byType[mediaType]
	if !ok {
		return "", fmt.Errorf("%q: %w", mediaType, domain.ErrUnsupportedMediaType)
	}
	return e.Extract(data)
}
