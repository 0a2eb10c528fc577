package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hireloop/resumerank/internal/domain"
)

// PDF extracts text from PDF documents, page by page in document order.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// MediaType implements Extractor.
func (*PDF) MediaType() string { return domain.MediaTypePDF }

// Extract concatenates the text of every page. Pages without an extractable
// text layer (scanned images) contribute an empty string instead of failing
// the whole document.
func (*PDF) Extract(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.NewExtractionError("pdf", fmt.Errorf("panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewExtractionError("pdf", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// No text layer on this page; keep going.
			continue
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
