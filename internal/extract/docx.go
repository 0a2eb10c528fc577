package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hireloop/resumerank/internal/domain"
)

// DOCX extracts text from word-processor documents (OOXML). A .docx file is
// a ZIP archive; the text lives in word/document.xml as paragraphs of runs.
type DOCX struct{}

// NewDOCX creates a DOCX extractor.
func NewDOCX() *DOCX {
	return &DOCX{}
}

// MediaType implements Extractor.
func (*DOCX) MediaType() string { return domain.MediaTypeDOCX }

// Extract concatenates paragraph text in document order, separated by newlines.
func (*DOCX) Extract(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewExtractionError("docx", err)
	}

	content, err := readDocumentXML(reader)
	if err != nil {
		return "", domain.NewExtractionError("docx", err)
	}
	if content == nil {
		return "", domain.NewExtractionError("docx", errors.New("missing word/document.xml"))
	}

	text, err := parseDocumentXML(content)
	if err != nil {
		return "", domain.NewExtractionError("docx", err)
	}
	return text, nil
}

// readDocumentXML returns the raw bytes of word/document.xml, or nil when absent.
func readDocumentXML(reader *zip.Reader) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		return content, nil
	}
	return nil, nil
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts paragraph text joined by newlines.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var sb strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				sb.WriteString(t.Content)
			}
		}
	}
	return sb.String(), nil
}
