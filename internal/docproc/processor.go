package docproc

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"veridoc/internal/model"
)

// ErrUnsupportedFormat rejects file types the processor cannot parse.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Fragment is one unit of extracted document text with its source locator.
// Page and Paragraph are 1-based; 0 means not applicable.
type Fragment struct {
	Content   string `json:"content"`
	Page      int    `json:"page,omitempty"`
	Paragraph int    `json:"paragraph,omitempty"`
	CharCount int    `json:"char_count"`
}

// ParsedDocument is the parsing result consumed by the ingestion pipeline.
type ParsedDocument struct {
	Type      string                `json:"type"`
	Fragments []Fragment            `json:"text_content"`
	Images    []model.EmbeddedImage `json:"images,omitempty"`
	Metadata  map[string]any        `json:"metadata,omitempty"`
}

// Processor parses supported document types into text fragments and embedded
// images. Parse errors are returned, never panicked. Plain-text input is split
// into overlapping fragments of roughly chunkSize runes.
type Processor struct {
	chunkSize    int
	chunkOverlap int
}

func NewProcessor(chunkSize, chunkOverlap int) *Processor {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &Processor{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// SupportedExtension reports whether Process can handle the extension
// (with leading dot, any case).
func SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".doc", ".txt", ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// Process dispatches on the file extension.
func (p *Processor) Process(path string) (*ParsedDocument, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return parsePDF(path)
	case ".docx", ".doc":
		return parseDOCX(path)
	case ".txt":
		return parseText(path, p.chunkSize, p.chunkOverlap)
	case ".png", ".jpg", ".jpeg", ".gif":
		return parseImage(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
