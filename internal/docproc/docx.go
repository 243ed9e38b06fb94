package docproc

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"veridoc/internal/model"
)

func parseDOCX(path string) (*ParsedDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	parsed, err := docx.Parse(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &ParsedDocument{Type: "docx"}

	paragraphCount := 0
	imageCount := 0
	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		paragraphCount++

		text, hasDrawing := paragraphContent(para)
		if text != "" {
			doc.Fragments = append(doc.Fragments, Fragment{
				Content:   text,
				Paragraph: paragraphCount,
				CharCount: len(text),
			})
		}
		if hasDrawing {
			imageCount++
			// Inline images are detected but left unextracted.
			doc.Images = append(doc.Images, model.EmbeddedImage{})
		}
	}

	doc.Metadata = map[string]any{
		"paragraphs": paragraphCount,
		"images":     imageCount,
	}
	return doc, nil
}

func paragraphContent(para *docx.Paragraph) (string, bool) {
	var buf strings.Builder
	hasDrawing := false
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Drawing:
				hasDrawing = true
			}
		}
	}
	return strings.TrimSpace(buf.String()), hasDrawing
}
