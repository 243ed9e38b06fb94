package docproc

import (
	"fmt"
	"strings"

	"veridoc/internal/model"
	"veridoc/internal/pkg/pdfextract"
)

func parsePDF(path string) (*ParsedDocument, error) {
	pages, info, err := pdfextract.ExtractPages(path)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	doc := &ParsedDocument{
		Type: "pdf",
		Metadata: map[string]any{
			"pages":  info.Pages,
			"title":  info.Title,
			"author": info.Author,
		},
	}

	for _, page := range pages {
		text := strings.TrimSpace(page.Text)
		if text != "" {
			doc.Fragments = append(doc.Fragments, Fragment{
				Content:   text,
				Page:      page.Number,
				CharCount: len(page.Text),
			})
		}
		if page.HasImages {
			// Detected but not extracted; nil bytes route the image to
			// human review.
			doc.Images = append(doc.Images, model.EmbeddedImage{Page: page.Number})
		}
	}
	return doc, nil
}
