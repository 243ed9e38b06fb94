package docproc

import (
	"fmt"
	"os"
	"strings"
)

func parseText(path string, chunkSize, chunkOverlap int) (*ParsedDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}

	content := string(raw)
	doc := &ParsedDocument{
		Type: "txt",
		Metadata: map[string]any{
			"size":  len(content),
			"lines": strings.Count(content, "\n") + 1,
		},
	}
	if strings.TrimSpace(content) == "" {
		return doc, nil
	}

	for i, piece := range splitText(content, chunkSize, chunkOverlap) {
		doc.Fragments = append(doc.Fragments, Fragment{
			Content:   piece,
			Paragraph: i + 1,
			CharCount: len(piece),
		})
	}
	return doc, nil
}

// splitText cuts content into rune windows of size chunkSize, each starting
// chunkSize-overlap runes after the previous one.
func splitText(content string, chunkSize, overlap int) []string {
	runes := []rune(content)
	if len(runes) <= chunkSize {
		return []string{content}
	}

	step := chunkSize - overlap
	var pieces []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return pieces
}
