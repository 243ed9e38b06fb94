package agent

import (
	"context"
	"fmt"
	"strings"

	"veridoc/internal/ai"
	"veridoc/internal/model"
)

const generatorMaxTokens = 1500

// Generator produces a grounded answer from retrieved context.
type Generator struct {
	base
}

func NewGenerator(client Completer, baseURL, apiKey string, opts Options) *Generator {
	if opts.Temperature == 0 {
		opts.Temperature = 0.1
	}
	return &Generator{base: newBase(client, baseURL, apiKey, opts)}
}

// GeneratedAnswer carries the answer text and its heuristic confidence.
type GeneratedAnswer struct {
	Response   string  `json:"response"`
	Confidence float64 `json:"confidence"`
}

// Generate builds the grounded-answer prompt and calls the completion service.
// A non-nil error means the pipeline failed to produce any answer, not that
// the answer is low-confidence.
func (g *Generator) Generate(ctx context.Context, query string, chunks []model.RetrievedChunk, mc model.MultimodalContext) (*GeneratedAnswer, error) {
	var contextText strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			contextText.WriteString("\n")
		}
		contextText.WriteString(chunk.Content)
	}

	uncertaintyNote := ""
	if mc.HasMultimodalContent {
		uncertaintyNote = "\n\nIMPORTANT: The source documents contain images that may contain additional relevant information not captured in this text. Please acknowledge this limitation in your response if the images might be relevant to the question."
	}

	prompt := fmt.Sprintf(`Answer the following question based on the provided context. Be accurate and acknowledge any limitations.

Context:
%s

Question: %s

Instructions:
1. Base your answer strictly on the provided context
2. If information is incomplete, acknowledge the gaps
3. If you're uncertain, express that uncertainty
4. Do not make up information not present in the context
5. Cite specific parts of the context when possible%s

Answer:`, contextText.String(), query, uncertaintyNote)

	response, err := g.complete(ctx, []ai.ChatMessage{ai.TextMessage("user", prompt)}, generatorMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate answer failed: %w", err)
	}

	return &GeneratedAnswer{
		Response:   response,
		Confidence: HeuristicConfidence(response),
	}, nil
}
