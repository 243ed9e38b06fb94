package agent

import (
	"context"
	"fmt"

	"veridoc/internal/ai"
	"veridoc/internal/model"
)

const classifierMaxTokens = 500

// ImageClassifier rates embedded document images for downstream routing.
type ImageClassifier struct {
	base
}

func NewImageClassifier(client Completer, baseURL, apiKey string, opts Options) *ImageClassifier {
	if opts.Temperature == 0 {
		opts.Temperature = 0.1
	}
	return &ImageClassifier{base: newBase(client, baseURL, apiKey, opts)}
}

// Classify analyzes each processable image with one multimodal completion
// call and derives the document routing decision. It never fails: unusable
// replies degrade to a cautious default per image.
func (a *ImageClassifier) Classify(ctx context.Context, images []model.EmbeddedImage, documentContext string) *model.ImageAnalysis {
	if len(images) == 0 {
		return &model.ImageAnalysis{
			HasImages:       false,
			RoutingDecision: model.RoutingTextOnly,
		}
	}

	insights := make([]model.ImageInsight, 0, len(images))
	for _, img := range images {
		if img.Processable() {
			insights = append(insights, a.analyzeImage(ctx, img, documentContext))
		} else {
			insights = append(insights, model.ImageInsight{
				Type:           "unprocessable",
				Importance:     model.ImportanceUnknown,
				Recommendation: model.RecommendHumanReview,
			})
		}
	}

	requiresReview := false
	for _, insight := range insights {
		if insight.Importance == model.ImportanceCritical {
			requiresReview = true
			break
		}
	}

	return &model.ImageAnalysis{
		HasImages:           true,
		Insights:            insights,
		RoutingDecision:     determineRouting(insights),
		RequiresHumanReview: requiresReview,
	}
}

func (a *ImageClassifier) analyzeImage(ctx context.Context, img model.EmbeddedImage, documentContext string) model.ImageInsight {
	// Biased toward caution: an unreadable reply marks the image as
	// potentially essential rather than silently unimportant.
	fallback := model.ImageInsight{
		Type:                  "unknown",
		Importance:            model.ImportanceModerate,
		ContainsEssentialInfo: true,
		Recommendation:        model.RecommendFlagUncertainty,
		Description:           "Could not analyze image",
		Confidence:            0.1,
	}

	prompt := fmt.Sprintf(`Analyze this image in the context of the document.

Document context: %s

Please determine:
1. Image type (chart, diagram, photo, table, etc.)
2. Importance level (critical, moderate, low)
3. Whether the image contains essential information not available in text
4. Recommended action (process_with_text, defer_to_human, flag_uncertainty)

Respond in JSON format:
{
    "type": "chart|diagram|photo|table|other",
    "importance": "critical|moderate|low",
    "contains_essential_info": true|false,
    "recommendation": "process_with_text|defer_to_human|flag_uncertainty",
    "description": "brief description",
    "confidence": 0.0-1.0
}`, documentContext)

	messages := []ai.ChatMessage{{
		Role: "user",
		Parts: []ai.ContentPart{
			{Type: "text", Text: prompt},
			ai.ImagePart(img.Data, img.MediaType()),
		},
	}}

	response, err := a.complete(ctx, messages, classifierMaxTokens)
	if err != nil {
		return fallback
	}
	return parseOrDefault(response, fallback)
}

// determineRouting maps the per-image insights to a document routing
// decision. The half boundary is strict: essential info in exactly half of
// the images does not force multimodal processing.
func determineRouting(insights []model.ImageInsight) string {
	if len(insights) == 0 {
		return model.RoutingTextOnly
	}

	var critical, essential int
	for _, insight := range insights {
		if insight.Importance == model.ImportanceCritical {
			critical++
		}
		if insight.ContainsEssentialInfo {
			essential++
		}
	}

	switch {
	case critical > 0 || float64(essential) > float64(len(insights))/2:
		return model.RoutingMultimodalRequired
	case essential > 0:
		return model.RoutingHybridProcessing
	default:
		return model.RoutingTextPrimary
	}
}
