package agent

import (
	"context"
	"fmt"
	"strings"

	"veridoc/internal/ai"
	"veridoc/internal/model"
)

// Verifier re-checks a generated answer for factual support. It runs three
// independent sub-checks and aggregates by minimum confidence, so one severe
// issue cannot be averaged away.
type Verifier struct {
	base
	confidenceThreshold float64
}

func NewVerifier(client Completer, baseURL, apiKey string, confidenceThreshold float64, opts Options) *Verifier {
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.7
	}
	return &Verifier{
		base:                newBase(client, baseURL, apiKey, opts),
		confidenceThreshold: confidenceThreshold,
	}
}

// Verify never fails: each sub-check substitutes its documented default when
// the completion service is unusable or the reply does not parse.
func (v *Verifier) Verify(ctx context.Context, response string, chunks []model.RetrievedChunk, query string) *model.Verification {
	contextText := joinChunkContents(chunks)

	factual := v.checkFactualConsistency(ctx, response, contextText)
	grounding := v.checkContextGrounding(ctx, response, contextText, len(chunks) > 0)
	uncertainty := v.checkUncertaintyHandling(ctx, response, query)

	overall := minConfidence(factual.Confidence, grounding.Confidence, uncertainty.Confidence)

	return &model.Verification{
		Verified:       overall >= v.confidenceThreshold,
		Confidence:     overall,
		Factual:        factual,
		Grounding:      grounding,
		Uncertainty:    uncertainty,
		Recommendation: recommendation(overall),
		Flags:          collectFlags(factual, grounding, uncertainty),
	}
}

func (v *Verifier) checkFactualConsistency(ctx context.Context, response, contextText string) model.FactualCheck {
	// Pessimistic default: an unparseable consistency check must not pass.
	fallback := model.FactualCheck{
		IsConsistent: false,
		Confidence:   0.3,
		Issues:       []string{"Could not parse verification result"},
	}

	prompt := fmt.Sprintf(`Compare the response with the provided context and check for factual consistency.

Context:
%s

Response:
%s

Check for:
1. Any claims not supported by the context
2. Contradictions with the context
3. Invented details or hallucinations

Respond in JSON:
{
    "is_consistent": true|false,
    "confidence": 0.0-1.0,
    "issues": ["list of specific issues"],
    "unsupported_claims": ["list of unsupported claims"]
}`, contextText, response)

	reply, err := v.complete(ctx, []ai.ChatMessage{ai.TextMessage("user", prompt)}, 800)
	if err != nil {
		return fallback
	}
	check := parseOrDefault(reply, fallback)
	check.Confidence = clamp01(check.Confidence)
	return check
}

func (v *Verifier) checkContextGrounding(ctx context.Context, response, contextText string, hasContext bool) model.GroundingCheck {
	if !hasContext {
		return model.GroundingCheck{
			IsGrounded: false,
			Confidence: 0.0,
			Coverage:   0.0,
			Notes:      "No context provided",
		}
	}

	// Neutral default: grounding is advisory, unlike the factual check.
	fallback := model.GroundingCheck{
		IsGrounded: true,
		Confidence: 0.5,
		Coverage:   0.5,
		Notes:      "Could not evaluate grounding",
	}

	prompt := fmt.Sprintf(`Evaluate how well the response is grounded in the provided context.

Context:
%s

Response:
%s

Rate:
1. Grounding quality (0.0-1.0)
2. Context coverage utilization
3. Any gaps between context and response

Respond in JSON:
{
    "is_grounded": true|false,
    "confidence": 0.0-1.0,
    "coverage": 0.0-1.0,
    "notes": "explanation"
}`, contextText, response)

	reply, err := v.complete(ctx, []ai.ChatMessage{ai.TextMessage("user", prompt)}, 600)
	if err != nil {
		return fallback
	}
	check := parseOrDefault(reply, fallback)
	check.Confidence = clamp01(check.Confidence)
	return check
}

func (v *Verifier) checkUncertaintyHandling(ctx context.Context, response, query string) model.UncertaintyCheck {
	fallback := model.UncertaintyCheck{
		HandlesUncertainty:     true,
		Confidence:             0.5,
		OverconfidenceDetected: false,
		Notes:                  "Could not evaluate uncertainty handling",
	}

	prompt := fmt.Sprintf(`Evaluate how well the response handles uncertainty and knowledge gaps.

Query: %s
Response: %s

Check if the response:
1. Acknowledges limitations when appropriate
2. Avoids overconfident claims
3. Indicates when information is incomplete

Respond in JSON:
{
    "handles_uncertainty": true|false,
    "confidence": 0.0-1.0,
    "overconfidence_detected": true|false,
    "notes": "explanation"
}`, query, response)

	reply, err := v.complete(ctx, []ai.ChatMessage{ai.TextMessage("user", prompt)}, 500)
	if err != nil {
		return fallback
	}
	check := parseOrDefault(reply, fallback)
	check.Confidence = clamp01(check.Confidence)
	return check
}

func recommendation(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return model.RecommendationAccept
	case confidence >= 0.6:
		return model.RecommendationReview
	default:
		return model.RecommendationReject
	}
}

func collectFlags(factual model.FactualCheck, grounding model.GroundingCheck, uncertainty model.UncertaintyCheck) []string {
	var flags []string
	if !factual.IsConsistent {
		flags = append(flags, model.FlagFactualInconsistency)
	}
	if !grounding.IsGrounded {
		flags = append(flags, model.FlagPoorGrounding)
	}
	if uncertainty.OverconfidenceDetected {
		flags = append(flags, model.FlagOverconfidence)
	}
	if len(factual.UnsupportedClaims) > 0 {
		flags = append(flags, model.FlagUnsupportedClaims)
	}
	return flags
}

func minConfidence(values ...float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func joinChunkContents(chunks []model.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.Content
	}
	return strings.Join(parts, "\n")
}
