package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/model"
)

func verifierChunks() []model.RetrievedChunk {
	return []model.RetrievedChunk{{Content: "Paris is the capital of France."}}
}

func TestVerifyAllChecksPass(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"is_consistent": true, "confidence": 0.9}`,
		`{"is_grounded": true, "confidence": 0.85, "coverage": 0.8}`,
		`{"handles_uncertainty": true, "confidence": 0.95, "overconfidence_detected": false}`,
	}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(),
		"Paris is the capital of France.", verifierChunks(), "What is the capital of France?")

	assert.True(t, verification.Verified)
	assert.InDelta(t, 0.85, verification.Confidence, 1e-9)
	assert.Equal(t, model.RecommendationAccept, verification.Recommendation)
	assert.Empty(t, verification.Flags)
	assert.Equal(t, 3, fake.calls)
}

func TestVerifyOverallConfidenceIsMinimum(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"is_consistent": true, "confidence": 0.9}`,
		`{"is_grounded": true, "confidence": 0.4, "coverage": 0.3}`,
		`{"handles_uncertainty": true, "confidence": 0.9}`,
	}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", verifierChunks(), "question")

	assert.False(t, verification.Verified)
	assert.InDelta(t, 0.4, verification.Confidence, 1e-9)
	assert.Equal(t, model.RecommendationReject, verification.Recommendation)
}

func TestVerifyReviewBand(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"is_consistent": true, "confidence": 0.65}`,
		`{"is_grounded": true, "confidence": 0.9, "coverage": 0.9}`,
		`{"handles_uncertainty": true, "confidence": 0.9}`,
	}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", verifierChunks(), "question")

	assert.False(t, verification.Verified)
	assert.Equal(t, model.RecommendationReview, verification.Recommendation)
}

func TestVerifyCollectsFlags(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"is_consistent": false, "confidence": 0.4, "issues": ["contradiction"], "unsupported_claims": ["invented fact"]}`,
		`{"is_grounded": false, "confidence": 0.3, "coverage": 0.2}`,
		`{"handles_uncertainty": false, "confidence": 0.5, "overconfidence_detected": true}`,
	}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", verifierChunks(), "question")

	assert.False(t, verification.Verified)
	assert.ElementsMatch(t, []string{
		model.FlagFactualInconsistency,
		model.FlagPoorGrounding,
		model.FlagOverconfidence,
		model.FlagUnsupportedClaims,
	}, verification.Flags)
}

func TestVerifyNoContextShortCircuitsGrounding(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"is_consistent": true, "confidence": 0.9}`,
		`{"handles_uncertainty": true, "confidence": 0.9}`,
	}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", nil, "question")

	// The grounding check is decided locally, so only two completions run.
	assert.Equal(t, 2, fake.calls)
	assert.False(t, verification.Verified)
	assert.Equal(t, 0.0, verification.Confidence)
	assert.Contains(t, verification.Flags, model.FlagPoorGrounding)
	assert.Equal(t, "No context provided", verification.Grounding.Notes)
}

func TestVerifyParseFailuresUseDocumentedDefaults(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"not json", "not json", "not json"}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", verifierChunks(), "question")

	assert.False(t, verification.Verified)
	assert.InDelta(t, 0.3, verification.Confidence, 1e-9)
	assert.Equal(t, model.RecommendationReject, verification.Recommendation)

	assert.False(t, verification.Factual.IsConsistent)
	assert.Equal(t, []string{"Could not parse verification result"}, verification.Factual.Issues)
	assert.True(t, verification.Grounding.IsGrounded)
	assert.InDelta(t, 0.5, verification.Grounding.Confidence, 1e-9)
	assert.True(t, verification.Uncertainty.HandlesUncertainty)
	assert.False(t, verification.Uncertainty.OverconfidenceDetected)

	assert.Equal(t, []string{model.FlagFactualInconsistency}, verification.Flags)
}

func TestVerifyTransportFailuresNeverPropagate(t *testing.T) {
	fail := errors.New("upstream down")
	fake := &fakeCompleter{errs: []error{fail, fail, fail}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", verifierChunks(), "question")

	require.NotNil(t, verification)
	assert.False(t, verification.Verified)
	assert.InDelta(t, 0.3, verification.Confidence, 1e-9)
}

func TestVerifyAcceptAtExactThreshold(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"is_consistent": true, "confidence": 0.8}`,
		`{"is_grounded": true, "confidence": 0.8, "coverage": 0.8}`,
		`{"handles_uncertainty": true, "confidence": 0.8}`,
	}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", verifierChunks(), "question")

	assert.True(t, verification.Verified)
	assert.Equal(t, model.RecommendationAccept, verification.Recommendation)
}

func TestVerifyClampsOutOfRangeSubCheckConfidence(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"is_consistent": true, "confidence": 1.4}`,
		`{"is_grounded": true, "confidence": 0.9, "coverage": 0.9}`,
		`{"handles_uncertainty": true, "confidence": 0.9}`,
	}}
	verifier := NewVerifier(fake, "http://llm", "key", 0.7, Options{Model: "verify"})

	verification := verifier.Verify(context.Background(), "answer", verifierChunks(), "question")

	assert.InDelta(t, 1.0, verification.Factual.Confidence, 1e-9)
	assert.InDelta(t, 0.9, verification.Confidence, 1e-9)
}
