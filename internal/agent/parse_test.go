package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"veridoc/internal/model"
)

func TestParseOrDefaultPlainJSON(t *testing.T) {
	fallback := model.FactualCheck{Confidence: 0.3}
	parsed := parseOrDefault(`{"is_consistent": true, "confidence": 0.9}`, fallback)

	assert.True(t, parsed.IsConsistent)
	assert.InDelta(t, 0.9, parsed.Confidence, 1e-9)
}

func TestParseOrDefaultStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"is_consistent\": true, \"confidence\": 0.8}\n```"
	parsed := parseOrDefault(raw, model.FactualCheck{})

	assert.True(t, parsed.IsConsistent)
	assert.InDelta(t, 0.8, parsed.Confidence, 1e-9)
}

func TestParseOrDefaultStripsBareFence(t *testing.T) {
	raw := "```\n{\"confidence\": 0.4}\n```"
	parsed := parseOrDefault(raw, model.FactualCheck{})
	assert.InDelta(t, 0.4, parsed.Confidence, 1e-9)
}

func TestParseOrDefaultInvalidJSON(t *testing.T) {
	fallback := model.FactualCheck{IsConsistent: false, Confidence: 0.3, Issues: []string{"Could not parse verification result"}}
	parsed := parseOrDefault("the model rambled instead of returning JSON", fallback)
	assert.Equal(t, fallback, parsed)
}

func TestParseOrDefaultEmptyReply(t *testing.T) {
	fallback := model.GroundingCheck{IsGrounded: true, Confidence: 0.5}
	assert.Equal(t, fallback, parseOrDefault("", fallback))
	assert.Equal(t, fallback, parseOrDefault("   \n", fallback))
}
