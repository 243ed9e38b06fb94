package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteractionFlagListRoundTrip(t *testing.T) {
	var interaction Interaction
	interaction.SetFlagList([]string{FlagFactualInconsistency, FlagOverconfidence})

	assert.Equal(t, `["factual_inconsistency","overconfidence"]`, interaction.Flags)
	assert.Equal(t, []string{FlagFactualInconsistency, FlagOverconfidence}, interaction.FlagList())
}

func TestInteractionFlagListEmpty(t *testing.T) {
	var interaction Interaction
	interaction.SetFlagList(nil)
	assert.Equal(t, "[]", interaction.Flags)
	assert.Empty(t, interaction.FlagList())

	interaction.Flags = ""
	assert.Nil(t, interaction.FlagList())
}

func TestEmbeddedImageProcessable(t *testing.T) {
	assert.False(t, EmbeddedImage{}.Processable())
	assert.True(t, EmbeddedImage{Data: []byte{1}}.Processable())
}

func TestEmbeddedImageMediaType(t *testing.T) {
	assert.Equal(t, "image/png", EmbeddedImage{Format: "png"}.MediaType())
	assert.Equal(t, "image/gif", EmbeddedImage{Format: "gif"}.MediaType())
	assert.Equal(t, "image/jpeg", EmbeddedImage{Format: "jpeg"}.MediaType())
	assert.Equal(t, "image/jpeg", EmbeddedImage{}.MediaType())
}
