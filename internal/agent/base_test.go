package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/ai"
)

func TestCompleteRetriesAfterTransportFailure(t *testing.T) {
	fake := &fakeCompleter{
		errs:    []error{errors.New("connection reset"), nil},
		replies: []string{"", "recovered"},
	}
	b := newBase(fake, "http://llm", "key", Options{Model: "m", MaxRetries: 1})

	text, err := b.complete(context.Background(), []ai.ChatMessage{ai.TextMessage("user", "hi")}, 100)
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 2, fake.calls)
}

func TestCompleteExhaustsRetryBudget(t *testing.T) {
	fail := errors.New("still down")
	fake := &fakeCompleter{errs: []error{fail, fail}}
	b := newBase(fake, "http://llm", "key", Options{Model: "m", MaxRetries: 1})

	_, err := b.complete(context.Background(), []ai.ChatMessage{ai.TextMessage("user", "hi")}, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, fail)
	assert.Equal(t, 2, fake.calls)
}

func TestCompleteSingleAttemptWithoutRetries(t *testing.T) {
	fake := &fakeCompleter{errs: []error{errors.New("down")}}
	b := newBase(fake, "http://llm", "key", Options{Model: "m"})

	_, err := b.complete(context.Background(), []ai.ChatMessage{ai.TextMessage("user", "hi")}, 100)
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestCompleteStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeCompleter{errs: []error{errors.New("down")}}
	b := newBase(fake, "http://llm", "key", Options{Model: "m", MaxRetries: 3})

	_, err := b.complete(ctx, []ai.ChatMessage{ai.TextMessage("user", "hi")}, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.calls)
}
