package agent

import (
	"context"
	"log"
	"time"

	"veridoc/internal/ai"
)

// Completer is the narrow seam to the language-model completion service.
// *ai.OpenAICompatibleClient satisfies it; tests supply deterministic fakes.
type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, maxTokens int) (string, error)
}

// Options configure one agent role.
type Options struct {
	Model       string
	Temperature float64
	// MaxRetries is the number of additional attempts after a failed
	// completion call; 0 means a single attempt.
	MaxRetries int
}

type base struct {
	client  Completer
	chat    ai.ChatConfig
	retries int
}

func newBase(client Completer, baseURL, apiKey string, opts Options) base {
	return base{
		client: client,
		chat: ai.ChatConfig{
			BaseURL:     baseURL,
			APIKey:      apiKey,
			Model:       opts.Model,
			Temperature: opts.Temperature,
		},
		retries: opts.MaxRetries,
	}
}

// complete issues the completion call, retrying transport failures with
// capped exponential backoff. Callers treat an error as "service unusable"
// and fall back to their documented degraded default.
func (b base) complete(ctx context.Context, messages []ai.ChatMessage, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= b.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff(attempt - 1)):
			}
		}
		text, err := b.client.Complete(ctx, b.chat, messages, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Printf("agent completion attempt %d failed: %v", attempt+1, err)
	}
	return "", lastErr
}

// backoff returns the wait before retry n (0-indexed), capped at 5s.
func backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
