package agent

import (
	"context"
	"strings"

	"veridoc/internal/ai"
)

// fakeCompleter returns scripted replies in call order. A nil entry in errs
// (or a shorter errs slice) means the call succeeds.
type fakeCompleter struct {
	replies []string
	errs    []error

	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage, _ int) (string, error) {
	idx := f.calls
	f.calls++
	f.prompts = append(f.prompts, flattenText(messages))

	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.replies) {
		return f.replies[idx], nil
	}
	return "", nil
}

func flattenText(messages []ai.ChatMessage) string {
	var parts []string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if part.Type == "text" {
				parts = append(parts, part.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
