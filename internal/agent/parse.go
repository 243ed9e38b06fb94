package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// parseOrDefault unmarshals a structured model reply into T, stripping a
// surrounding code fence first. Any failure yields the supplied fallback, so
// every call site states its degraded default explicitly instead of
// duplicating error handling.
func parseOrDefault[T any](raw string, fallback T) T {
	raw = stripCodeBlock(raw)
	if raw == "" {
		return fallback
	}
	var parsed T
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fallback
	}
	return parsed
}
