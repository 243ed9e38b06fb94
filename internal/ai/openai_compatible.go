package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ContentPart is one element of a multimodal message: a text fragment or an
// inline image given as a base64 data URL.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// ChatMessage is one role-tagged turn. A single text part is sent as a plain
// string content for compatibility with providers that reject part arrays.
type ChatMessage struct {
	Role  string
	Parts []ContentPart
}

// TextMessage builds a plain text turn.
func TextMessage(role, text string) ChatMessage {
	return ChatMessage{Role: role, Parts: []ContentPart{{Type: "text", Text: text}}}
}

// ImagePart builds an inline-image content part from raw bytes.
func ImagePart(data []byte, mediaType string) ContentPart {
	encoded := base64.StdEncoding.EncodeToString(data)
	return ContentPart{
		Type:     "image_url",
		ImageURL: &ImageURL{URL: "data:" + mediaType + ";base64," + encoded},
	}
}

func (m ChatMessage) MarshalJSON() ([]byte, error) {
	wire := struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}{Role: m.Role}

	if len(m.Parts) == 1 && m.Parts[0].Type == "text" {
		wire.Content = m.Parts[0].Text
	} else {
		wire.Content = m.Parts
	}
	return json.Marshal(wire)
}

type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

type OpenAICompatibleClient struct {
	httpClient *http.Client
}

func NewOpenAICompatibleClient() *OpenAICompatibleClient {
	return &OpenAICompatibleClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Complete sends the messages to the chat completions endpoint and returns the
// first choice's content. maxTokens <= 0 leaves the output budget to the provider.
func (c *OpenAICompatibleClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage, maxTokens int) (string, error) {
	reqBody := map[string]interface{}{
		"model":       cfg.Model,
		"messages":    messages,
		"temperature": cfg.Temperature,
		"stream":      false,
	}
	if maxTokens > 0 {
		reqBody["max_tokens"] = maxTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
