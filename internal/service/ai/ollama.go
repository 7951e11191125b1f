package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"

	"chatrelay/internal/upstream"
)

type ollamaBackend struct {
	endpoint string
	model    string
	client   *http.Client
}

func newOllamaBackend(endpoint, model string, client *http.Client) *ollamaBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &ollamaBackend{endpoint: endpoint, model: model, client: client}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Stream   bool            `json:"stream"`
	Messages []ollamaMessage `json:"messages"`
}

type ollamaChatResponse struct {
	Message *ollamaMessage `json:"message"`
}

func (b *ollamaBackend) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	payload := ollamaChatRequest{
		Model:    b.model,
		Stream:   false,
		Messages: make([]ollamaMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		payload.Messages = append(payload.Messages, ollamaMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", upstream.Unreachable(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upstream.Unreachable(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &upstream.StatusError{Status: resp.StatusCode, Body: errorDetail(data)}
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: %v", upstream.ErrInvalidResponse, err)
	}
	if out.Message == nil {
		return "", nil
	}
	return out.Message.Content, nil
}

// errorDetail prefers the "error" field of a JSON error body and falls back to
// the raw text.
func errorDetail(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(body))
}
