package chatui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"chatrelay/internal/models"
)

// ErrNetwork wraps transport failures reaching the relay server.
var ErrNetwork = errors.New("network failure")

// StatusError is a non-success answer from a relay endpoint.
type StatusError struct {
	Code    int
	Message string
	Detail  string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("relay returned %d: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("relay returned %d: %s", e.Code, e.Message)
}

// HTTPRelay calls the chat and transcription endpoints of a relay server.
type HTTPRelay struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRelay targets the relay server at baseURL.
func NewHTTPRelay(baseURL string, client *http.Client) *HTTPRelay {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRelay{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *HTTPRelay) Chat(ctx context.Context, message string, language models.Language) (string, error) {
	body, err := json.Marshal(map[string]string{
		"message":  message,
		"language": string(language),
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Reply string `json:"reply"`
	}
	if err := r.do(req, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (r *HTTPRelay) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", "recording.webm")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/transcribe", &body)
	if err != nil {
		return "", fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Text string `json:"text"`
	}
	if err := r.do(req, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}

func (r *HTTPRelay) do(req *http.Request, out any) error {
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error == "" {
			envelope.Error = strings.TrimSpace(string(data))
		}
		return &StatusError{Code: resp.StatusCode, Message: envelope.Error, Detail: envelope.Detail}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &StatusError{Code: resp.StatusCode, Message: "invalid response"}
	}
	return nil
}
