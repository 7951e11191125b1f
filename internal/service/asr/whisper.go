package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"chatrelay/internal/upstream"
)

// whisperBackend posts the clip as multipart form data to a whisper-style
// server that answers {"text": "..."}.
type whisperBackend struct {
	url       string
	fieldName string
	fileName  string
	model     string
	language  string
	client    *http.Client
}

func (b *whisperBackend) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(b.fieldName, b.fileName)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if b.model != "" {
		if err := mw.WriteField("model", b.model); err != nil {
			return "", fmt.Errorf("write model field: %w", err)
		}
	}
	if b.language != "" {
		if err := mw.WriteField("language", b.language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, &body)
	if err != nil {
		return "", fmt.Errorf("build asr request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

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
		return "", &upstream.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var out struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: %v", upstream.ErrInvalidResponse, err)
	}
	if out.Text == nil {
		return "", fmt.Errorf("%w: missing text field", upstream.ErrInvalidResponse)
	}
	return *out.Text, nil
}
