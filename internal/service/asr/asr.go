package asr

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"chatrelay/internal/config"
	"chatrelay/internal/upstream"
)

// Transcriber forwards one audio clip to a speech-recognition backend and
// returns the raw transcription text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// New builds the transcriber selected by cfg.Backend. It returns
// upstream.ErrNotConfigured when the address or credential it needs is unset.
func New(cfg config.ASRConfig) (Transcriber, error) {
	fileName := cfg.FileName
	if fileName == "" {
		fileName = "recording.webm"
	}
	switch cfg.Backend {
	case "", "whisper":
		if cfg.URL == "" {
			return nil, fmt.Errorf("whisper: %w", upstream.ErrNotConfigured)
		}
		fieldName := cfg.FieldName
		if fieldName == "" {
			fieldName = "file"
		}
		return &whisperBackend{
			url:       cfg.URL,
			fieldName: fieldName,
			fileName:  fileName,
			model:     cfg.Model,
			language:  cfg.Language,
			client:    &http.Client{},
		}, nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai asr: %w", upstream.ErrNotConfigured)
		}
		return newOpenAIBackend(cfg, fileName), nil
	default:
		return nil, fmt.Errorf("invalid asr backend: %s", cfg.Backend)
	}
}
