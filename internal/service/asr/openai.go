package asr

import (
	"context"
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"

	"chatrelay/internal/config"
	"chatrelay/internal/upstream"
)

// openAIBackend uses the OpenAI-compatible /audio/transcriptions endpoint.
type openAIBackend struct {
	client   *openai.Client
	model    string
	fileName string
	language string
}

func newOpenAIBackend(cfg config.ASRConfig, fileName string) *openAIBackend {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.URL != "" {
		clientConfig.BaseURL = cfg.URL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &openAIBackend{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		fileName: fileName,
		language: cfg.Language,
	}
}

func (b *openAIBackend) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	resp, err := b.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    b.model,
		FilePath: b.fileName,
		Reader:   audio,
		Language: b.language,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &upstream.StatusError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &upstream.StatusError{Status: reqErr.HTTPStatusCode, Body: reqErr.Error()}
		}
		return "", upstream.Classify(err)
	}
	return resp.Text, nil
}
