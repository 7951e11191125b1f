package relay

import (
	"context"
	"io"
	"strings"

	"chatrelay/internal/service/asr"
)

// TranscribeRelay forwards an audio clip to the speech-recognition backend.
type TranscribeRelay struct {
	transcriber asr.Transcriber
}

// NewTranscribeRelay builds a relay over transcriber. A nil transcriber makes
// every request fail as misconfigured.
func NewTranscribeRelay(transcriber asr.Transcriber) *TranscribeRelay {
	return &TranscribeRelay{transcriber: transcriber}
}

// Transcribe calls the backend once and returns the trimmed transcription,
// which may be empty.
func (r *TranscribeRelay) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if audio == nil {
		return "", badRequest("audio is required")
	}
	if r.transcriber == nil {
		return "", misconfigured("speech recognition address is not set")
	}
	text, err := r.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", fromBackend(err)
	}
	return strings.TrimSpace(text), nil
}
