package relay

import (
	"context"
	"strings"

	"chatrelay/internal/models"
	"chatrelay/internal/service/ai"
)

// ChatRelay forwards a user message to the chat backend wrapped in the fixed
// persona prompt. It holds no per-request state.
type ChatRelay struct {
	backend ai.Backend
}

// NewChatRelay builds a relay over backend. A nil backend makes every
// request fail as misconfigured.
func NewChatRelay(backend ai.Backend) *ChatRelay {
	return &ChatRelay{backend: backend}
}

// Reply validates the request, calls the backend once and returns the reply.
func (r *ChatRelay) Reply(ctx context.Context, message, language string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", badRequest("message is required")
	}
	lang, err := models.ParseLanguage(language)
	if err != nil {
		return "", badRequest(err.Error())
	}
	if r.backend == nil {
		return "", misconfigured("chat backend address is not set")
	}

	reply, err := r.backend.Complete(ctx, ai.BuildMessages(message, lang))
	if err != nil {
		return "", fromBackend(err)
	}
	if strings.TrimSpace(reply) == "" {
		return ai.FallbackReply, nil
	}
	return reply, nil
}
