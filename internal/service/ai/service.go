package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"chatrelay/internal/config"
	"chatrelay/internal/upstream"
)

// Backend sends one non-streaming chat completion and returns the reply text.
// An empty reply with a nil error means the backend answered without content.
type Backend interface {
	Complete(ctx context.Context, messages []*schema.Message) (string, error)
}

// New builds the chat backend selected by cfg.Backend. It returns
// upstream.ErrNotConfigured when the address or credential it needs is unset.
func New(ctx context.Context, cfg config.ChatConfig) (Backend, error) {
	var chatModel model.ToolCallingChatModel
	var err error

	switch cfg.Backend {
	case "", "ollama":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("ollama: %w", upstream.ErrNotConfigured)
		}
		return newOllamaBackend(cfg.BaseURL, cfg.Model, &http.Client{}), nil
	case "openai":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai: %w", upstream.ErrNotConfigured)
		}
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		})
	case "claude":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude: %w", upstream.ErrNotConfigured)
		}
		var baseURLPtr *string
		if cfg.BaseURL != "" {
			baseURLPtr = &cfg.BaseURL
		}
		maxTokens := cfg.MaxTokens
		if maxTokens <= 0 {
			maxTokens = 1024
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: maxTokens,
		})
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: %w", upstream.ErrNotConfigured)
		}
		client, clientErr := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.APIKey,
		})
		if clientErr != nil {
			return nil, fmt.Errorf("create gemini client: %w", clientErr)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("invalid chat backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", cfg.Backend, err)
	}
	return &einoBackend{chatModel: chatModel}, nil
}

// einoBackend adapts any eino chat model to Backend.
type einoBackend struct {
	chatModel model.BaseChatModel
}

func (b *einoBackend) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	reply, err := b.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", upstream.Classify(err)
	}
	if reply == nil {
		return "", nil
	}
	return reply.Content, nil
}
