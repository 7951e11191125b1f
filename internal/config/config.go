package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the relay server.
type Config struct {
	Server ServerConfig `json:"server"`
	Chat   ChatConfig   `json:"chat"`
	ASR    ASRConfig    `json:"asr"`
}

type ServerConfig struct {
	Address        string `json:"address" env:"SERVER_ADDRESS" env-default:":8090"`
	MaxUploadBytes int64  `json:"max_upload_bytes" env:"MAX_UPLOAD_BYTES" env-default:"26214400"`
}

// ChatConfig describes the upstream chat-completion service.
type ChatConfig struct {
	Backend   string `json:"backend" env:"CHAT_BACKEND" env-default:"ollama"`
	BaseURL   string `json:"base_url" env:"CHAT_BACKEND_URL"`
	Model     string `json:"model" env:"CHAT_MODEL" env-default:"llama3.1"`
	APIKey    string `json:"api_key" env:"CHAT_API_KEY"`
	MaxTokens int    `json:"max_tokens" env:"CHAT_MAX_TOKENS" env-default:"1024"`
}

// ASRConfig describes the upstream speech-recognition service.
type ASRConfig struct {
	Backend   string `json:"backend" env:"ASR_BACKEND" env-default:"whisper"`
	URL       string `json:"url" env:"ASR_URL"`
	APIKey    string `json:"api_key" env:"ASR_API_KEY"`
	FieldName string `json:"field_name" env:"ASR_FIELD" env-default:"file"`
	FileName  string `json:"file_name" env:"ASR_FILENAME" env-default:"recording.webm"`
	Model     string `json:"model" env:"ASR_MODEL"`
	Language  string `json:"language" env:"ASR_LANGUAGE"`
}

var (
	chatBackends = []string{"ollama", "openai", "claude", "gemini"}
	asrBackends  = []string{"whisper", "openai"}
)

// Load reads configuration from the optional JSON file at path (falling back to
// CHATRELAY_CONFIG), then applies environment overrides. A .env file in the
// working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		path = os.Getenv("CHATRELAY_CONFIG")
	}

	var cfg Config
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		if err := cleanenv.ReadConfig(absPath, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", absPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	cfg.normalize()
	if !contains(chatBackends, cfg.Chat.Backend) {
		return nil, fmt.Errorf("unknown chat backend %q", cfg.Chat.Backend)
	}
	if !contains(asrBackends, cfg.ASR.Backend) {
		return nil, fmt.Errorf("unknown asr backend %q", cfg.ASR.Backend)
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max_upload_bytes must be positive")
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Server.Address = strings.TrimSpace(c.Server.Address)
	c.Chat.Backend = strings.ToLower(strings.TrimSpace(c.Chat.Backend))
	c.Chat.BaseURL = strings.TrimRight(strings.TrimSpace(c.Chat.BaseURL), "/")
	c.Chat.Model = strings.TrimSpace(c.Chat.Model)
	c.ASR.Backend = strings.ToLower(strings.TrimSpace(c.ASR.Backend))
	c.ASR.URL = strings.TrimSpace(c.ASR.URL)
	c.ASR.FieldName = strings.TrimSpace(c.ASR.FieldName)
	c.ASR.FileName = strings.TrimSpace(c.ASR.FileName)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
