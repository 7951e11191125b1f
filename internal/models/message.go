package models

import (
	"fmt"
	"strings"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry of a conversation. Only user and assistant entries are
// kept in a conversation history; system entries appear in upstream prompts.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Language is the reply language preference chosen by the user.
type Language string

const (
	LanguageAuto      Language = "auto"
	LanguageEnglish   Language = "english"
	LanguageMandarin  Language = "mandarin"
	LanguageCantonese Language = "cantonese"
	LanguageHokkien   Language = "hokkien"
	LanguageTeochew   Language = "teochew"
)

// Languages lists every accepted preference in display order.
var Languages = []Language{
	LanguageAuto,
	LanguageEnglish,
	LanguageMandarin,
	LanguageCantonese,
	LanguageHokkien,
	LanguageTeochew,
}

// ParseLanguage maps user input onto a Language. Empty input means auto.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LanguageAuto, nil
	}
	for _, lang := range Languages {
		if string(lang) == s {
			return lang, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", s)
}
