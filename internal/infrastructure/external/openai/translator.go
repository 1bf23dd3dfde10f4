package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

var languageNames = map[entity.Lang]string{
	entity.LangEnglish: "English",
	entity.LangBengali: "Bengali (Bangla)",
}

// Config holds OpenAI client settings
type Config struct {
	APIKey  string
	BaseURL string // optional, for compatible gateways
	Model   string
	Timeout time.Duration
}

// Translator implements port.Translator with chat completions
type Translator struct {
	client  *openai.Client
	model   string
	prompts *PromptConfig
	logger  *zap.Logger
}

// NewTranslator creates a translator. A nil prompts value uses the built-in set.
func NewTranslator(cfg Config, prompts *PromptConfig, logger *zap.Logger) *Translator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Translator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		prompts: prompts,
		logger:  logger,
	}
}

type translationResponse struct {
	Translation string `json:"translation"`
}

// Translate returns text rendered in the target language
func (t *Translator) Translate(ctx context.Context, text string, from, to entity.Lang) (string, error) {
	fromName, ok := languageNames[from]
	if !ok {
		return "", fmt.Errorf("unsupported source language %q", from)
	}
	toName, ok := languageNames[to]
	if !ok {
		return "", fmt.Errorf("unsupported target language %q", to)
	}

	p := t.prompts.Translation
	userPrompt, err := renderTemplate(p.UserTemplate, map[string]string{
		"From": fromName,
		"To":   toName,
		"Text": text,
	})
	if err != nil {
		return "", err
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		t.logger.Error("OpenAI API call failed", zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	var out translationResponse
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		// models sometimes wrap the object in a markdown fence
		jsonStr := extractJSON(content)
		if jsonStr == "" || json.Unmarshal([]byte(jsonStr), &out) != nil {
			return "", fmt.Errorf("failed to parse translation response: %w", err)
		}
	}

	translated := strings.TrimSpace(out.Translation)
	if translated == "" {
		return "", fmt.Errorf("empty translation returned")
	}

	t.logger.Debug("Text translated",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("tokens", resp.Usage.TotalTokens))
	return translated, nil
}

// extractJSON returns the first balanced {...} object in content
func extractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

var _ port.Translator = (*Translator)(nil)
