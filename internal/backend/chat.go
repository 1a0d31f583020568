package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/locforge/locforge/internal/langs"
	"github.com/locforge/locforge/internal/prompt"
)

// cloudTimeout bounds one round trip to an internet-reachable provider.
const cloudTimeout = 30 * time.Second

// chatDefaults carries the per-provider endpoint and model defaults. All
// three cloud providers speak the same chat-completion dialect.
type chatDefaults struct {
	baseURL string
	model   string
}

var chatProviders = map[string]chatDefaults{
	"openai":   {baseURL: "https://api.openai.com/v1", model: "gpt-3.5-turbo"},
	"deepseek": {baseURL: "https://api.deepseek.com/v1", model: "deepseek-chat"},
	"qwen":     {baseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1", model: "qwen-turbo"},
}

// ChatBackend translates and reviews through an OpenAI-compatible
// chat-completion API.
type ChatBackend struct {
	provider    string
	model       string
	maxTokens   int
	temperature float32
	apiKeySet   bool
	client      *openai.Client
}

// NewChatBackend builds a backend for one of the cloud chat providers. Empty
// option fields fall back to the provider defaults. The API key requirement
// is checked per call so the constructor stays infallible for the registry.
func NewChatBackend(provider string, opts Options) *ChatBackend {
	def := chatProviders[provider]

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = def.baseURL
	}
	model := opts.Model
	if model == "" {
		model = def.model
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: cloudTimeout}

	b := &ChatBackend{
		provider:    provider,
		model:       model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		client:      openai.NewClientWithConfig(cfg),
	}
	if b.maxTokens <= 0 {
		b.maxTokens = defaultMaxTokens
	}
	if b.temperature <= 0 {
		b.temperature = defaultTemperature
	}
	b.apiKeySet = opts.APIKey != ""
	return b
}

func (b *ChatBackend) Name() string      { return b.provider }
func (b *ChatBackend) ModelName() string { return b.model }

func (b *ChatBackend) TranslateText(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if !b.apiKeySet {
		return "", &ConfigError{Provider: b.provider, Missing: "API key"}
	}

	p, markers := translationPrompt(text, sourceLang, targetLang)
	reply, err := b.complete(ctx, p, b.temperature)
	if err != nil {
		return "", err
	}
	return restoreTranslation(reply, markers), nil
}

func (b *ChatBackend) ReviewTranslation(ctx context.Context, original, translated, sourceLang, targetLang string) (*ReviewResult, error) {
	if !b.apiKeySet {
		return nil, &ConfigError{Provider: b.provider, Missing: "API key"}
	}

	p := prompt.Review(original, translated, langs.DisplayName(sourceLang), langs.DisplayName(targetLang))
	reply, err := b.complete(ctx, p, reviewTemperature)
	if err != nil {
		return nil, err
	}
	return parseReview(reply, translated), nil
}

// complete performs one chat-completion round trip and returns the trimmed
// assistant reply.
func (b *ChatBackend) complete(ctx context.Context, userPrompt string, temperature float32) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   b.maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &RequestError{Provider: b.provider, Status: apiErr.HTTPStatusCode, Detail: apiErr.Message, Cause: err}
		}
		return "", &RequestError{Provider: b.provider, Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &RequestError{Provider: b.provider, Detail: "empty choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}
