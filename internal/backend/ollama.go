package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/locforge/locforge/internal/langs"
	"github.com/locforge/locforge/internal/postprocess"
	"github.com/locforge/locforge/internal/prompt"
)

// localTimeout is deliberately generous: a cold model load on a local Ollama
// server can take well over a minute.
const localTimeout = 120 * time.Second

const defaultOllamaBaseURL = "http://127.0.0.1:11434"
const defaultOllamaModel = "qwen3:8b"

// OllamaBackend talks to a locally hosted Ollama server through its
// generate API.
type OllamaBackend struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float32
	client      *http.Client
}

// NewOllamaBackend builds a backend for a local Ollama server. Empty option
// fields fall back to the local defaults; no credentials are required.
func NewOllamaBackend(opts Options) *OllamaBackend {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultOllamaModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &OllamaBackend{
		baseURL:     baseURL,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		client:      &http.Client{Timeout: localTimeout},
	}
}

func (b *OllamaBackend) Name() string      { return "ollama" }
func (b *OllamaBackend) ModelName() string { return b.model }

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

func (b *OllamaBackend) TranslateText(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := b.checkModel(ctx); err != nil {
		return "", err
	}

	p, markers := translationPrompt(text, sourceLang, targetLang)
	reply, err := b.generate(ctx, p, b.temperature)
	if err != nil {
		return "", err
	}
	return restoreTranslation(reply, markers), nil
}

func (b *OllamaBackend) ReviewTranslation(ctx context.Context, original, translated, sourceLang, targetLang string) (*ReviewResult, error) {
	p := prompt.Review(original, translated, langs.DisplayName(sourceLang), langs.DisplayName(targetLang))
	reply, err := b.generate(ctx, p, reviewTemperature)
	if err != nil {
		return nil, err
	}
	// Reasoning models may wrap the JSON in an inline trace.
	return parseReview(postprocess.StripReasoning(reply), translated), nil
}

// checkModel is the pre-flight for the translate path: is the server up, and
// is the configured model installed. Failing fast here produces a far better
// error than a generate call timing out two minutes later.
func (b *OllamaBackend) checkModel(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/api/tags", nil)
	if err != nil {
		return &RequestError{Provider: b.Name(), Cause: err}
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return &RequestError{Provider: b.Name(), Detail: "server unreachable at " + b.baseURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RequestError{Provider: b.Name(), Status: resp.StatusCode, Detail: "tags endpoint"}
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return &RequestError{Provider: b.Name(), Detail: "malformed tags response", Cause: err}
	}

	available := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name == b.model {
			return nil
		}
		available = append(available, m.Name)
	}
	return &ModelNotFoundError{Model: b.model, Available: available}
}

// generate performs one non-streaming generate round trip and returns the
// trimmed response text.
func (b *OllamaBackend) generate(ctx context.Context, p string, temperature float32) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  b.model,
		Prompt: p,
		Stream: false,
		Options: ollamaOptions{
			Temperature: temperature,
			NumPredict:  b.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Provider: b.Name(), Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", &RequestError{Provider: b.Name(), Detail: "server unreachable at " + b.baseURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &RequestError{Provider: b.Name(), Status: resp.StatusCode, Detail: "generate endpoint"}
	}

	var generated struct {
		Response *string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", &RequestError{Provider: b.Name(), Detail: "malformed generate response", Cause: err}
	}
	if generated.Response == nil {
		// A 200 without the response field is still a broken reply.
		return "", &RequestError{Provider: b.Name(), Detail: "generate response missing response field"}
	}
	return *generated.Response, nil
}
