package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// chatServer fakes an OpenAI-compatible chat-completion endpoint returning
// the given content for every request.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestChatBackend_TranslateText(t *testing.T) {
	server := chatServer(t, "生命值")
	defer server.Close()

	b := NewChatBackend("openai", Options{APIKey: "test-key", BaseURL: server.URL})

	got, err := b.TranslateText(context.Background(), "HP", "en", "zh")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if got != "生命值" {
		t.Errorf("expected 生命值, got %q", got)
	}
}

func TestChatBackend_TranslateText_CleansReply(t *testing.T) {
	server := chatServer(t, `"生命值"`)
	defer server.Close()

	b := NewChatBackend("qwen", Options{APIKey: "test-key", BaseURL: server.URL})

	got, err := b.TranslateText(context.Background(), "HP", "en", "zh")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if got != "生命值" {
		t.Errorf("expected unwrapped 生命值, got %q", got)
	}
}

func TestChatBackend_TranslateText_MissingKey(t *testing.T) {
	b := NewChatBackend("deepseek", Options{})

	_, err := b.TranslateText(context.Background(), "HP", "en", "zh")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Provider != "deepseek" {
		t.Errorf("expected provider deepseek, got %q", cfgErr.Provider)
	}
}

func TestChatBackend_TranslateText_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer server.Close()

	b := NewChatBackend("openai", Options{APIKey: "test-key", BaseURL: server.URL})

	_, err := b.TranslateText(context.Background(), "HP", "en", "zh")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", reqErr.Status)
	}
}

func TestChatBackend_TranslateText_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	b := NewChatBackend("openai", Options{APIKey: "test-key", BaseURL: server.URL})

	if _, err := b.TranslateText(context.Background(), "HP", "en", "zh"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestChatBackend_ReviewTranslation(t *testing.T) {
	review := `{"quality_score":9,"is_acceptable":true,"issues":[],"suggestions":[],"improved_translation":"生命值"}`
	server := chatServer(t, review)
	defer server.Close()

	b := NewChatBackend("openai", Options{APIKey: "test-key", BaseURL: server.URL})

	res, err := b.ReviewTranslation(context.Background(), "HP", "生命值", "en", "zh")
	if err != nil {
		t.Fatalf("ReviewTranslation failed: %v", err)
	}
	if res.QualityScore != 9 || !res.IsAcceptable {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Degraded() {
		t.Error("genuine review must not be marked degraded")
	}
}

func TestChatBackend_ReviewTranslation_NonJSONDegrades(t *testing.T) {
	server := chatServer(t, "this looks great, ship it")
	defer server.Close()

	b := NewChatBackend("openai", Options{APIKey: "test-key", BaseURL: server.URL})

	res, err := b.ReviewTranslation(context.Background(), "HP", "生命值", "en", "zh")
	if err != nil {
		t.Fatalf("unparsable review must not error: %v", err)
	}
	if res.QualityScore != 5 || !res.IsAcceptable {
		t.Errorf("expected degraded mid-range result, got %+v", res)
	}
	if len(res.Issues) == 0 {
		t.Error("expected a populated issues list")
	}
	if res.ImprovedTranslation != "生命值" {
		t.Errorf("improved translation must default to the input, got %q", res.ImprovedTranslation)
	}
	if res.RawResponse == "" {
		t.Error("expected verbatim reply preserved in RawResponse")
	}
}

func TestChatBackend_TranslateText_ProtectsFormatTokens(t *testing.T) {
	var seenPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			seenPrompt = req.Messages[0].Content
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "获得 [PH0] 金币"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	b := NewChatBackend("openai", Options{APIKey: "test-key", BaseURL: server.URL})

	got, err := b.TranslateText(context.Background(), "Gained %d gold", "en", "zh")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if got != "获得 %d 金币" {
		t.Errorf("marker not restored, got %q", got)
	}
	if !strings.Contains(seenPrompt, "[PH0]") {
		t.Errorf("prompt must carry the marker, not the raw verb: %q", seenPrompt)
	}
	if strings.Contains(seenPrompt, "%d") {
		t.Errorf("raw format verb leaked into prompt: %q", seenPrompt)
	}
}

func TestChatBackend_ProviderDefaults(t *testing.T) {
	cases := map[string]string{
		"openai":   "gpt-3.5-turbo",
		"deepseek": "deepseek-chat",
		"qwen":     "qwen-turbo",
	}
	for provider, model := range cases {
		b := NewChatBackend(provider, Options{APIKey: "k"})
		if b.Name() != provider {
			t.Errorf("Name() = %q, want %q", b.Name(), provider)
		}
		if b.ModelName() != model {
			t.Errorf("%s default model = %q, want %q", provider, b.ModelName(), model)
		}
	}
}
