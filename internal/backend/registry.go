package backend

import (
	"fmt"
	"sort"
)

// Defaults shared by every provider unless overridden per backend.
const (
	defaultMaxTokens   = 2000
	defaultTemperature = 0.3
	// reviewTemperature is fixed: review output must be stable enough to
	// carry a parseable JSON payload.
	reviewTemperature = 0.3
)

// Options configures a backend picked from the registry. Zero values fall
// back to the provider's defaults.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// factories maps a provider identifier to its constructor, preserving
// "pick a named provider at runtime" ergonomics without a class hierarchy.
var factories = map[string]func(Options) Backend{
	"openai":   func(o Options) Backend { return NewChatBackend("openai", o) },
	"deepseek": func(o Options) Backend { return NewChatBackend("deepseek", o) },
	"qwen":     func(o Options) Backend { return NewChatBackend("qwen", o) },
	"ollama":   func(o Options) Backend { return NewOllamaBackend(o) },
}

// New constructs the backend for a named provider. Unknown providers are a
// configuration error.
func New(provider string, opts Options) (Backend, error) {
	factory, ok := factories[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q (available: %v)", provider, Providers())
	}
	return factory(opts), nil
}

// Providers lists the registered provider identifiers in sorted order.
func Providers() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
