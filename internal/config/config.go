// Package config loads application settings from a YAML file, environment
// variables and built-in defaults, in that order of increasing precedence
// for the environment and decreasing for the file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/locforge/locforge/internal/backend"
)

// EnvPrefix namespaces the application's own environment variables, e.g.
// LOCFORGE_DB_PATH. Provider API keys additionally honor the vendors'
// conventional names (OPENAI_API_KEY and friends).
const EnvPrefix = "LOCFORGE"

// Provider holds the per-backend connection settings.
type Provider struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Review holds the defaults for the optional review pass.
type Review struct {
	Enabled     bool `mapstructure:"enabled"`
	Threshold   int  `mapstructure:"threshold"`
	AutoImprove bool `mapstructure:"auto_improve"`
}

// Config is the fully resolved application configuration.
type Config struct {
	Provider    string              `mapstructure:"provider"`
	Providers   map[string]Provider `mapstructure:"providers"`
	MaxTokens   int                 `mapstructure:"max_tokens"`
	Temperature float64             `mapstructure:"temperature"`
	Review      Review              `mapstructure:"review"`
	DBPath      string              `mapstructure:"db_path"`
	LogLevel    string              `mapstructure:"log_level"`
}

// keyEnvVars maps providers to the conventional environment variables their
// SDKs and docs use for credentials.
var keyEnvVars = map[string]string{
	"openai":   "OPENAI_API_KEY",
	"deepseek": "DEEPSEEK_API_KEY",
	"qwen":     "DASHSCOPE_API_KEY",
}

// Load reads the configuration. When file is empty the default locations are
// searched (./locforge.yaml, then $HOME/.config/locforge/locforge.yaml); a
// missing file is not an error, only an unreadable one is.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("provider", "ollama")
	v.SetDefault("max_tokens", 2000)
	v.SetDefault("temperature", 0.3)
	v.SetDefault("review.enabled", false)
	v.SetDefault("review.threshold", 7)
	v.SetDefault("review.auto_improve", false)
	v.SetDefault("db_path", "locforge.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("providers.ollama.base_url", "http://127.0.0.1:11434")
	v.SetDefault("providers.ollama.model", "qwen3:8b")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for provider, env := range keyEnvVars {
		// e.g. providers.openai.api_key <- LOCFORGE_PROVIDERS_OPENAI_API_KEY
		// or the vendor's own OPENAI_API_KEY
		key := "providers." + provider + ".api_key"
		if err := v.BindEnv(key, EnvPrefix+"_PROVIDERS_"+strings.ToUpper(provider)+"_API_KEY", env); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", provider, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("locforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/locforge")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]Provider)
	}
	return &cfg, nil
}

// BackendOptions resolves the connection options for one provider, folding
// in the global generation settings.
func (c *Config) BackendOptions(provider string) backend.Options {
	p := c.Providers[provider]
	return backend.Options{
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		Model:       p.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: float32(c.Temperature),
	}
}

// ReviewThresholdOrDefault guards against a zero or negative configured
// threshold, which would make every review pass.
func (c *Config) ReviewThresholdOrDefault() int {
	if c.Review.Threshold <= 0 {
		return 7
	}
	return c.Review.Threshold
}
