/*
Copyright © 2025 The locforge Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/locforge/locforge/internal/backend"
	"github.com/locforge/locforge/internal/config"
	"github.com/locforge/locforge/internal/store"
)

// loadConfig resolves the effective configuration, folding the global CLI
// flags over the file/env values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if provider != "" {
		cfg.Provider = provider
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// clean for command output.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// buildBackend constructs the backend named by the effective provider,
// applying the --model override.
func buildBackend(cfg *config.Config) (backend.Backend, error) {
	opts := cfg.BackendOptions(cfg.Provider)
	if modelName != "" {
		opts.Model = modelName
	}
	b, err := backend.New(cfg.Provider, opts)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// snippet shortens s to at most max runes for table display. Runes, not
// bytes: truncating mid-character would mangle CJK text.
func snippet(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// openStore opens the sqlite database at the configured path.
func openStore(cfg *config.Config) (*store.Store, error) {
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
