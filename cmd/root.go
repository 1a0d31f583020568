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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	cfgFile   string
	dbPath    string
	logLevel  string
	provider  string
	modelName string
)

var rootCmd = &cobra.Command{
	Use:   "locforge",
	Short: "Game text localization assistant",
	Long: `Batch localization of tabular game text (xlsx, csv, txt).

Translatable strings are extracted from the input file and routed through
a curated correction table first; everything else goes to the configured
LLM backend, optionally followed by a review pass that can auto-improve
low-scoring translations.

Supported backends: openai, deepseek, qwen, ollama (local)

Use "locforge translate --help" for translation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./locforge.yaml, then $HOME/.config/locforge/)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path for corrections and history (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "Translation backend: openai, deepseek, qwen, ollama (default from config)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Model name override for the selected backend")
}
