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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/locforge/locforge/internal/engine"
	"github.com/locforge/locforge/internal/langs"
	"github.com/locforge/locforge/internal/tabular"
	"github.com/locforge/locforge/internal/validator"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	columns    []string

	reviewFlag      bool
	autoImproveFlag bool
	thresholdFlag   int
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate a file or a single string",
	Long: `Translate tabular game text, or a single string given as an argument.

With --input, translatable columns are extracted from the file (xlsx, csv
or txt), translated, and written back to a copy of the file with a
"<column>_translated" column inserted right of each source column.

Corrections from the database always win over the backend; AI translations
are recorded in the history table.

Examples:
  locforge translate -i items.xlsx -t zh
  locforge translate -i ui.csv -s en -t zh --review --auto-improve
  locforge translate "Start Game" -t zh`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == "" && len(args) == 0 {
			return fmt.Errorf("either --input or a text argument is required")
		}
		if inputFile != "" && len(args) > 0 {
			return fmt.Errorf("--input and a text argument are mutually exclusive")
		}
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		review := engine.ReviewConfig{
			Enabled:     cfg.Review.Enabled,
			AutoImprove: cfg.Review.AutoImprove,
			Threshold:   cfg.ReviewThresholdOrDefault(),
		}
		if cmd.Flags().Changed("review") {
			review.Enabled = reviewFlag
		}
		if cmd.Flags().Changed("auto-improve") {
			review.AutoImprove = autoImproveFlag
		}
		if cmd.Flags().Changed("threshold") {
			review.Threshold = thresholdFlag
		}

		b, err := buildBackend(cfg)
		if err != nil {
			return err
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()

		if len(args) == 1 {
			e := engine.New(b, engine.Config{Corrections: db, History: db, Logger: logger})
			src := sourceLang
			if src == "auto" {
				src = detectOrDefault(args[0], "en")
				fmt.Fprintf(os.Stderr, "Detected source language: %s\n", src)
			}
			translated, err := e.TranslateOne(ctx, args[0], src, targetLang)
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}
			fmt.Println(translated)
			return nil
		}

		tbl, meta, err := tabular.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		cells := tabular.ExtractTranslatable(tbl, columns)
		if len(cells) == 0 {
			return fmt.Errorf("no translatable text found in %s", inputFile)
		}
		fmt.Fprintf(os.Stderr, "Extracted %d translatable cells from %s\n", len(cells), inputFile)

		src := sourceLang
		if src == "auto" {
			sample := make([]string, 0, 10)
			for _, c := range cells {
				sample = append(sample, c.Text)
				if len(sample) == 10 {
					break
				}
			}
			src = detectOrDefault(strings.Join(sample, " "), "en")
			fmt.Fprintf(os.Stderr, "Detected source language: %s\n", src)
		}

		items := make([]engine.Item, len(cells))
		for i, c := range cells {
			items[i] = engine.Item{Row: c.Row, Col: c.Col, Text: c.Text}
		}

		e := engine.New(b, engine.Config{
			Corrections: db,
			History:     db,
			Verifier:    validator.New(),
			Logger:      logger,
			FileName:    filepath.Base(inputFile),
		})

		results, stats, err := e.RunBatch(ctx, items, src, targetLang, review)
		if err != nil {
			return fmt.Errorf("batch aborted: %w", err)
		}

		translations := make([]tabular.Translation, len(results))
		for i, r := range results {
			translations[i] = tabular.Translation{
				Row:        r.Row,
				Col:        r.Col,
				Original:   r.OriginalText,
				Translated: r.FinalTranslation,
			}
		}
		merged := tabular.MergeTranslations(tbl, translations)

		out := outputFile
		if out == "" {
			out = tabular.OutputPath(inputFile, "_translated")
		}
		if err := tabular.WriteFile(merged, out, meta); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		fmt.Printf("Successfully translated %s to %s: %s\n",
			langs.DisplayName(src), langs.DisplayName(targetLang), out)
		fmt.Printf("Items translated: %d\n", stats.Translated)
		if review.Enabled {
			fmt.Printf("Reviewed: %d, improved: %d, average score: %.1f\n",
				stats.Reviewed, stats.Improved, stats.AvgScore)
		}
		return nil
	},
}

// detectOrDefault guesses the language of text, falling back to def when
// detection is inconclusive.
func detectOrDefault(text, def string) string {
	if code, ok := langs.NewDetector().DetectCode(text); ok {
		return code
	}
	return def
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate (xlsx, csv, txt)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default <input>_translated.<ext>)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to translate (default: auto-detect text columns)")

	translateCmd.Flags().BoolVar(&reviewFlag, "review", false, "Review each AI translation with a second LLM pass")
	translateCmd.Flags().BoolVar(&autoImproveFlag, "auto-improve", false, "Replace low-scoring translations with the reviewer's improvement")
	translateCmd.Flags().IntVar(&thresholdFlag, "threshold", engine.DefaultReviewThreshold, "Quality score below which auto-improve applies")

	translateCmd.MarkFlagRequired("target")
}
