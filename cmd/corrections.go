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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/locforge/locforge/internal/store"
)

var correctionsCmd = &cobra.Command{
	Use:   "corrections",
	Short: "Manage the correction table",
	Long: `Add, list, and delete correction table entries.

Corrections guarantee that a specific source string is always translated
to the same target string, bypassing the LLM backend entirely — useful
for game terms, proper nouns, and UI strings that must stay consistent.`,
}

var (
	corrListSource string
	corrListTarget string
)

var correctionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List correction entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		// Empty filters list everything; flags narrow by language pair.
		entries, err := db.ListCorrections(context.Background(), corrListSource, corrListTarget)
		if err != nil {
			return fmt.Errorf("failed to list corrections: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("Correction table is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE LANG\tTARGET LANG\tPRIORITY\tCATEGORY\tSOURCE TEXT\tTRANSLATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				e.ID, e.SourceLang, e.TargetLang, e.Priority, e.Category, e.SourceText, e.Translation)
		}
		return w.Flush()
	},
}

var (
	corrAddSource   string
	corrAddTarget   string
	corrAddCategory string
	corrAddPriority int
)

var correctionsAddCmd = &cobra.Command{
	Use:   "add <source-text> <translation>",
	Short: "Add or update a correction entry",
	Long: `Add a correction mapping a source string to a fixed translation.
Adding the same source string and language pair again replaces the entry.

Example:
  locforge corrections add "HP" "生命值" --source en --target zh --category game_term`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if corrAddSource == "" {
			return fmt.Errorf("--source language flag is required")
		}
		if corrAddTarget == "" {
			return fmt.Errorf("--target language flag is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		c := store.Correction{
			SourceText:  args[0],
			SourceLang:  corrAddSource,
			TargetLang:  corrAddTarget,
			Translation: args[1],
			Category:    corrAddCategory,
			Priority:    corrAddPriority,
		}
		if err := db.UpsertCorrection(context.Background(), c); err != nil {
			return fmt.Errorf("failed to add correction: %w", err)
		}
		fmt.Printf("Added: [%s→%s] %q → %q\n", corrAddSource, corrAddTarget, args[0], args[1])
		return nil
	},
}

var correctionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a correction entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		deleted, err := db.DeleteCorrection(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete correction: %w", err)
		}
		if !deleted {
			return fmt.Errorf("no correction with id %s", args[0])
		}
		fmt.Printf("Deleted correction: %s\n", args[0])
		return nil
	},
}

var correctionsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in en→zh game-term corrections",
	Long: `Load the built-in set of common English→Chinese game terms (HP, MP,
level, quest, ...) into the correction table. Safe to run repeatedly;
existing entries with the same source text are replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SeedDefaultCorrections(context.Background()); err != nil {
			return fmt.Errorf("failed to seed corrections: %w", err)
		}
		fmt.Println("Seeded default game-term corrections.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correctionsCmd)

	correctionsListCmd.Flags().StringVarP(&corrListSource, "source", "s", "", "Filter by source language code (e.g. en)")
	correctionsListCmd.Flags().StringVarP(&corrListTarget, "target", "t", "", "Filter by target language code (e.g. zh)")

	correctionsAddCmd.Flags().StringVarP(&corrAddSource, "source", "s", "", "Source language code (e.g. en)")
	correctionsAddCmd.Flags().StringVarP(&corrAddTarget, "target", "t", "", "Target language code (e.g. zh)")
	correctionsAddCmd.Flags().StringVar(&corrAddCategory, "category", "", "Entry category (default general)")
	correctionsAddCmd.Flags().IntVar(&corrAddPriority, "priority", 0, "Lookup priority; higher wins on conflict")

	correctionsCmd.AddCommand(correctionsListCmd)
	correctionsCmd.AddCommand(correctionsAddCmd)
	correctionsCmd.AddCommand(correctionsDeleteCmd)
	correctionsCmd.AddCommand(correctionsSeedCmd)
}
