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

	"github.com/locforge/locforge/internal/backend"
	"github.com/locforge/locforge/internal/engine"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List and test translation backends",
}

var backendsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backends and their configured models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tMODEL\tACTIVE")
		for _, name := range backend.Providers() {
			b, err := backend.New(name, cfg.BackendOptions(name))
			if err != nil {
				continue
			}
			active := ""
			if name == cfg.Provider {
				active = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, b.ModelName(), active)
		}
		return w.Flush()
	},
}

var backendsTestCmd = &cobra.Command{
	Use:   "test [provider]",
	Short: "Smoke-test a backend with a single translation",
	Long: `Send one short test translation through a backend and report whether
it responded. Defaults to the configured provider.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := cfg.Provider
		if len(args) == 1 {
			name = args[0]
		}

		opts := cfg.BackendOptions(name)
		if modelName != "" {
			opts.Model = modelName
		}
		b, err := backend.New(name, opts)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Testing %s (%s)...\n", b.Name(), b.ModelName())
		if !engine.TestBackend(context.Background(), b) {
			return fmt.Errorf("backend %s failed the test translation", name)
		}
		fmt.Printf("Backend %s is working.\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)

	backendsCmd.AddCommand(backendsListCmd)
	backendsCmd.AddCommand(backendsTestCmd)
}
