/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lingo",
	Short: "Language assistant backed by a text-completion service",
	Long: `Lingo corrects, translates and simplifies text by sending a fixed prompt
to a text-completion service and returning the first candidate.

Actions: Correct, Translate (needs a target language), Simplify (needs a level A1-C1)

Use "lingo serve" to run the web form and JSON API,
or "lingo ask" for a single request from the terminal.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		var err error
		logger, err = buildLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./lingo.yaml or $HOME/.config/lingo/lingo.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with credentials (ignored when missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentFlags().String("service", "openai", "Completion service: openai, openrouter, ollama, genai")
	rootCmd.PersistentFlags().String("model", "", "Model identifier (service default when empty)")
	rootCmd.PersistentFlags().String("base-url", "", "Override the service base URL")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format: json or console")
	rootCmd.PersistentFlags().String("history-db", "", "SQLite database for request history (disabled when empty)")

	bindFlag("service", "service")
	bindFlag("model", "model")
	bindFlag("base_url", "base-url")
	bindFlag("log.format", "log-format")
	bindFlag("history.db", "history-db")
}
