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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/valpere/lingo/internal/prompt"
)

var (
	askAction     string
	askLanguage   string
	askLevel      string
	askInputFile  string
	askShowPrompt bool
)

var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Send a single request and print the response",
	Long: `Build the prompt for one action and print the completion text.

Text is taken from the arguments, from --input, or from stdin when neither is given.

Examples:
  lingo ask -a Correct "I has a apple"
  lingo ask -a Translate -l French "Good morning"
  lingo ask -a Translate -l de "Good morning"     (language codes are expanded)
  echo "Long text" | lingo ask -a Simplify --level B1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readAskText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		req := prompt.Request{
			Text:           text,
			Action:         prompt.Action(askAction),
			TargetLanguage: languageName(askLanguage),
			TargetLevel:    prompt.Level(strings.ToUpper(askLevel)),
		}
		if err := req.Complete(); err != nil {
			return err
		}
		if req.Action == prompt.ActionSimplify && !req.TargetLevel.Valid() {
			return fmt.Errorf("unknown level %q, expected one of %v", askLevel, prompt.Levels())
		}

		if askShowPrompt {
			fmt.Fprintf(cmd.ErrOrStderr(), "Prompt: %s\n\n", prompt.Build(req))
		}

		ctx := context.Background()
		gw, cleanup, err := buildGateway(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := gw.Process(ctx, req)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func readAskText(stdin io.Reader, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case askInputFile != "":
		data, err := os.ReadFile(askInputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// languageName expands a language code such as "fr" or "pt-BR" to its English
// name. Anything that is not a known code is returned unchanged.
func languageName(s string) string {
	if s == "" || len(s) > 8 || strings.ContainsRune(s, ' ') {
		return s
	}
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return s
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askAction, "action", "a", "", "Action: Correct, Translate or Simplify (required)")
	askCmd.Flags().StringVarP(&askLanguage, "language", "l", "", "Target language for Translate (name or code)")
	askCmd.Flags().StringVar(&askLevel, "level", "", "Target level for Simplify: A1, A2, B1, B2, C1")
	askCmd.Flags().StringVarP(&askInputFile, "input", "i", "", "Read text from file")
	askCmd.Flags().BoolVar(&askShowPrompt, "show-prompt", false, "Print the built prompt to stderr")

	askCmd.MarkFlagRequired("action")
}
