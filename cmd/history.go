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
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/lingo/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the request history",
	Long: `List, inspect, and clear the SQLite request history.

History is only written when --history-db (or history.db in the config) is set.`,
}

func openHistoryFromConfig() (*store.Store, error) {
	path := viper.GetString("history.db")
	if path == "" {
		return nil, fmt.Errorf("no history database configured (use --history-db)")
	}
	return openHistory(path)
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryFromConfig()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListInteractions(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries in history.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tACTION\tTARGET\tSERVICE\tMS\tSTATUS\tTEXT")
		for _, e := range entries {
			target := e.TargetLanguage
			if e.Action == "Simplify" {
				target = e.TargetLevel
			}
			status := "ok"
			if e.Error != "" {
				status = "failed"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Action, target,
				e.Service, e.Latency.Milliseconds(), status, snippet(e.Text, 40))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one request with its prompt and response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryFromConfig()
		if err != nil {
			return err
		}
		defer db.Close()

		e, found, err := db.GetInteraction(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load entry: %w", err)
		}
		if !found {
			return fmt.Errorf("entry not found: %s", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", e.ID)
		fmt.Fprintf(out, "When:      %s\n", e.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Action:    %s\n", e.Action)
		fmt.Fprintf(out, "Service:   %s (%d ms)\n", e.Service, e.Latency.Milliseconds())
		if e.DetectedLang != "" {
			fmt.Fprintf(out, "Detected:  %s\n", e.DetectedLang)
		}
		if e.Error != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.Error)
		}
		fmt.Fprintf(out, "\nPrompt:\n%s\n\nResponse:\n%s\n", e.Prompt, e.Response)
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show request history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryFromConfig()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total requests:  %d\n", stats.Total)
		fmt.Fprintf(out, "Succeeded:       %d\n", stats.Succeeded)
		fmt.Fprintf(out, "Failed:          %d\n", stats.Failed)

		actions := make([]string, 0, len(stats.ByAction))
		for a := range stats.ByAction {
			actions = append(actions, a)
		}
		sort.Strings(actions)
		for _, a := range actions {
			name := a
			if name == "" {
				name = "(none)"
			}
			fmt.Fprintf(out, "  %-14s %d\n", name+":", stats.ByAction[a])
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a history entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryFromConfig()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteInteraction(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry: %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryFromConfig()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from history.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to list (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
