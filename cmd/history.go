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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/doctran/internal/store"
)

var historyDBPath string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past translation runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded translation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No translation runs recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tLANGS\tINPUT\tTOTAL\tTRANSLATED\tFALLBACK\tID")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s→%s\t%s\t%d\t%d\t%d\t%s\n",
				run.CreatedAt.Format("2006-01-02 15:04"),
				run.SourceLang, run.TargetLang,
				run.InputFile,
				run.Total, run.Translated, run.Fallback,
				run.ID)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the fallback records of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		fallbacks, err := db.ListFallbacks(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list fallbacks: %w", err)
		}
		if len(fallbacks) == 0 {
			fmt.Println("No fallbacks recorded for this run")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TEXT\tREASON")
		for _, f := range fallbacks {
			fmt.Fprintf(w, "%s\t%s\n", truncate(f.Text, 60), f.Reason)
		}
		return w.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Deleted %d run(s)\n", n)
		return nil
	},
}

func openHistory() (*store.Store, error) {
	path := historyDBPath
	if path == "" {
		path = viper.GetString("history.db")
	}
	if path == "" {
		path = "./data/doctran.db"
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "", "Run history database path")
}
