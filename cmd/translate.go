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
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/doctran/internal/cache"
	"github.com/valpere/doctran/internal/csvdoc"
	"github.com/valpere/doctran/internal/detector"
	"github.com/valpere/doctran/internal/executor"
	"github.com/valpere/doctran/internal/orchestrator"
	"github.com/valpere/doctran/internal/redistribute"
	"github.com/valpere/doctran/internal/store"
	"github.com/valpere/doctran/internal/translator"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	columns    []int

	providerName string
	credentials  string
	mymemoryMail string

	workers     int
	maxRetries  int
	retryDelay  time.Duration
	callTimeout time.Duration
	rateLimit   int
	rateWindow  time.Duration
	maxChars    int

	cacheFile string
	noCache   bool

	dbPath    string
	noHistory bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate the text content of a CSV document",
	Long: `Translate every translatable cell of a CSV document, preserving the
table structure. Numbers, codes, dates, formulas, and similar fragments
are passed through untouched; duplicate texts cost a single API call.

Available providers:
  - google     Google Cloud Translation (requires credentials)
  - mymemory   MyMemory (free, daily character quota)

Use -l to translate specific columns only (0-indexed, repeatable):
  doctran translate -i data.csv -o out.csv -t fr -l 1 -l 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		in, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		table, err := csvdoc.Load(in, columns)
		in.Close()
		if err != nil {
			return err
		}

		occs := table.Occurrences()
		if len(occs) == 0 {
			return fmt.Errorf("no text found in %s", inputFile)
		}

		ctx := context.Background()

		// Auto-detect the document's source language when not specified.
		if sourceLang == "auto" {
			samples := make([]string, 0, len(occs))
			for _, occ := range occs {
				samples = append(samples, occ.RawText)
			}
			det := detector.New()
			if detected, ok := det.DetectFromSamples(samples, 50); ok {
				sourceLang = detected
				fmt.Fprintf(os.Stderr, "Detected source language: %s\n", sourceLang)
			}
		}

		var translationCache *cache.Cache
		if !noCache {
			path, err := resolveCachePath(cacheFile)
			if err != nil {
				return err
			}
			translationCache, err = cache.New(path, viper.GetInt("cache.autosave"))
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer translationCache.Save()
		}

		provider, err := buildProvider(providerName, translator.Config{
			Credentials: credentials,
			Email:       mymemoryMail,
			Timeout:     callTimeout,
		})
		if err != nil {
			return err
		}

		exec := executor.New(provider, translationCache, executor.Config{
			Workers:     workers,
			MaxAttempts: maxRetries,
			RetryDelay:  retryDelay,
			CallTimeout: callTimeout,
			MaxChars:    maxChars,
			RateLimit:   rateLimit,
			RateWindow:  rateWindow,
		})

		orch := orchestrator.New(exec, redistribute.DefaultOptions())
		report := orch.Run(ctx, occs, table, sourceLang, targetLang)

		if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		out, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := table.Write(out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		if !noHistory {
			saveRunHistory(ctx, report)
		}

		stats := orch.Stats()
		fmt.Printf("Successfully translated %s to %s\n", sourceLang, targetLang)
		fmt.Printf("Occurrences: %d total, %d translated, %d skipped, %d kept original\n",
			report.Total, report.Translated, report.Skipped, report.Fallback)
		fmt.Printf("API calls: %d (%d cache hits, %d unique texts)\n",
			stats.TotalCalls, report.CacheHits, report.UniqueJobs)
		if report.Fallback > 0 {
			fmt.Fprintf(os.Stderr, "%d occurrence(s) kept their original text; re-run to retry\n", report.Fallback)
		}
		return nil
	},
}

// saveRunHistory records the run outcome in the history database.
// History is observability; failures are reported but never fail the run.
func saveRunHistory(ctx context.Context, report *orchestrator.Report) {
	db, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history database: %v\n", err)
		return
	}
	defer db.Close()

	runID := uuid.New().String()
	run := store.Run{
		ID:         runID,
		InputFile:  inputFile,
		OutputFile: outputFile,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Total:      report.Total,
		Translated: report.Translated,
		Skipped:    report.Skipped,
		Fallback:   report.Fallback,
		CacheHits:  report.CacheHits,
		CreatedAt:  time.Now(),
	}
	if err := db.SaveRun(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save run history: %v\n", err)
		return
	}

	fallbacks := make([]store.Fallback, 0, len(report.Fallbacks))
	for _, f := range report.Fallbacks {
		fallbacks = append(fallbacks, store.Fallback{
			RunID:  runID,
			Text:   f.Text,
			Reason: f.Reason,
		})
	}
	if err := db.SaveFallbacks(ctx, fallbacks); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save fallback records: %v\n", err)
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input CSV file (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file (required)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().IntSliceVarP(&columns, "column", "l", nil, "Columns to translate, 0-indexed (repeatable; default all)")

	translateCmd.Flags().StringVar(&providerName, "provider", "google", "Translation provider (google, mymemory)")
	translateCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials")
	translateCmd.Flags().StringVar(&mymemoryMail, "mymemory-email", "", "MyMemory email (for higher limits)")

	translateCmd.Flags().IntVarP(&workers, "workers", "w", executor.DefaultWorkers, "Concurrent translation workers")
	translateCmd.Flags().IntVar(&maxRetries, "max-retries", executor.DefaultMaxAttempts, "Total attempts per call including the first (1 = no retries)")
	translateCmd.Flags().DurationVar(&retryDelay, "retry-delay", executor.DefaultRetryDelay, "Base delay between retries (doubles per attempt)")
	translateCmd.Flags().DurationVar(&callTimeout, "timeout", 30*time.Second, "Per-call timeout")
	translateCmd.Flags().IntVar(&rateLimit, "rate-limit", 100, "Max API calls per rate window (0 = unlimited)")
	translateCmd.Flags().DurationVar(&rateWindow, "rate-window", time.Minute, "Sliding rate-limit window")
	translateCmd.Flags().IntVar(&maxChars, "max-chars", 5000, "Split texts longer than this before translating (0 = never)")

	translateCmd.Flags().StringVar(&cacheFile, "cache-file", "", "Translation cache file (default per-user cache dir)")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the translation cache")

	translateCmd.Flags().StringVar(&dbPath, "db", "./data/doctran.db", "Run history database path")
	translateCmd.Flags().BoolVar(&noHistory, "no-history", false, "Disable run history recording")

	viper.BindPFlag("cache.file", translateCmd.Flags().Lookup("cache-file"))
	viper.BindPFlag("executor.workers", translateCmd.Flags().Lookup("workers"))
	viper.BindPFlag("executor.rate_limit", translateCmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("history.db", translateCmd.Flags().Lookup("db"))

	translateCmd.MarkFlagRequired("input")
	translateCmd.MarkFlagRequired("output")
	translateCmd.MarkFlagRequired("target")
}
