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

	"github.com/spf13/cobra"

	"github.com/valpere/doctran/internal/cache"
)

var cacheStatsFile string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation cache",
	Long:  `Inspect, trim, or clear the persistent translation cache.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		stats := c.Stats()
		fmt.Printf("Cache file:    %s\n", stats.Path)
		fmt.Printf("Entries:       %d\n", stats.Entries)
		if stats.FileExists {
			fmt.Printf("Size on disk:  %d bytes\n", stats.FileSizeBytes)
		} else {
			fmt.Println("Size on disk:  (not yet written)")
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		n := c.Len()
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Removed %d cached translation(s)\n", n)
		return nil
	},
}

var cacheCleanupMax int

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Trim the cache to a maximum number of entries",
	Long: `Evict the oldest cached translations until at most --max entries
remain. Entries are evicted in insertion order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		removed, err := c.Cleanup(cacheCleanupMax)
		if err != nil {
			return fmt.Errorf("failed to clean up cache: %w", err)
		}
		fmt.Printf("Evicted %d entries, %d remaining\n", removed, c.Len())
		return nil
	},
}

func openCache() (*cache.Cache, error) {
	path, err := resolveCachePath(cacheStatsFile)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(path, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, nil
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheStatsFile, "cache-file", "", "Translation cache file (default per-user cache dir)")
	cacheCleanupCmd.Flags().IntVar(&cacheCleanupMax, "max", 1000, "Maximum entries to keep")
}
