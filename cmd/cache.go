package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/store"
)

var (
	cacheDirFlag    string
	forceClearCache bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the evaluation cache",
	Long: `Inspect or delete the evaluation cache shards of a directory.
The cache maps decision vectors to their objective and constraint values
so repeated runs skip evaluations they already paid for.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the cache shards in a directory",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache shards in a directory",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheDirFlag, "dir", "", "Cache directory")
	cacheCmd.MarkPersistentFlagRequired("dir")

	cacheClearCmd.Flags().BoolVarP(&forceClearCache, "force", "f", false, "Skip confirmation prompt")
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	info, err := store.InspectShards(cacheDirFlag)
	if err != nil {
		return fmt.Errorf("failed to inspect cache: %w", err)
	}
	if info.Files == 0 {
		fmt.Println("No cache shards found.")
		return nil
	}
	fmt.Printf("Shards: %d\nEntries: %d\nSize: %s\n", info.Files, info.Entries, formatBytes(info.Bytes))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if !forceClearCache {
		fmt.Printf("Delete cache shards under %s? [y/N]: ", cacheDirFlag)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := store.ClearShards(cacheDirFlag); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("Cache cleared.")
	return nil
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
