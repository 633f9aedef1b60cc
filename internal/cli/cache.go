package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the scan cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop entries for directories that no longer exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadManager()
		if err != nil {
			return err
		}
		n := mgr.CleanCache()
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale cache entries.\n", n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cache entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadManager()
		if err != nil {
			return err
		}
		mgr.ClearCache()
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.CachePath)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd, cacheClearCmd, cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}
