package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/refcache"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/scanner"
)

func createCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the reference cache",
		Long: `Manage the persistent reference cache vam-pkgmgr keeps under
vam_dir/Cache to avoid re-reading unchanged archives on every scan.

Available commands:
  clean    Remove cache entries for archives that no longer exist`,
	}
	cacheCmd.AddCommand(createCacheCleanCommand())
	return cacheCmd
}

func createCacheCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [vam-dir]",
		Short: "Prune stale reference-cache entries",
		Long: `clean scans the installation for its current set of .var archives and
removes any cache entry whose archive is no longer present, without
rebuilding the full dependency graph that a regular scan would.`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeCacheClean,
	}
	return cmd
}

func executeCacheClean(cmd *cobra.Command, args []string) error {
	var positional string
	if len(args) == 1 {
		positional = args[0]
	}
	vamDir, err := resolveVamDir(positional)
	if err != nil {
		return err
	}

	index, _, err := scanner.Scan(vamDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", vamDir, err)
	}

	known := make(map[string]struct{}, len(index))
	for _, path := range index {
		known[basename(path)] = struct{}{}
	}

	cache := refcache.Open(vamDir)
	defer cache.Close()

	removed := cache.Prune(known)

	w := cmd.OutOrStdout()
	if removed == 0 {
		fmt.Fprintln(w, "No stale cache entries found.")
	} else {
		fmt.Fprintf(w, "Removed %d stale cache entr%s.\n", removed, plural(removed))
	}
	return nil
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
