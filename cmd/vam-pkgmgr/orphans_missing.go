package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createOrphansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List installed packages nothing else depends on",
		Long: `orphans reports every installed package that no other installed package
references, directly or via a "latest" alias — the installation is the
root. Sorted by size descending, so the biggest reclaimable space is
listed first.`,
		RunE: executeOrphans,
	}
}

func executeOrphans(cmd *cobra.Command, args []string) error {
	m, err := openManager("", nil)
	if err != nil {
		return err
	}

	orphans := m.FindOrphans()
	w := cmd.OutOrStdout()
	if len(orphans) == 0 {
		fmt.Fprintln(w, "No orphaned packages.")
		return nil
	}
	var total float64
	for _, o := range orphans {
		mb := float64(o.Bytes) / (1024 * 1024)
		total += mb
		fmt.Fprintf(w, "%-50s %8.2f MB\n", o.ID, mb)
	}
	fmt.Fprintf(w, "Total: %d orphan(s), %.2f MB\n", len(orphans), total)
	return nil
}

func createMissingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "missing",
		Short: "List referenced-but-not-installed dependencies",
		Long: `missing reports every dependency referenced by an installed package
(in its meta.json, or scraped from its asset files when meta.json declares
none) but not present in the installation, sorted by the number of
dependents that need it, most depended-on first.`,
		RunE: executeMissing,
	}
}

func executeMissing(cmd *cobra.Command, args []string) error {
	m, err := openManager("", nil)
	if err != nil {
		return err
	}

	missing := m.FindMissing()
	w := cmd.OutOrStdout()
	if len(missing) == 0 {
		fmt.Fprintln(w, "No missing dependencies.")
		return nil
	}
	for _, e := range missing {
		fmt.Fprintf(w, "%s (needed by %d package(s))\n", e.MissingID, len(e.Dependents))
		for _, dep := range e.Dependents {
			fmt.Fprintf(w, "  %s\n", dep)
		}
	}
	return nil
}
