package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/manager"
)

func createScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [vam-dir]",
		Short: "Index a VaM installation and report a summary",
		Long: `Scan walks the given VaM installation root (or the configured vam_dir),
finds every .var archive, resolves its dependency references (from
meta.json, or scraped from its asset files when meta.json declares none)
against the rest of the installation, and reports what it found: how many
archives were freshly read versus served from cache, any filename
collisions, and the counts of orphaned and missing packages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeScan,
	}
	return cmd
}

func executeScan(cmd *cobra.Command, args []string) error {
	var positional string
	if len(args) == 1 {
		positional = args[0]
	}

	var bar *progressbar.ProgressBar
	var readCount, cachedCount int
	progress := func(scanned, cached, total int, filename string) {
		readCount, cachedCount = scanned, cached
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowDescriptionAtLineEnd(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(200*time.Millisecond),
				progressbar.OptionSpinnerType(10),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
		}
		bar.Describe(filename)
		_ = bar.Add(1)
	}

	m, err := openManager(positional, manager.ProgressFunc(progress))
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(cmd.OutOrStdout())
	}

	orphans := m.FindOrphans()
	missing := m.FindMissing()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Indexed %d package(s) under %s\n", len(m.IDs()), m.VamDir)
	fmt.Fprintf(w, "Read %d archive(s), %d served from cache\n", readCount, cachedCount)
	if collisions := m.Collisions(); len(collisions) > 0 {
		fmt.Fprintf(w, "Collisions: %d (kept the larger archive in each case)\n", len(collisions))
		for _, c := range collisions {
			fmt.Fprintf(w, "  %s: kept %s, ignored %v\n", c.ID, c.Kept, c.Ignored)
		}
	}
	fmt.Fprintf(w, "Orphaned packages: %d\n", len(orphans))
	fmt.Fprintf(w, "Missing dependencies: %d\n", len(missing))
	return nil
}
