package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show detail for a single installed package",
		Long: `info resolves the given package reference (exact id, or an
"Author.Package.latest" alias) and prints its creator, license,
description, direct and transitive dependencies, dependents, and any
referenced-but-not-installed dependencies.`,
		Args: cobra.ExactArgs(1),
		RunE: executeInfo,
	}
	return cmd
}

func executeInfo(cmd *cobra.Command, args []string) error {
	m, err := openManager("", nil)
	if err != nil {
		return err
	}

	pid, ok := m.ParseRef(args[0])
	if !ok {
		return fmt.Errorf("not a valid package reference: %s", args[0])
	}

	info, ok := m.PackageInfo(pid)
	if !ok {
		return fmt.Errorf("package not installed: %s", pid)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ID:          %s\n", info.ID)
	fmt.Fprintf(w, "Path:        %s\n", info.Path)
	fmt.Fprintf(w, "Size:        %.2f MB\n", info.SizeMB)
	fmt.Fprintf(w, "Creator:     %s\n", info.Creator)
	fmt.Fprintf(w, "License:     %s\n", info.License)
	if info.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", info.Description)
	}
	fmt.Fprintf(w, "Direct dependencies (%d):\n", len(info.DirectDeps))
	for _, d := range info.DirectDeps {
		fmt.Fprintf(w, "  %s\n", d)
	}
	fmt.Fprintf(w, "All dependencies (%d):\n", len(info.AllDeps))
	for _, d := range info.AllDeps {
		fmt.Fprintf(w, "  %s\n", d)
	}
	fmt.Fprintf(w, "Dependents (%d):\n", len(info.Dependents))
	for _, d := range info.Dependents {
		fmt.Fprintf(w, "  %s\n", d)
	}
	if len(info.MissingDeps) > 0 {
		fmt.Fprintf(w, "Missing dependencies (%d):\n", len(info.MissingDeps))
		for _, d := range info.MissingDeps {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	return nil
}
