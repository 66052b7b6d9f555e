package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func createDeleteCommand() *cobra.Command {
	var withDeps, dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an installed package, optionally with its dependencies",
		Long: `delete computes a removal plan for the given package: the package
itself, and, with --with-deps, every transitive dependency not shared by
any other installed package (dependencies still in use elsewhere are
kept and listed separately). The plan is printed before anything is
removed; use --dry-run to only print it, or --yes to skip the
confirmation prompt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeDelete(cmd, args, withDeps, dryRun, yes)
		},
	}
	cmd.Flags().BoolVar(&withDeps, "with-deps", false, "Also remove dependencies unique to this package")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without deleting anything")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func executeDelete(cmd *cobra.Command, args []string, withDeps, dryRun, yes bool) error {
	m, err := openManager("", nil)
	if err != nil {
		return err
	}

	pid, ok := m.ParseRef(args[0])
	if !ok {
		return fmt.Errorf("not a valid package reference: %s", args[0])
	}

	plan, err := m.PlanDelete(pid, withDeps)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Will delete %d package(s) (%.2f MB):\n", len(plan.ToDelete), float64(plan.TotalBytes)/(1024*1024))
	for _, id := range plan.ToDelete {
		fmt.Fprintf(w, "  %s\n", id)
	}
	if len(plan.KeepDeps) > 0 {
		fmt.Fprintln(w, "Keeping (still depended on elsewhere):")
		for _, kept := range plan.KeepDeps {
			fmt.Fprintf(w, "  %s (needed by %v)\n", kept.ID, kept.Dependents)
		}
	}

	if dryRun {
		fmt.Fprintln(w, "Dry run: no files were deleted.")
		return nil
	}

	if !yes {
		fmt.Fprint(w, "Proceed? [y/N] ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	results := m.ExecuteDelete(plan)
	for _, r := range results {
		if r.Deleted {
			fmt.Fprintf(w, "Deleted %s\n", r.ID)
		} else {
			fmt.Fprintf(w, "Failed to delete %s: %s\n", r.ID, r.Detail)
		}
	}
	return nil
}
