package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/config"
)

func createTreeCommand() *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "tree <id>",
		Short: "Print a package's pruned dependency tree",
		Long: `tree walks the dependency graph rooted at the given package, printing
one indented line per dependency. Versions superseded by a "latest"
alias or a higher installed version elsewhere in the tree are pruned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeTree(cmd, args, maxDepth)
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0,
		"Maximum depth to walk (defaults to the configured max_dep_tree_depth)")
	return cmd
}

func executeTree(cmd *cobra.Command, args []string, maxDepth int) error {
	m, err := openManager("", nil)
	if err != nil {
		return err
	}

	pid, ok := m.ParseRef(args[0])
	if !ok {
		return fmt.Errorf("not a valid package reference: %s", args[0])
	}
	if !m.Installed(pid) {
		return fmt.Errorf("package not installed: %s", pid)
	}

	if maxDepth <= 0 {
		maxDepth = config.Global().MaxDepTreeDepth
	}

	entries := m.DepTree(pid, maxDepth)

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, pid)
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", e.Depth), e.Dep)
	}
	return nil
}
