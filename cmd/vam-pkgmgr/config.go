package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/config"
)

// createConfigCommand creates the config subcommand.
func createConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage global configuration for vam-pkgmgr.

Available commands:
  init    Initialize a new configuration file with default values`,
	}
	configCmd.AddCommand(createConfigInitCommand())
	return configCmd
}

// createConfigInitCommand creates the config init subcommand.
func createConfigInitCommand() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new configuration file with default values.

If no path is specified, the config will be created in the current
directory as vam-pkgmgr.yml.

Examples:
  # Create config in current directory
  vam-pkgmgr config init

  # Create config at specific location
  vam-pkgmgr config init /etc/vam-pkgmgr/config.yml

  # Create config in user's home directory
  vam-pkgmgr config init ~/.vam-pkgmgr/config.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeConfigInit,
	}
	return initCmd
}

func executeConfigInit(cmd *cobra.Command, args []string) error {
	configPath := "vam-pkgmgr.yml"
	if len(args) > 0 {
		configPath = args[0]
	}

	defaultConfig := config.DefaultGlobalConfig()

	if err := defaultConfig.SaveGlobalConfigWithComments(configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Configuration file created at: %s\n", configPath)
	fmt.Fprintf(w, "\nDefault configuration settings:\n")
	fmt.Fprintf(w, "  Cache file name:    %s\n", defaultConfig.CacheFileName)
	fmt.Fprintf(w, "  Max dep tree depth: %d\n", defaultConfig.MaxDepTreeDepth)
	fmt.Fprintf(w, "  Log level:          %s\n", defaultConfig.Logging.Level)
	fmt.Fprintf(w, "  Log file:           %s\n", defaultConfig.Logging.File)
	fmt.Fprintf(w, "\nSet vam_dir in the file before running other commands.\n")

	return nil
}
