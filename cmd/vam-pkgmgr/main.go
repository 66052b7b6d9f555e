package main

import (
	"fmt"
	"os"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/config"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/logger"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/security"
	"github.com/spf13/cobra"
)

// Command-line flags that can override config file settings.
var (
	configFile       string
	logLevel         string
	actualConfigFile string
	loggerCleanup    func()
)

func main() {
	cobra.OnInitialize(initConfig)

	defer func() {
		if loggerCleanup != nil {
			loggerCleanup()
		}
	}()

	rootCmd := createRootCommand()
	security.AttachRecursive(rootCmd, security.DefaultLimits())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configFilePath := configFile
	if configFilePath == "" {
		configFilePath = config.FindConfigFile()
	}
	actualConfigFile = configFilePath

	globalConfig, err := config.LoadGlobalConfig(configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	config.SetGlobal(globalConfig)

	_, cleanup, logErr := logger.InitWithConfig(logger.Config{
		Level:    globalConfig.Logging.Level,
		FilePath: globalConfig.Logging.File,
	})
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", logErr)
		os.Exit(1)
	}
	loggerCleanup = cleanup
}

// createRootCommand creates and configures the root cobra command with all subcommands.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vam-pkgmgr",
		Short: "Dependency-aware package manager for Virt-a-Mate .var content",
		Long: `vam-pkgmgr indexes a Virt-a-Mate installation's .var archives, resolves
their dependency references (declared in meta.json, or scraped from asset
files when meta.json declares none) against what's actually installed,
and exposes the resulting dependency graph for inspection and cleanup:
who depends on what, what's referenced but missing, what's installed but
unused, and what a delete would actually remove.

Use 'vam-pkgmgr --help' to see available commands.
Use 'vam-pkgmgr <command> --help' for more information about a command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				globalConfig := config.Global()
				globalConfig.Logging.Level = logLevel
				config.SetGlobal(globalConfig)
				logger.SetLogLevel(logLevel)
			}

			log := logger.Logger()
			if actualConfigFile != "" {
				log.Infof("Using configuration from: %s", actualConfigFile)
			}
			log.Debugf("Config: vam_dir=%s, cache_file_name=%s, max_dep_tree_depth=%d",
				config.Global().VamDir, config.Global().CacheFileName, config.Global().MaxDepTreeDepth)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&vamDirFlag, "vam-dir", "",
		"VaM installation root (overrides config file vam_dir)")

	rootCmd.AddCommand(createScanCommand())
	rootCmd.AddCommand(createInfoCommand())
	rootCmd.AddCommand(createTreeCommand())
	rootCmd.AddCommand(createOrphansCommand())
	rootCmd.AddCommand(createMissingCommand())
	rootCmd.AddCommand(createDeleteCommand())
	rootCmd.AddCommand(createCacheCommand())
	rootCmd.AddCommand(createConfigCommand())
	rootCmd.AddCommand(createVersionCommand())
	rootCmd.AddCommand(createInstallCompletionCommand())

	return rootCmd
}
