package main

import (
	"fmt"
	"os"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/config"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/manager"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/logger"
)

func main() {
	globalConfig, err := config.LoadGlobalConfig(config.FindConfigFile())
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
	defer cleanup()

	vamDir := globalConfig.VamDir
	if len(os.Args) > 1 {
		vamDir = os.Args[1]
	}
	if vamDir == "" {
		fmt.Fprintln(os.Stderr, "usage: vam-tui [vam-dir]  (or set vam_dir in the config file)")
		os.Exit(1)
	}

	mgr, err := manager.New(vamDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error indexing %s: %v\n", vamDir, err)
		os.Exit(1)
	}

	app := newApp(mgr)
	if err := app.run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
