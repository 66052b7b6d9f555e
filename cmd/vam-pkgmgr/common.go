package main

import (
	"fmt"
	"path/filepath"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/config"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/manager"
)

// vamDirFlag overrides config.Global().VamDir when set via --vam-dir.
var vamDirFlag string

// resolveVamDir picks the installation root to operate on: the --vam-dir
// flag, a positional argument (scan's usage), or the config file's vam_dir.
func resolveVamDir(positional string) (string, error) {
	switch {
	case positional != "":
		return filepath.Abs(positional)
	case vamDirFlag != "":
		return filepath.Abs(vamDirFlag)
	default:
		return config.EnsureVamDir()
	}
}

// openManager resolves the VaM directory and builds a PackageManager over
// it, optionally reporting indexing progress.
func openManager(positional string, progress manager.ProgressFunc) (*manager.PackageManager, error) {
	vamDir, err := resolveVamDir(positional)
	if err != nil {
		return nil, err
	}
	m, err := manager.New(vamDir, progress)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", vamDir, err)
	}
	return m, nil
}
