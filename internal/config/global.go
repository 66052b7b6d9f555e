// internal/config/global.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/config/validate"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/logger"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/security"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/slice"
	"gopkg.in/yaml.v3"
)

// GlobalConfig holds the tool-level settings vam-pkgmgr needs across every
// command.
type GlobalConfig struct {
	VamDir          string `yaml:"vam_dir" json:"vam_dir"`                       // VaM installation root to scan (required at runtime; no sensible default)
	CacheFileName   string `yaml:"cache_file_name" json:"cache_file_name"`       // Loaded, validated and saved with the config; internal/refcache does not read it and always uses vam_pkg_cache.db inside VamDir/Cache
	MaxDepTreeDepth int    `yaml:"max_dep_tree_depth" json:"max_dep_tree_depth"` // Depth bound applied by the `tree` command (1-64, default: 6)

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig controls basic logging behavior
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`                   // debug, info, warn, error
	File  string `yaml:"file,omitempty" json:"file,omitempty"` // Optional log file path for teeing output to disk
}

var (
	globalInstance *GlobalConfig
	globalMutex    sync.RWMutex
	once           sync.Once
)

// SetGlobal sets the global config instance (call once at startup in main.go)
func SetGlobal(config *GlobalConfig) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalInstance = config
}

// Global returns the global config instance
func Global() *GlobalConfig {
	once.Do(func() {
		globalMutex.Lock()
		defer globalMutex.Unlock()
		if globalInstance == nil {
			globalInstance = DefaultGlobalConfig()
		}
	})

	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalInstance
}

// DefaultGlobalConfig returns a GlobalConfig with sensible defaults
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		CacheFileName:   "vam_pkg_cache.db",
		MaxDepTreeDepth: 6,
		Logging: LoggingConfig{
			Level: "info",
			File:  "vam-pkgmgr.log",
		},
	}
}

// LoadGlobalConfig loads configuration from the specified path
func LoadGlobalConfig(configPath string) (*GlobalConfig, error) {
	config := DefaultGlobalConfig()

	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		if errors.Is(err, os.ErrPermission) {
			logger.Logger().Warnf("Config file %s is not accessible (%v); using defaults", configPath, err)
			return config, nil
		}
		logger.Logger().Errorf("Error accessing config file %s: %v", configPath, err)
		return nil, fmt.Errorf("accessing config file %s: %w", configPath, err)
	}

	data, err := security.SafeReadFile(configPath, security.RejectSymlinks)
	if err != nil {
		logger.Logger().Errorf("Error reading config file %s: %v", configPath, err)
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			logger.Logger().Errorf("Error parsing YAML config: %v", err)
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}

		jsonData, err := json.Marshal(config)
		if err != nil {
			logger.Logger().Errorf("Error converting config to JSON for validation: %v", err)
			return nil, fmt.Errorf("converting config to JSON for validation: %w", err)
		}

		if err := validate.ValidateConfigJSON(jsonData); err != nil {
			logger.Logger().Errorf("Schema validation failed: %v", err)
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}

	default:
		logger.Logger().Errorf("Unsupported config file format: %s", ext)
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	if err := config.Validate(); err != nil {
		logger.Logger().Errorf("Config validation failed: %v", err)
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// SaveGlobalConfig saves the configuration to the specified path
func (gc *GlobalConfig) SaveGlobalConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			logger.Logger().Errorf("Failed to create config directory: %v", err)
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	jsonData, err := json.Marshal(gc)
	if err != nil {
		logger.Logger().Errorf("Error converting config to JSON for validation: %v", err)
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}

	if err := validate.ValidateConfigJSON(jsonData); err != nil {
		logger.Logger().Errorf("Config validation failed before save: %v", err)
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	data, err := yaml.Marshal(gc)
	if err != nil {
		logger.Logger().Errorf("Error marshaling config to YAML: %v", err)
		return fmt.Errorf("marshaling config to YAML: %w", err)
	}

	if err := security.SafeWriteFile(configPath, data, 0600, security.RejectSymlinks); err != nil {
		logger.Logger().Errorf("Error writing config file: %v", err)
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// SaveGlobalConfigWithComments saves the configuration with descriptive
// comments, for the CLI's `config init` command.
func (gc *GlobalConfig) SaveGlobalConfigWithComments(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is empty")
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			logger.Logger().Errorf("Failed to create config directory: %v", err)
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	jsonData, err := json.Marshal(gc)
	if err != nil {
		logger.Logger().Errorf("Error converting config to JSON for validation: %v", err)
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}

	if err := validate.ValidateConfigJSON(jsonData); err != nil {
		logger.Logger().Errorf("Config validation failed before save: %v", err)
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	commented := gc.renderCommentedYAML()

	if err := security.SafeWriteFile(configPath, []byte(commented), 0600, security.RejectSymlinks); err != nil {
		logger.Logger().Errorf("Error writing config file: %v", err)
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// renderCommentedYAML builds a YAML representation of the config with rich comments.
func (gc *GlobalConfig) renderCommentedYAML() string {
	var b strings.Builder

	b.WriteString("# vam-pkgmgr - Global Configuration\n\n")

	fmt.Fprintf(&b, "vam_dir: %q\n", gc.VamDir)
	b.WriteString("# Path to the VaM installation root to scan (required)\n\n")

	fmt.Fprintf(&b, "cache_file_name: %q\n", gc.CacheFileName)
	b.WriteString("# Not read by the reference cache, which always uses vam_pkg_cache.db inside vam_dir/Cache\n\n")

	fmt.Fprintf(&b, "max_dep_tree_depth: %d\n", gc.MaxDepTreeDepth)
	b.WriteString("# Depth bound applied by the `tree` command (1-64, default: 6)\n\n")

	b.WriteString("logging:\n")
	fmt.Fprintf(&b, "  level: %q\n", gc.Logging.Level)
	b.WriteString("  # Log verbosity: debug, info, warn, error\n")
	if gc.Logging.File != "" {
		fmt.Fprintf(&b, "  file: %q\n", gc.Logging.File)
		b.WriteString("  # Tee logs to this file in addition to stdout/stderr\n")
	}

	return b.String()
}

// Validate checks the configuration for consistency and applies constraints.
// It should NOT set the VamDir default - that has no sensible value.
func (gc *GlobalConfig) Validate() error {
	if gc.MaxDepTreeDepth <= 0 {
		gc.MaxDepTreeDepth = 6
	}
	if gc.MaxDepTreeDepth > 64 {
		return fmt.Errorf("max_dep_tree_depth cannot exceed 64, got %d", gc.MaxDepTreeDepth)
	}

	if gc.CacheFileName == "" {
		gc.CacheFileName = "vam_pkg_cache.db"
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slice.Contains(validLevels, gc.Logging.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s",
			gc.Logging.Level, strings.Join(validLevels, ", "))
	}

	gc.Logging.File = strings.TrimSpace(gc.Logging.File)

	return nil
}

// GetConfigPaths returns the standard configuration file paths to check
func GetConfigPaths() []string {
	homeDir, _ := os.UserHomeDir()

	paths := []string{
		"vam-pkgmgr.yml",
		".vam-pkgmgr.yml",
		"vam-pkgmgr.yaml",
		".vam-pkgmgr.yaml",
	}

	if homeDir != "" {
		paths = append(paths,
			filepath.Join(homeDir, ".vam-pkgmgr", "config.yml"),
			filepath.Join(homeDir, ".vam-pkgmgr", "config.yaml"),
			filepath.Join(homeDir, ".config", "vam-pkgmgr", "config.yml"),
			filepath.Join(homeDir, ".config", "vam-pkgmgr", "config.yaml"),
		)
	}

	paths = append(paths,
		"/etc/vam-pkgmgr/config.yml",
		"/etc/vam-pkgmgr/config.yaml",
	)

	return paths
}

// FindConfigFile searches for a configuration file in standard locations
func FindConfigFile() string {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LogLevel returns the configured logging level.
func LogLevel() string {
	return Global().Logging.Level
}

// IsDebugMode reports whether debug-level logging is configured.
func IsDebugMode() bool {
	return Global().Logging.Level == "debug"
}

// EnsureVamDir validates that VamDir is set and resolvable to an absolute
// path, returning the resolved path.
func EnsureVamDir() (string, error) {
	vamDir := Global().VamDir
	if vamDir == "" {
		return "", fmt.Errorf("vam_dir is not configured; pass --vam-dir or set it in the config file")
	}
	abs, err := filepath.Abs(vamDir)
	if err != nil {
		return "", fmt.Errorf("resolving vam_dir: %w", err)
	}
	return abs, nil
}
