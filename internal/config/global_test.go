package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGlobalConfig(t *testing.T) {
	gc := DefaultGlobalConfig()

	if gc.CacheFileName != "vam_pkg_cache.db" {
		t.Errorf("expected default cache file name, got %q", gc.CacheFileName)
	}
	if gc.MaxDepTreeDepth != 6 {
		t.Errorf("expected default max dep tree depth 6, got %d", gc.MaxDepTreeDepth)
	}
	if gc.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %q", gc.Logging.Level)
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	gc := &GlobalConfig{Logging: LoggingConfig{Level: "debug"}}
	if err := gc.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gc.MaxDepTreeDepth != 6 {
		t.Errorf("expected MaxDepTreeDepth to default to 6, got %d", gc.MaxDepTreeDepth)
	}
	if gc.CacheFileName != "vam_pkg_cache.db" {
		t.Errorf("expected CacheFileName to default, got %q", gc.CacheFileName)
	}
}

func TestValidateRejectsDepthOverLimit(t *testing.T) {
	gc := &GlobalConfig{MaxDepTreeDepth: 65, Logging: LoggingConfig{Level: "info"}}
	if err := gc.Validate(); err == nil {
		t.Error("expected error for max_dep_tree_depth > 64")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	gc := &GlobalConfig{Logging: LoggingConfig{Level: "verbose"}}
	if err := gc.Validate(); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestLoadGlobalConfigMissingFileReturnsDefaults(t *testing.T) {
	gc, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gc.CacheFileName != "vam_pkg_cache.db" {
		t.Errorf("expected default config on missing file, got %+v", gc)
	}
}

func TestLoadGlobalConfigEmptyPathReturnsDefaults(t *testing.T) {
	gc, err := LoadGlobalConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gc.MaxDepTreeDepth != 6 {
		t.Errorf("expected default config for empty path, got %+v", gc)
	}
}

func TestLoadGlobalConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vam-pkgmgr.yml")
	content := `vam_dir: /vam
cache_file_name: custom_cache.db
max_dep_tree_depth: 10
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	gc, err := LoadGlobalConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gc.VamDir != "/vam" {
		t.Errorf("VamDir = %q, want /vam", gc.VamDir)
	}
	if gc.CacheFileName != "custom_cache.db" {
		t.Errorf("CacheFileName = %q, want custom_cache.db", gc.CacheFileName)
	}
	if gc.MaxDepTreeDepth != 10 {
		t.Errorf("MaxDepTreeDepth = %d, want 10", gc.MaxDepTreeDepth)
	}
	if gc.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", gc.Logging.Level)
	}
}

func TestLoadGlobalConfigRejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("vam_dir = \"/vam\""), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGlobalConfig(path); err == nil {
		t.Error("expected error for unsupported config file extension")
	}
}

func TestLoadGlobalConfigRejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vam-pkgmgr.yml")
	content := "logging:\n  level: bogus\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGlobalConfig(path); err == nil {
		t.Error("expected error for invalid log level in config file")
	}
}

func TestSaveGlobalConfigWithCommentsRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "vam-pkgmgr.yml")
	gc := DefaultGlobalConfig()
	gc.VamDir = "/opt/VaM"

	if err := gc.SaveGlobalConfigWithComments(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadGlobalConfig(path)
	if err != nil {
		t.Fatalf("unexpected error loading saved config: %v", err)
	}
	if loaded.VamDir != "/opt/VaM" {
		t.Errorf("VamDir = %q, want /opt/VaM", loaded.VamDir)
	}
	if loaded.CacheFileName != gc.CacheFileName {
		t.Errorf("CacheFileName = %q, want %q", loaded.CacheFileName, gc.CacheFileName)
	}
}

func TestGlobalSingletonDefaultsWhenUnset(t *testing.T) {
	SetGlobal(DefaultGlobalConfig())
	gc := Global()
	if gc == nil {
		t.Fatal("expected non-nil global config")
	}
}

func TestEnsureVamDirRequiresVamDir(t *testing.T) {
	SetGlobal(&GlobalConfig{})
	if _, err := EnsureVamDir(); err == nil {
		t.Error("expected error when vam_dir is unset")
	}
}

func TestEnsureVamDirResolvesAbsolute(t *testing.T) {
	SetGlobal(&GlobalConfig{VamDir: "relative/path"})
	abs, err := EnsureVamDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("expected absolute path, got %q", abs)
	}
}

func TestGetConfigPathsIncludesDefaultNames(t *testing.T) {
	paths := GetConfigPaths()
	found := false
	for _, p := range paths {
		if p == "vam-pkgmgr.yml" {
			found = true
		}
	}
	if !found {
		t.Error("expected vam-pkgmgr.yml among default config paths")
	}
}
