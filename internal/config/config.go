// Package config holds the user settings that locate the stable mirror, the
// catalog it is synced from and an optional registry override. Settings
// live in ~/.mvagnon/config.yaml and are read through viper, so every key
// can also come from a MVAGNON_-prefixed environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

const (
	// KeyStableDir is the base directory of the stable mirror.
	KeyStableDir = "stable_dir"
	// KeyCatalogDir is the catalog a sync copies from.
	KeyCatalogDir = "catalog_dir"
	// KeyRegistryFile replaces the built-in tool registry.
	KeyRegistryFile = "registry_file"
)

// Keys lists the keys accepted by Set, in display order.
func Keys() []string {
	return []string{KeyStableDir, KeyCatalogDir, KeyRegistryFile}
}

// Dir is ~/.mvagnon, or a relative .mvagnon when there is no home.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath is the settings file inside Dir.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates Dir.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", dir, err)
	}
	return nil
}

// Load points viper at the settings file and the environment. A missing
// or unreadable file leaves only environment values.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// Get returns the value for key, or "" when unset.
func Get(key string) string {
	return viper.GetString(key)
}

// Set stores value under a known key and rewrites the settings file.
func Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("unknown config key %q (known: %v)", key, Keys())
	}
	if err := EnsureDir(); err != nil {
		return err
	}
	viper.Set(key, value)
	if err := viper.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing %s: %w", FilePath(), err)
	}
	return nil
}

// FirstNonEmpty picks the first set value. Callers pass a flag first, then
// the environment or Get lookups.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
