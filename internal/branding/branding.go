// Package branding provides compile-time identity values for the CLI.
//
// Forks edit branding.yaml and rebuild; Go's //go:embed bakes it into the
// binary so every path and env var name derives from one place.
package branding

import (
	_ "embed"
	"path/filepath"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	StableNamespace string `yaml:"stable_namespace"`
	BundleDir       string `yaml:"bundle_dir"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:         "mvagnon-agents",
			DisplayName:     "mvagnon agents",
			Description:     "Bootstrap AI coding assistant rules, skills and agents into a project",
			HomeDir:         ".mvagnon",
			EnvPrefix:       "MVAGNON",
			StableNamespace: "mvagnon/agents",
			BundleDir:       "share/mvagnon-agents",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "mvagnon-agents").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name used under $HOME and under each
// project root (e.g., ".mvagnon").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "MVAGNON").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// StableNamespace returns the slash-separated namespace appended to the
// platform shared directory to form the stable mirror base.
func StableNamespace() string { load(); return filepath.FromSlash(defaults.StableNamespace) }

// BundleDir returns the catalog location relative to the directory above
// the binary in packaged releases.
func BundleDir() string { load(); return filepath.FromSlash(defaults.BundleDir) }

// IntermediateDir returns the project-relative staging directory holding
// the single physical copy of customizable items (e.g., ".mvagnon/agents").
func IntermediateDir() string {
	load()
	return filepath.Join(defaults.HomeDir, "agents")
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("catalog") → "MVAGNON_CATALOG".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
