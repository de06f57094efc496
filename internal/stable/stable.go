// Package stable maintains the per-user replica of the catalog that
// symlink-mode projects point at. Every run refreshes it from the active
// catalog source so linked items pick up upstream changes.
package stable

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/config"
	"github.com/mvagnon/agents/internal/fsmirror"
	"github.com/mvagnon/agents/internal/platform"
	"go.uber.org/zap"
)

const (
	configDirName   = "config"
	versionFileName = "version"
)

// DefaultBase returns the platform default location of the stable mirror:
// /Users/Shared/mvagnon/agents on macOS, the user config directory on
// Windows and ~/.local/share/mvagnon/agents elsewhere.
func DefaultBase() (string, error) {
	ns := branding.StableNamespace()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join("/Users", "Shared", ns), nil
	case "windows":
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolving user config directory: %w", err)
		}
		return filepath.Join(dir, ns), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", ns), nil
	}
}

// ResolveBase picks the stable base: override (the --stable-dir flag),
// then config key stable_dir (or MVAGNON_STABLE_DIR), then DefaultBase.
func ResolveBase(override string) (string, error) {
	if dir := config.FirstNonEmpty(override, config.Get(config.KeyStableDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultBase()
}

// Mirror is the stable mirror rooted at an explicit base directory.
type Mirror struct {
	Base string
	log  *zap.Logger
}

// New returns the mirror at base. A nil logger is replaced by a no-op one.
func New(base string, log *zap.Logger) *Mirror {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mirror{Base: base, log: log}
}

// ConfigDir returns the mirrored catalog directory.
func (m *Mirror) ConfigDir() string {
	return filepath.Join(m.Base, configDirName)
}

// Catalog opens the mirrored catalog.
func (m *Mirror) Catalog() *catalog.Catalog {
	return catalog.Open(m.ConfigDir())
}

// Version returns the content of the version marker, or "" when absent.
func (m *Mirror) Version() string {
	data, err := os.ReadFile(filepath.Join(m.Base, versionFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Result reports a sync.
type Result struct {
	fsmirror.Report `yaml:",inline"`
	Version         string `json:"version,omitempty" yaml:"version,omitempty"`
	Previous        string `json:"previous,omitempty" yaml:"previous,omitempty"`
	Downgrade       bool   `json:"downgrade,omitempty" yaml:"downgrade,omitempty"`
}

// Sync makes the config directory mirror src and records version in the
// marker file. An empty version leaves the marker untouched. Syncing an
// older version than the recorded one is allowed but flagged.
func (m *Mirror) Sync(src fs.FS, version string) (Result, error) {
	res := Result{Previous: m.Version(), Version: version}

	if err := platform.EnsureDir(m.Base, 0755); err != nil {
		return res, fmt.Errorf("creating stable directory: %w", err)
	}

	report, err := fsmirror.Sync(src, m.ConfigDir(), fsmirror.Options{PruneEmpty: true})
	res.Report = report
	if err != nil {
		return res, fmt.Errorf("syncing stable mirror: %w", err)
	}

	if version == "" {
		return res, nil
	}
	if res.Previous != "" && res.Previous != version {
		older, err := IsOlder(version, res.Previous)
		switch {
		case err != nil:
			m.log.Debug("version marker not comparable", zap.String("previous", res.Previous), zap.String("version", version), zap.Error(err))
		case older:
			res.Downgrade = true
			m.log.Warn("stable mirror downgraded", zap.String("from", res.Previous), zap.String("to", version))
		}
	}
	if res.Previous != version {
		if err := os.WriteFile(filepath.Join(m.Base, versionFileName), []byte(version+"\n"), 0644); err != nil {
			return res, fmt.Errorf("writing version marker: %w", err)
		}
	}

	m.log.Debug("stable mirror synced",
		zap.String("dir", m.ConfigDir()),
		zap.Int("added", len(res.Added)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("removed", len(res.Removed)))
	return res, nil
}

