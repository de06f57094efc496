// Package project locates the per-project state directory and reads and
// writes the manifest recording how the project was bootstrapped.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/selection"
	"go.yaml.in/yaml/v3"
)

const manifestFile = "project.yaml"

// ErrNoManifest is returned by Load when the project was never bootstrapped
// by this version of the CLI.
var ErrNoManifest = errors.New("project manifest not found")

// Manifest is the .mvagnon/project.yaml structure.
type Manifest struct {
	Tools          []string  `yaml:"tools"`
	Technologies   []string  `yaml:"technologies,omitempty"`
	Architecture   string    `yaml:"architecture,omitempty"`
	Categories     []string  `yaml:"categories,omitempty"`
	LinkMode       string    `yaml:"link_mode"`
	GitignoreMode  string    `yaml:"gitignore_mode,omitempty"`
	CatalogVersion string    `yaml:"catalog_version,omitempty"`
	InstalledAt    time.Time `yaml:"installed_at"`
	UpdatedAt      time.Time `yaml:"updated_at,omitempty"`
}

// FromSelection records a bootstrap selection.
func FromSelection(sel selection.Selection, catalogVersion string, now time.Time) *Manifest {
	return &Manifest{
		Tools:          sel.Tools(),
		Technologies:   sel.Techs(),
		Architecture:   sel.Arch(),
		Categories:     sel.Categories(),
		LinkMode:       string(sel.LinkMode()),
		GitignoreMode:  string(sel.GitignoreMode()),
		CatalogVersion: catalogVersion,
		InstalledAt:    now.UTC(),
	}
}

// StateDir returns <project>/.mvagnon.
func StateDir(projectRoot string) string {
	return filepath.Join(projectRoot, branding.HomeDir())
}

// IntermediateDir returns <project>/.mvagnon/agents.
func IntermediateDir(projectRoot string) string {
	return filepath.Join(projectRoot, branding.IntermediateDir())
}

// ManifestPath returns the full path to .mvagnon/project.yaml.
func ManifestPath(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), manifestFile)
}

// HasIntermediateDir reports whether the project holds intermediate copies.
func HasIntermediateDir(projectRoot string) bool {
	info, err := os.Stat(IntermediateDir(projectRoot))
	return err == nil && info.IsDir()
}

// Load reads the manifest. A missing file yields ErrNoManifest.
func Load(projectRoot string) (*Manifest, error) {
	data, err := os.ReadFile(ManifestPath(projectRoot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoManifest
	}
	if err != nil {
		return nil, fmt.Errorf("reading project manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing project manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest, creating .mvagnon/ when needed.
func Save(projectRoot string, m *Manifest) error {
	if err := os.MkdirAll(StateDir(projectRoot), 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", branding.HomeDir(), err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling project manifest: %w", err)
	}
	if err := os.WriteFile(ManifestPath(projectRoot), data, 0644); err != nil {
		return fmt.Errorf("writing project manifest: %w", err)
	}
	return nil
}

// AddTool records key as active. It reports whether the list changed.
func (m *Manifest) AddTool(key string) bool {
	if slices.Contains(m.Tools, key) {
		return false
	}
	m.Tools = append(m.Tools, key)
	return true
}

// RemoveTool drops key. It reports whether the list changed.
func (m *Manifest) RemoveTool(key string) bool {
	i := slices.Index(m.Tools, key)
	if i < 0 {
		return false
	}
	m.Tools = slices.Delete(m.Tools, i, i+1)
	return true
}

// HasCategory reports whether the project installs items of category.
// Manifests without a category list install every category.
func (m *Manifest) HasCategory(category string) bool {
	return len(m.Categories) == 0 || slices.Contains(m.Categories, category)
}

// InstalledCategories returns the categories the project installs, in
// installation order. A nil manifest installs every category.
func (m *Manifest) InstalledCategories() []catalog.Category {
	if m == nil {
		return catalog.Categories()
	}
	var cats []catalog.Category
	for _, c := range catalog.Categories() {
		if m.HasCategory(string(c)) {
			cats = append(cats, c)
		}
	}
	return cats
}

// Touch stamps the manifest as updated.
func (m *Manifest) Touch(now time.Time) {
	m.UpdatedAt = now.UTC()
}
