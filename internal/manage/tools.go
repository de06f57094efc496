package manage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/gitignore"
	"github.com/mvagnon/agents/internal/install"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/project"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/selection"
	"go.uber.org/zap"
)

// DetectTools returns the registry tools with at least one category
// directory present in projectRoot.
func DetectTools(projectRoot string, reg *registry.Registry) []registry.Tool {
	var found []registry.Tool
	for _, t := range reg.Tools() {
		for _, c := range catalog.Categories() {
			rel, ok := t.Path(c)
			if ok && platform.Exists(filepath.Join(projectRoot, rel)) {
				found = append(found, t)
				break
			}
		}
	}
	return found
}

// DetectTools returns the tools active in the managed project.
func (m *Manager) DetectTools() []registry.Tool {
	return DetectTools(m.ProjectRoot, m.Registry)
}

// AddTool makes tool active: it creates the tool's directories, links
// every item already stored in the intermediate directory, reuses the
// stable links found in the peers' directories, links root files and
// copies config files.
func (m *Manager) AddTool(tool registry.Tool, peers []registry.Tool) error {
	log := m.log()
	inter := m.intermediateDir()

	manifest, err := m.loadManifest()
	if err != nil {
		return err
	}

	for _, c := range manifest.InstalledCategories() {
		rel, ok := tool.Path(c)
		if !ok {
			continue
		}
		toolDir := filepath.Join(m.ProjectRoot, rel)
		if err := os.MkdirAll(toolDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", rel, err)
		}

		for _, dir := range []string{filepath.Join(inter, string(c)), install.GenericDir(inter, c)} {
			if err := linkStored(dir, toolDir); err != nil {
				return err
			}
		}
		if err := m.copyStableLinks(tool, c, peers, toolDir); err != nil {
			return err
		}
		log.Debug("linked category", zap.String("tool", tool.Key), zap.String("category", string(c)))
	}

	for _, mp := range tool.RootFileMappings() {
		stored := install.RootFilePath(inter, mp.Source)
		if !platform.Exists(stored) {
			src, ok := m.Stable.File(mp.Source)
			if !ok {
				continue
			}
			if err := platform.CopyPath(src, stored); err != nil {
				return fmt.Errorf("copying %s: %w", mp.Source, err)
			}
		}
		if err := platform.CreateRelativeSymlink(stored, filepath.Join(m.ProjectRoot, mp.Dest)); err != nil {
			return fmt.Errorf("linking %s: %w", mp.Dest, err)
		}
	}

	inst := install.New(install.Policy{ProjectRoot: m.ProjectRoot, IntermediateDir: inter}, nil, log)
	if _, err := inst.InstallConfigFiles(tool, m.Stable); err != nil {
		return err
	}
	resolver := &install.Resolver{
		Prompter:       m.Prompter,
		ProjectRoot:    m.ProjectRoot,
		AssumeDefaults: m.AssumeDefaults,
		Log:            log,
	}
	if _, err := resolver.Resolve(inst.Session().Conflicts()); err != nil {
		return err
	}

	exceptions := manifest != nil && manifest.GitignoreMode == string(selection.GitignoreExceptions)
	if _, err := gitignore.AddSection(m.ProjectRoot, tool.Label, tool.GitignoreEntries, exceptions); err != nil {
		return err
	}
	if manifest != nil && manifest.AddTool(tool.Key) {
		return m.saveManifest(manifest)
	}
	return nil
}

// RemoveTool makes tool absent. Its category directories only hold links,
// so the intermediate copies survive. Root files stay while another active
// tool maps the same destination.
func (m *Manager) RemoveTool(tool registry.Tool, remaining []registry.Tool) error {
	for _, c := range catalog.Categories() {
		if rel, ok := tool.Path(c); ok {
			if err := platform.RemovePath(filepath.Join(m.ProjectRoot, rel)); err != nil {
				return err
			}
		}
	}

	shared := map[string]bool{}
	for _, t := range remaining {
		if t.Key == tool.Key {
			continue
		}
		for _, mp := range t.RootFileMappings() {
			shared[mp.Dest] = true
		}
	}
	for _, mp := range tool.RootFileMappings() {
		if shared[mp.Dest] {
			continue
		}
		if err := platform.RemovePath(filepath.Join(m.ProjectRoot, mp.Dest)); err != nil {
			return err
		}
	}

	var parents []string
	for _, mp := range tool.ConfigFileMappings() {
		if err := platform.RemovePath(filepath.Join(m.ProjectRoot, mp.Dest)); err != nil {
			return err
		}
		if dir := filepath.Dir(filepath.FromSlash(mp.Dest)); dir != "." {
			parents = append(parents, dir)
		}
	}
	for _, dir := range append(tool.TopLevelDirs(), parents...) {
		platform.RemoveIfEmpty(filepath.Join(m.ProjectRoot, dir))
	}

	if _, err := gitignore.RemoveSection(m.ProjectRoot, tool.Label); err != nil {
		return err
	}

	m.log().Debug("removed tool", zap.String("tool", tool.Key))

	manifest, err := m.loadManifest()
	if err != nil {
		return err
	}
	if manifest != nil && manifest.RemoveTool(tool.Key) {
		return m.saveManifest(manifest)
	}
	return nil
}

// linkStored links every entry of an intermediate directory into toolDir.
func linkStored(dir, toolDir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Missing storage for a category is normal.
		return nil
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || e.Type()&os.ModeSymlink != 0 {
			continue
		}
		if err := platform.CreateRelativeSymlink(filepath.Join(dir, e.Name()), filepath.Join(toolDir, e.Name())); err != nil {
			return fmt.Errorf("linking %s: %w", e.Name(), err)
		}
	}
	return nil
}

// copyStableLinks gives the new tool the absolute stable-mirror links its
// peers already have. Symlink-mode generic items have no intermediate
// copy, so they are only discoverable there.
func (m *Manager) copyStableLinks(tool registry.Tool, c catalog.Category, peers []registry.Tool, toolDir string) error {
	for _, peer := range peers {
		if peer.Key == tool.Key {
			continue
		}
		rel, ok := peer.Path(c)
		if !ok {
			continue
		}
		peerDir := filepath.Join(m.ProjectRoot, rel)
		entries, err := os.ReadDir(peerDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			link := filepath.Join(peerDir, e.Name())
			if !platform.IsSymlink(link) {
				continue
			}
			target, err := platform.ReadSymlinkTarget(link)
			if err != nil || !filepath.IsAbs(target) || !platform.Exists(target) {
				continue
			}
			dest := filepath.Join(toolDir, e.Name())
			if platform.Exists(dest) {
				continue
			}
			if err := platform.CreateAbsoluteSymlink(target, dest); err != nil {
				return fmt.Errorf("linking %s: %w", e.Name(), err)
			}
		}
	}
	return nil
}

// categories returns the categories the project installs.
func (m *Manager) categories() ([]catalog.Category, error) {
	manifest, err := m.loadManifest()
	if err != nil {
		return nil, err
	}
	return manifest.InstalledCategories(), nil
}

// loadManifest returns nil for projects bootstrapped without a manifest.
func (m *Manager) loadManifest() (*project.Manifest, error) {
	manifest, err := project.Load(m.ProjectRoot)
	if errors.Is(err, project.ErrNoManifest) {
		return nil, nil
	}
	return manifest, err
}

func (m *Manager) saveManifest(manifest *project.Manifest) error {
	manifest.Touch(m.now())
	return project.Save(m.ProjectRoot, manifest)
}
