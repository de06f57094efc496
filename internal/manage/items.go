package manage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/install"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/selection"
	"go.uber.org/zap"
)

// Scan is the state of one category in a project.
type Scan struct {
	// ProjectSensitive items are always included and never toggled.
	ProjectSensitive []string
	// Generic lists every generic item the stable mirror offers.
	Generic []string
	// Current lists the generic items installed in the project.
	Current []string
}

// ScanCategory compares the stable mirror with what the project holds.
// A generic item is current when it has an intermediate copy or an entry
// in one of the active tools' directories.
func (m *Manager) ScanCategory(cat catalog.Category, active []registry.Tool) (Scan, error) {
	var scan Scan
	items, err := m.Stable.Items(cat)
	if err != nil {
		return scan, err
	}

	installed := map[string]bool{}
	for _, name := range entryNames(install.GenericDir(m.intermediateDir(), cat)) {
		installed[name] = true
	}
	for _, t := range active {
		if rel, ok := t.Path(cat); ok {
			for _, name := range entryNames(filepath.Join(m.ProjectRoot, rel)) {
				installed[name] = true
			}
		}
	}

	for _, it := range items {
		if it.Sensitivity == catalog.ProjectSensitive {
			scan.ProjectSensitive = append(scan.ProjectSensitive, it.Name)
			continue
		}
		scan.Generic = append(scan.Generic, it.Name)
		if installed[it.Name] {
			scan.Current = append(scan.Current, it.Name)
		}
	}
	return scan, nil
}

// Change lists the generic items ApplyGeneric added and removed.
type Change struct {
	Added   []string
	Removed []string
}

// ApplyGeneric copies each added item into the intermediate directory and
// links it from every active tool, then deletes each removed item from the
// intermediate directory and every active tool. Added names missing from
// the stable mirror are skipped. An existing intermediate copy that differs
// from the stable item is a conflict resolved like at bootstrap.
func (m *Manager) ApplyGeneric(cat catalog.Category, add, remove []string, active []registry.Tool) (Change, error) {
	log := m.log()
	inter := m.intermediateDir()
	var change Change

	var items []catalog.Item
	for _, name := range add {
		item, ok := m.Stable.Lookup(cat, name)
		if !ok || item.Sensitivity != catalog.Generic {
			log.Debug("skipping unknown generic item", zap.String("category", string(cat)), zap.String("item", name))
			continue
		}
		items = append(items, item)
		change.Added = append(change.Added, name)
	}

	if len(items) > 0 {
		inst := install.New(install.Policy{
			ProjectRoot:     m.ProjectRoot,
			IntermediateDir: inter,
			LinkMode:        selection.LinkCopy,
			AlwaysCopy:      m.Registry.IsAlwaysCopy,
		}, nil, log)
		for _, t := range active {
			if _, err := inst.InstallCategory(t, cat, items); err != nil {
				return change, fmt.Errorf("adding %s items for %s: %w", cat, t.Label, err)
			}
		}
		resolver := &install.Resolver{
			Prompter:       m.Prompter,
			ProjectRoot:    m.ProjectRoot,
			AssumeDefaults: m.AssumeDefaults,
			Log:            log,
		}
		if _, err := resolver.Resolve(inst.Session().Conflicts()); err != nil {
			return change, err
		}
	}

	for _, name := range remove {
		targets := []string{filepath.Join(install.GenericDir(inter, cat), name)}
		if m.Registry.IsAlwaysCopy(cat, name) {
			targets = append(targets, filepath.Join(inter, string(cat), name))
		}
		for _, t := range active {
			if rel, ok := t.Path(cat); ok {
				targets = append(targets, filepath.Join(m.ProjectRoot, rel, name))
			}
		}
		for _, p := range targets {
			if err := platform.RemovePath(p); err != nil {
				return change, err
			}
		}
		change.Removed = append(change.Removed, name)
	}

	slices.Sort(change.Added)
	slices.Sort(change.Removed)
	return change, nil
}

// entryNames lists the visible entries of dir; a missing dir has none.
func entryNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.Name()[0] != '.' {
			names = append(names, e.Name())
		}
	}
	return names
}
