// Package manage changes an already bootstrapped project: it adds and
// removes tool integrations and toggles generic catalog items.
package manage

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/project"
	"github.com/mvagnon/agents/internal/prompt"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/ui"
	"go.uber.org/zap"
)

var (
	// ErrNotBootstrapped means the project has no intermediate directory.
	ErrNotBootstrapped = errors.New("project not bootstrapped")
	// ErrNoTools means no tool directory was found in the project.
	ErrNoTools = errors.New("no configured tools detected in this project")
)

// Manager edits one project against the stable mirror.
type Manager struct {
	ProjectRoot string
	// Stable is the stable mirror catalog new items are copied from.
	Stable   *catalog.Catalog
	Registry *registry.Registry
	Prompter prompt.Prompter
	// AssumeDefaults keeps existing config files without asking.
	AssumeDefaults bool
	Log            *zap.Logger
	// Now stamps the project manifest; nil means time.Now.
	Now func() time.Time
}

func (m *Manager) log() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Manager) intermediateDir() string {
	return project.IntermediateDir(m.ProjectRoot)
}

// Run is the interactive flow: pick the active tools, then the generic
// items of every category the active tools support.
func (m *Manager) Run() error {
	if !project.HasIntermediateDir(m.ProjectRoot) {
		return fmt.Errorf("%w: %s/ not found, run bootstrap first", ErrNotBootstrapped, branding.IntermediateDir())
	}
	current := m.DetectTools()
	if len(current) == 0 {
		return ErrNoTools
	}

	p := m.Prompter
	p.Intro("Manage → " + m.ProjectRoot)

	active, err := m.chooseTools(current)
	if err != nil {
		return err
	}

	cats, err := m.categories()
	if err != nil {
		return err
	}
	for _, cat := range supportedCategories(cats, active) {
		if err := m.manageCategory(cat, active); err != nil {
			return err
		}
	}

	p.Outro("Done")
	return nil
}

func (m *Manager) chooseTools(current []registry.Tool) ([]registry.Tool, error) {
	p := m.Prompter
	isCurrent := map[string]bool{}
	for _, t := range current {
		isCurrent[t.Key] = true
	}

	var opts []prompt.Option
	for _, t := range m.Registry.Tools() {
		opts = append(opts, prompt.Option{Value: t.Key, Label: t.Label, Hint: t.Hint, Selected: isCurrent[t.Key]})
	}
	keys, err := p.MultiSelect("Select tools", opts, true)
	if err != nil {
		return nil, err
	}
	active, err := m.Registry.ToolsByKey(keys)
	if err != nil {
		return nil, err
	}

	// Tools being replaced still hold the stable links a new tool copies,
	// so they stay peers until every addition is done.
	peers := slices.Clone(current)
	for _, t := range active {
		if !isCurrent[t.Key] {
			peers = append(peers, t)
		}
	}

	var added, removed []string
	for _, t := range active {
		if isCurrent[t.Key] {
			continue
		}
		if err := m.AddTool(t, peers); err != nil {
			return nil, fmt.Errorf("adding %s: %w", t.Label, err)
		}
		added = append(added, t.Label)
	}
	for _, t := range current {
		if slices.Contains(keys, t.Key) {
			continue
		}
		if err := m.RemoveTool(t, active); err != nil {
			return nil, fmt.Errorf("removing %s: %w", t.Label, err)
		}
		removed = append(removed, t.Label)
	}

	if len(added)+len(removed) == 0 {
		p.Log(prompt.LevelInfo, "Tools: no changes")
	} else {
		p.Log(prompt.LevelSuccess, "Tools: "+describeChanges(added, removed))
	}
	return active, nil
}

func (m *Manager) manageCategory(cat catalog.Category, active []registry.Tool) error {
	p := m.Prompter
	scan, err := m.ScanCategory(cat, active)
	if err != nil {
		return err
	}
	title := ui.Capitalize(string(cat))

	if len(scan.ProjectSensitive) > 0 {
		p.Note(strings.Join(scan.ProjectSensitive, ", "), title+" · project-sensitive (always included)")
	}
	if len(scan.Generic) == 0 {
		return nil
	}

	opts := make([]prompt.Option, 0, len(scan.Generic))
	for _, name := range scan.Generic {
		opts = append(opts, prompt.Option{Value: name, Label: name, Selected: slices.Contains(scan.Current, name)})
	}
	selected, err := p.MultiSelect("Select generic "+string(cat), opts, false)
	if err != nil {
		return err
	}

	add, remove := diff(scan.Current, selected)
	if len(add)+len(remove) == 0 {
		p.Log(prompt.LevelInfo, title+": no changes")
		return nil
	}

	change, err := m.ApplyGeneric(cat, add, remove, active)
	if err != nil {
		return err
	}
	p.Log(prompt.LevelSuccess, title+": "+describeChanges(change.Added, change.Removed))
	return nil
}

func supportedCategories(all []catalog.Category, tools []registry.Tool) []catalog.Category {
	var cats []catalog.Category
	for _, c := range all {
		for _, t := range tools {
			if _, ok := t.Path(c); ok {
				cats = append(cats, c)
				break
			}
		}
	}
	return cats
}

// diff returns what next adds to and removes from prev.
func diff(prev, next []string) (add, remove []string) {
	for _, n := range next {
		if !slices.Contains(prev, n) {
			add = append(add, n)
		}
	}
	for _, p := range prev {
		if !slices.Contains(next, p) {
			remove = append(remove, p)
		}
	}
	return add, remove
}

func describeChanges(added, removed []string) string {
	var parts []string
	if len(added) > 0 {
		parts = append(parts, "added: "+strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		parts = append(parts, "removed: "+strings.Join(removed, ", "))
	}
	return strings.Join(parts, " | ")
}
