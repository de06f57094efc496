package registry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/selection"
	"go.yaml.in/yaml/v3"
)

//go:embed registry.yaml
var defaultRegistry []byte

// Choice is a selectable technology or architecture.
type Choice struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
	Hint  string `yaml:"hint,omitempty"`
}

// Tool is the profile of one AI tool: where each category lives in a
// project and which catalog root and config files it receives.
type Tool struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Hint  string `yaml:"hint,omitempty"`
	// Paths maps a category to its project-relative directory.
	Paths map[catalog.Category]string `yaml:"paths"`
	// RootFiles maps a catalog root file to its project destination. They
	// are linked through the intermediate directory.
	RootFiles map[string]string `yaml:"root_files,omitempty"`
	// ConfigFiles maps a catalog root file to its project destination.
	// They are always copied.
	ConfigFiles      map[string]string `yaml:"config_files,omitempty"`
	GitignoreEntries []string          `yaml:"gitignore_entries,omitempty"`
}

// Path returns the project-relative directory for a category.
func (t Tool) Path(cat catalog.Category) (string, bool) {
	p, ok := t.Paths[cat]
	return p, ok && p != ""
}

// Mapping is a source file name and its project destination.
type Mapping struct {
	Source string
	Dest   string
}

// RootFileMappings returns RootFiles sorted by source.
func (t Tool) RootFileMappings() []Mapping { return sortedMappings(t.RootFiles) }

// ConfigFileMappings returns ConfigFiles sorted by source.
func (t Tool) ConfigFileMappings() []Mapping { return sortedMappings(t.ConfigFiles) }

// TopLevelDirs returns the distinct first path elements of Paths, e.g.
// ".claude" for ".claude/rules".
func (t Tool) TopLevelDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for _, cat := range catalog.Categories() {
		p, ok := t.Path(cat)
		if !ok {
			continue
		}
		top := firstElem(p)
		if !seen[top] {
			seen[top] = true
			dirs = append(dirs, top)
		}
	}
	return dirs
}

// Registry is the validated set of tools and tag vocabulary.
type Registry struct {
	TechnologyChoices   []Choice                       `yaml:"technologies"`
	ArchitectureChoices []Choice                       `yaml:"architectures"`
	AlwaysCopyNames     map[catalog.Category][]string `yaml:"always_copy,omitempty"`
	ToolProfiles        []Tool                         `yaml:"tools"`
}

// Load returns the embedded default registry.
func Load() (*Registry, error) {
	return Parse(defaultRegistry)
}

// LoadFile reads and validates a registry override file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// LoadWithOverride loads path when it is non-empty, the embedded registry
// otherwise.
func LoadWithOverride(path string) (*Registry, error) {
	if path == "" {
		return Load()
	}
	return LoadFile(path)
}

// Parse validates YAML against the registry schema and decodes it.
func Parse(data []byte) (*Registry, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decoding registry: %w", err)
	}
	seen := map[string]bool{}
	for _, t := range reg.ToolProfiles {
		if seen[t.Key] {
			return nil, fmt.Errorf("duplicate tool key %q", t.Key)
		}
		seen[t.Key] = true
	}
	return &reg, nil
}

// Tools returns every tool profile in declaration order.
func (r *Registry) Tools() []Tool { return r.ToolProfiles }

// Tool looks up a profile by key.
func (r *Registry) Tool(key string) (Tool, bool) {
	for _, t := range r.ToolProfiles {
		if t.Key == key {
			return t, true
		}
	}
	return Tool{}, false
}

// ToolsByKey resolves keys to profiles, preserving order. Unknown keys are
// an error.
func (r *Registry) ToolsByKey(keys []string) ([]Tool, error) {
	tools := make([]Tool, 0, len(keys))
	for _, k := range keys {
		t, ok := r.Tool(k)
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", k)
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func (r *Registry) Technologies() []Choice { return r.TechnologyChoices }

func (r *Registry) Architectures() []Choice { return r.ArchitectureChoices }

// Categories returns the item categories in installation order.
func (r *Registry) Categories() []catalog.Category { return catalog.Categories() }

// IsAlwaysCopy reports whether a generic item must still be stored in the
// project so it can be edited.
func (r *Registry) IsAlwaysCopy(cat catalog.Category, name string) bool {
	for _, n := range r.AlwaysCopyNames[cat] {
		if n == name || n == trimExt(name) {
			return true
		}
	}
	return false
}

// Taxonomy returns the token sets used to classify item names.
func (r *Registry) Taxonomy() selection.Taxonomy {
	var tax selection.Taxonomy
	for _, c := range r.TechnologyChoices {
		tax.Technologies = append(tax.Technologies, c.Value)
	}
	for _, c := range r.ArchitectureChoices {
		tax.Architectures = append(tax.Architectures, c.Value)
	}
	return tax
}

func sortedMappings(m map[string]string) []Mapping {
	out := make([]Mapping, 0, len(m))
	for src, dst := range m {
		out = append(out, Mapping{Source: src, Dest: dst})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}
