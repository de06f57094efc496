// Package catalog reads an agent catalog tree: rules, skills and agents
// split into generic and project-sensitive partitions, plus the root and
// config files tool profiles address by name.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Category is one of the item families a tool directory holds.
type Category string

const (
	Rules  Category = "rules"
	Skills Category = "skills"
	Agents Category = "agents"
)

// Categories returns every category in installation order.
func Categories() []Category {
	return []Category{Rules, Skills, Agents}
}

// Sensitivity tells whether an item is meant to be customized per project.
type Sensitivity int

const (
	Generic Sensitivity = iota
	ProjectSensitive
)

// Partition directory names below a category.
const (
	GenericDir          = "generic"
	ProjectSensitiveDir = "project-sensitive"
)

func (s Sensitivity) String() string {
	if s == ProjectSensitive {
		return ProjectSensitiveDir
	}
	return GenericDir
}

// Kind distinguishes single-file items from directory items (skills).
type Kind int

const (
	File Kind = iota
	Directory
)

// Item is a catalog entry. Its identity is Category plus Name.
type Item struct {
	Category    Category
	Name        string
	Sensitivity Sensitivity
	Kind        Kind
	// Path is the absolute on-disk location of the item.
	Path string
}

// Key returns the slash-separated identity, e.g. "skills/readme-writing".
func (i Item) Key() string {
	return string(i.Category) + "/" + i.Name
}

// Catalog is a catalog tree rooted at a directory.
type Catalog struct {
	root string
}

// Open returns the catalog rooted at root. The directory is not read
// until items are requested.
func Open(root string) *Catalog {
	return &Catalog{root: root}
}

// Items lists a category's items sorted by sensitivity then name. A
// missing category directory yields no items.
func (c *Catalog) Items(cat Category) ([]Item, error) {
	dir := filepath.Join(c.root, string(cat))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog category %s: %w", cat, err)
	}

	var items []Item
	for _, e := range entries {
		if skipEntry(e.Name()) {
			continue
		}
		switch {
		case e.IsDir() && e.Name() == GenericDir:
			part, err := c.partition(cat, filepath.Join(dir, GenericDir), Generic)
			if err != nil {
				return nil, err
			}
			items = append(items, part...)
		case e.IsDir() && e.Name() == ProjectSensitiveDir:
			part, err := c.partition(cat, filepath.Join(dir, ProjectSensitiveDir), ProjectSensitive)
			if err != nil {
				return nil, err
			}
			items = append(items, part...)
		default:
			items = append(items, newItem(cat, dir, e, Generic))
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Sensitivity != items[b].Sensitivity {
			return items[a].Sensitivity < items[b].Sensitivity
		}
		return items[a].Name < items[b].Name
	})
	return items, nil
}

// Lookup finds an item by name in either partition.
func (c *Catalog) Lookup(cat Category, name string) (Item, bool) {
	items, err := c.Items(cat)
	if err != nil {
		return Item{}, false
	}
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// File returns the path of a catalog-root file such as AGENTS.md and
// whether it exists as a regular file.
func (c *Catalog) File(name string) (string, bool) {
	p := filepath.Join(c.root, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return p, false
	}
	return p, true
}

func (c *Catalog) partition(cat Category, dir string, s Sensitivity) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var items []Item
	for _, e := range entries {
		if skipEntry(e.Name()) {
			continue
		}
		items = append(items, newItem(cat, dir, e, s))
	}
	return items, nil
}

func newItem(cat Category, dir string, e fs.DirEntry, s Sensitivity) Item {
	kind := File
	if e.IsDir() {
		kind = Directory
	}
	return Item{
		Category:    cat,
		Name:        e.Name(),
		Sensitivity: s,
		Kind:        kind,
		Path:        filepath.Join(dir, e.Name()),
	}
}

// skipEntry filters placeholders and hidden files.
func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".")
}
