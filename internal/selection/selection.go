// Package selection holds the user's bootstrap choices and decides which
// catalog items those choices make eligible.
package selection

import (
	"errors"
	"fmt"
	"slices"
)

// LinkMode controls how generic items reach tool directories.
type LinkMode string

const (
	// LinkSymlink points generic items at the stable mirror so they follow
	// catalog updates.
	LinkSymlink LinkMode = "symlink"
	// LinkCopy copies every item into the intermediate directory once.
	LinkCopy LinkMode = "copy"
)

// GitignoreMode controls the entries written to the project .gitignore.
type GitignoreMode string

const (
	GitignoreAdd        GitignoreMode = "add"
	GitignoreExceptions GitignoreMode = "exceptions"
)

// Selection is an immutable set of bootstrap choices.
type Selection struct {
	tools     []string
	techs     []string
	arch      string
	link      LinkMode
	gitignore GitignoreMode
	// categories is nil when every category is selected.
	categories []string
}

// ErrNoTools is returned by New when no tool was chosen.
var ErrNoTools = errors.New("at least one tool must be selected")

// New validates and builds a selection. Symlink mode always ignores the
// generated entries, so it forces GitignoreAdd. An empty arch means none.
func New(tools, techs []string, arch string, link LinkMode, gitignore GitignoreMode) (Selection, error) {
	if len(tools) == 0 {
		return Selection{}, ErrNoTools
	}
	switch link {
	case LinkSymlink, LinkCopy:
	default:
		return Selection{}, fmt.Errorf("unknown link mode %q", link)
	}
	switch gitignore {
	case GitignoreAdd, GitignoreExceptions:
	case "":
		gitignore = GitignoreAdd
	default:
		return Selection{}, fmt.Errorf("unknown gitignore mode %q", gitignore)
	}
	if link == LinkSymlink {
		gitignore = GitignoreAdd
	}
	if arch == "" {
		arch = ArchNone
	}
	return Selection{
		tools:     slices.Clone(tools),
		techs:     slices.Clone(techs),
		arch:      arch,
		link:      link,
		gitignore: gitignore,
	}, nil
}

// Tools returns the selected tool keys.
func (s Selection) Tools() []string { return slices.Clone(s.tools) }

// Techs returns the selected technologies.
func (s Selection) Techs() []string { return slices.Clone(s.techs) }

// Arch returns the selected architecture, ArchNone when there is none.
func (s Selection) Arch() string { return s.arch }

func (s Selection) LinkMode() LinkMode { return s.link }

func (s Selection) GitignoreMode() GitignoreMode { return s.gitignore }

// WithCategories returns a copy of s limited to the given item categories.
// A nil slice selects every category.
func (s Selection) WithCategories(categories []string) Selection {
	s.categories = slices.Clone(categories)
	return s
}

// Categories returns the selected categories, nil when all are selected.
func (s Selection) Categories() []string { return slices.Clone(s.categories) }

// HasCategory reports whether items of category are installed.
func (s Selection) HasCategory(category string) bool {
	return s.categories == nil || slices.Contains(s.categories, category)
}

// Eligible reports whether the item name is selected under tax.
func (s Selection) Eligible(name string, tax Taxonomy) bool {
	return IsEligible(name, s.techs, s.arch, tax)
}
