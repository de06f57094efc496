package selection

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var tax = Taxonomy{
	Technologies:  []string{"react", "ts"},
	Architectures: []string{"none", "hexagonal"},
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Tag
	}{
		{"project.md", Tag{Variant: Generic}},
		{"readme-writing", Tag{Variant: Generic}},
		{"react-hooks.md", Tag{Variant: TechTagged, Techs: []string{"react"}}},
		{"testing-ts.md", Tag{Variant: TechTagged, Techs: []string{"ts"}}},
		{"hexagonal-architecture.md", Tag{Variant: ArchTagged, Arch: "hexagonal"}},
		{"hexagonal-react-ts.md", Tag{Variant: DualTagged, Techs: []string{"react", "ts"}, Arch: "hexagonal"}},
		{"ports-hexagonal.md", Tag{Variant: Generic}},
		{"none-rule.md", Tag{Variant: Generic}},
		{"React-Patterns.MD", Tag{Variant: TechTagged, Techs: []string{"react"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.name, tax)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}

func TestGenericAlwaysEligible(t *testing.T) {
	selections := []struct {
		techs []string
		arch  string
	}{
		{nil, ArchNone},
		{[]string{"react"}, "hexagonal"},
		{[]string{"ts"}, ""},
	}
	for _, name := range []string{"project.md", "readme-writing", "implement-within", "code-review.md"} {
		for _, s := range selections {
			if !IsEligible(name, s.techs, s.arch, tax) {
				t.Errorf("generic %q not eligible for %v/%q", name, s.techs, s.arch)
			}
		}
	}
}

func TestSingleTagEligibility(t *testing.T) {
	tests := []struct {
		name  string
		item  string
		techs []string
		arch  string
		want  bool
	}{
		{"tech selected", "react-hooks.md", []string{"react"}, ArchNone, true},
		{"tech not selected", "react-hooks.md", []string{"ts"}, ArchNone, false},
		{"no techs", "react-hooks.md", nil, ArchNone, false},
		{"arch selected", "hexagonal-architecture.md", nil, "hexagonal", true},
		{"arch none", "hexagonal-architecture.md", []string{"react", "ts"}, ArchNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEligible(tt.item, tt.techs, tt.arch, tax); got != tt.want {
				t.Errorf("IsEligible(%q, %v, %q) = %v, want %v", tt.item, tt.techs, tt.arch, got, tt.want)
			}
		})
	}
}

func TestDualTagRequiresBothAxes(t *testing.T) {
	const item = "hexagonal-react-ts.md"
	tests := []struct {
		name  string
		techs []string
		arch  string
		want  bool
	}{
		{"both match", []string{"react"}, "hexagonal", true},
		{"other tech matches", []string{"ts"}, "hexagonal", true},
		{"only tech", []string{"react"}, ArchNone, false},
		{"only arch", nil, "hexagonal", false},
		{"neither", nil, ArchNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEligible(item, tt.techs, tt.arch, tax); got != tt.want {
				t.Errorf("IsEligible(%v, %q) = %v, want %v", tt.techs, tt.arch, got, tt.want)
			}
		})
	}

	// A single-tag item is selected by one axis alone; the dual-tag item is not.
	if !IsEligible("react-hooks.md", []string{"react"}, ArchNone, tax) {
		t.Error("single tech tag should match on its axis alone")
	}
	if IsEligible(item, []string{"react"}, ArchNone, tax) {
		t.Error("dual tag must not match on one axis")
	}
}

func TestProjectScenarioWithoutTechs(t *testing.T) {
	sel, err := New([]string{"claudecode"}, nil, ArchNone, LinkCopy, GitignoreAdd)
	if err != nil {
		t.Fatal(err)
	}
	if !sel.Eligible("project.md", tax) {
		t.Error("project.md should be eligible")
	}
	if sel.Eligible("react-hooks.md", tax) {
		t.Error("react-hooks.md should be excluded without techs")
	}
}

func TestNewSelection(t *testing.T) {
	tools := []string{"claudecode"}
	sel, err := New(tools, []string{"ts"}, "", LinkSymlink, GitignoreExceptions)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sel.GitignoreMode() != GitignoreAdd {
		t.Errorf("symlink mode must force add, got %q", sel.GitignoreMode())
	}
	if sel.Arch() != ArchNone {
		t.Errorf("empty arch = %q, want none", sel.Arch())
	}

	tools[0] = "mutated"
	sel.Tools()[0] = "mutated"
	if sel.Tools()[0] != "claudecode" {
		t.Error("selection must not share slices with callers")
	}

	copySel, err := New([]string{"opencode"}, nil, "hexagonal", LinkCopy, GitignoreExceptions)
	if err != nil {
		t.Fatal(err)
	}
	if copySel.GitignoreMode() != GitignoreExceptions {
		t.Errorf("copy mode gitignore = %q", copySel.GitignoreMode())
	}

	if _, err := New(nil, nil, "", LinkCopy, GitignoreAdd); !errors.Is(err, ErrNoTools) {
		t.Errorf("New without tools = %v, want ErrNoTools", err)
	}
	if _, err := New(tools, nil, "", "hardlink", GitignoreAdd); err == nil {
		t.Error("unknown link mode accepted")
	}
}

func TestSelectionCategories(t *testing.T) {
	sel, err := New([]string{"claudecode"}, nil, "", LinkCopy, GitignoreAdd)
	if err != nil {
		t.Fatal(err)
	}
	if !sel.HasCategory("agents") || sel.Categories() != nil {
		t.Errorf("default selection should include every category, got %v", sel.Categories())
	}

	limited := sel.WithCategories([]string{"rules", "skills"})
	if limited.HasCategory("agents") {
		t.Error("agents should not be selected")
	}
	if !limited.HasCategory("rules") {
		t.Error("rules should be selected")
	}
	if !sel.HasCategory("agents") {
		t.Error("WithCategories must not modify the receiver")
	}
}
