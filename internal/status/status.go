// Package status reports the health of the links a project's tools hold.
package status

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/ui"
)

// Links counts the symlinks found in one place.
type Links struct {
	Total int `json:"total" yaml:"total"`
	Valid int `json:"valid" yaml:"valid"`
}

// Broken returns the number of links whose target is gone.
func (l Links) Broken() int { return l.Total - l.Valid }

// ToolStatus is the link health of one tool.
type ToolStatus struct {
	Tool       string                     `json:"tool" yaml:"tool"`
	Label      string                     `json:"label" yaml:"label"`
	Categories map[catalog.Category]Links `json:"categories" yaml:"categories"`
	// Copies counts regular entries (copy fallback or user files).
	Copies    int      `json:"copies" yaml:"copies"`
	RootFiles Links    `json:"root_files" yaml:"root_files"`
	Missing   []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	// BrokenPaths lists project-relative paths of broken links.
	BrokenPaths []string `json:"broken,omitempty" yaml:"broken,omitempty"`
}

// Healthy reports whether the tool has no broken link and no missing
// directory.
func (s ToolStatus) Healthy() bool {
	return len(s.BrokenPaths) == 0 && len(s.Missing) == 0
}

// Check inspects the tools' directories for cats and their root-file
// destinations. Unreadable entries are counted as broken.
func Check(projectRoot string, tools []registry.Tool, cats []catalog.Category) []ToolStatus {
	out := make([]ToolStatus, 0, len(tools))
	for _, tool := range tools {
		st := ToolStatus{Tool: tool.Key, Label: tool.Label, Categories: map[catalog.Category]Links{}}

		for _, c := range cats {
			rel, ok := tool.Path(c)
			if !ok {
				continue
			}
			dir := filepath.Join(projectRoot, rel)
			entries, err := os.ReadDir(dir)
			if err != nil {
				st.Missing = append(st.Missing, filepath.ToSlash(rel))
				continue
			}
			var links Links
			for _, e := range entries {
				p := filepath.Join(dir, e.Name())
				if !platform.IsSymlink(p) {
					st.Copies++
					continue
				}
				links.Total++
				if resolves(p) {
					links.Valid++
				} else {
					st.BrokenPaths = append(st.BrokenPaths, relPath(projectRoot, p))
				}
			}
			st.Categories[c] = links
		}

		for _, m := range tool.RootFileMappings() {
			p := filepath.Join(projectRoot, m.Dest)
			if !platform.IsSymlink(p) {
				continue
			}
			st.RootFiles.Total++
			if resolves(p) {
				st.RootFiles.Valid++
			} else {
				st.BrokenPaths = append(st.BrokenPaths, relPath(projectRoot, p))
			}
		}

		sort.Strings(st.BrokenPaths)
		out = append(out, st)
	}
	return out
}

// Write prints a doctor-style report and returns the number of broken
// links.
func Write(w io.Writer, statuses []ToolStatus) int {
	broken := 0
	for _, st := range statuses {
		for _, m := range st.Missing {
			fmt.Fprintf(w, "  %s %s: %s not found\n", ui.RenderWarning("[MISS]"), st.Label, m)
		}
		links := st.RootFiles
		for _, l := range st.Categories {
			links.Total += l.Total
			links.Valid += l.Valid
		}

		for _, p := range st.BrokenPaths {
			fmt.Fprintf(w, "  %s %s (broken)\n", ui.RenderError("[FAIL]"), p)
		}
		broken += links.Broken()

		switch {
		case links.Total == 0 && st.Copies == 0:
			fmt.Fprintf(w, "  %s %s: no links found\n", ui.RenderInfo("[INFO]"), st.Label)
		case st.Healthy():
			fmt.Fprintf(w, "  %s %s: %d link(s) valid, %d copied\n", ui.RenderSuccess("[ OK ]"), st.Label, links.Valid, st.Copies)
		}
	}
	return broken
}

// resolves reports whether the link target exists. Links that fell back
// to copies are checked against their recorded target.
func resolves(p string) bool {
	target, err := platform.ResolveSymlink(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(target)
	return err == nil
}

func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
