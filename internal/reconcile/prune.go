package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/registry"
)

// PruneDangling removes symlinks in the tools' category directories and
// root-file destinations whose targets no longer exist. It returns the
// removed paths relative to projectRoot.
func PruneDangling(projectRoot string, tools []registry.Tool) ([]string, error) {
	removed := []string{}
	prune := func(p string) error {
		if !platform.IsSymlink(p) {
			return nil
		}
		if _, err := os.Stat(p); err == nil {
			return nil
		}
		if err := platform.RemovePath(p); err != nil {
			return err
		}
		rel, err := filepath.Rel(projectRoot, p)
		if err != nil {
			rel = p
		}
		removed = append(removed, filepath.ToSlash(rel))
		return nil
	}

	for _, tool := range tools {
		for _, c := range catalog.Categories() {
			rel, ok := tool.Path(c)
			if !ok {
				continue
			}
			dir := filepath.Join(projectRoot, rel)
			entries, err := os.ReadDir(dir)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return removed, fmt.Errorf("reading %s: %w", rel, err)
			}
			for _, e := range entries {
				if err := prune(filepath.Join(dir, e.Name())); err != nil {
					return removed, err
				}
			}
		}
		for _, m := range tool.RootFileMappings() {
			if err := prune(filepath.Join(projectRoot, m.Dest)); err != nil {
				return removed, err
			}
		}
	}

	sort.Strings(removed)
	return removed, nil
}
