// Package reconcile brings a project's generic intermediate copies up to
// date with the stable mirror after the catalog changed. Project-sensitive
// and always-copy storage belongs to the user and is never touched.
package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/fsmirror"
	"github.com/mvagnon/agents/internal/install"
	"github.com/mvagnon/agents/internal/platform"
	"go.uber.org/zap"
)

// Result lists reconciled entries as "<category>/<name>" or a root file
// name.
type Result struct {
	Updated []string `json:"updated" yaml:"updated"`
	Removed []string `json:"removed" yaml:"removed"`
}

// Changed reports whether anything was updated or removed.
func (r Result) Changed() bool {
	return len(r.Updated)+len(r.Removed) > 0
}

// Reconcile walks intermediateDir/generic/<category>/ and the root files
// at the top of intermediateDir. Entries whose catalog item disappeared
// are deleted; the rest are mirrored from the catalog one entry at a time.
func Reconcile(intermediateDir string, cat *catalog.Catalog, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	res := Result{Updated: []string{}, Removed: []string{}}

	for _, c := range catalog.Categories() {
		dir := install.GenericDir(intermediateDir, c)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", dir, err)
		}

		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") {
				continue
			}
			key := string(c) + "/" + e.Name()
			installed := filepath.Join(dir, e.Name())

			item, ok := cat.Lookup(c, e.Name())
			if !ok {
				if err := platform.RemovePath(installed); err != nil {
					return res, err
				}
				log.Debug("removed upstream-deleted item", zap.String("item", key))
				res.Removed = append(res.Removed, key)
				continue
			}

			changed, err := syncEntry(item.Path, dir)
			if err != nil {
				return res, fmt.Errorf("updating %s: %w", key, err)
			}
			if changed {
				log.Debug("updated item", zap.String("item", key))
				res.Updated = append(res.Updated, key)
			}
		}
	}

	if err := reconcileRootFiles(intermediateDir, cat, &res, log); err != nil {
		return res, err
	}

	sort.Strings(res.Updated)
	sort.Strings(res.Removed)
	return res, nil
}

// reconcileRootFiles handles regular files directly in intermediateDir,
// e.g. AGENTS.md.
func reconcileRootFiles(intermediateDir string, cat *catalog.Catalog, res *Result, log *zap.Logger) error {
	entries, err := os.ReadDir(intermediateDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", intermediateDir, err)
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		installed := filepath.Join(intermediateDir, e.Name())
		src, ok := cat.File(e.Name())
		if !ok {
			if err := platform.RemovePath(installed); err != nil {
				return err
			}
			log.Debug("removed upstream-deleted root file", zap.String("file", e.Name()))
			res.Removed = append(res.Removed, e.Name())
			continue
		}
		changed, err := syncEntry(src, intermediateDir)
		if err != nil {
			return fmt.Errorf("updating %s: %w", e.Name(), err)
		}
		if changed {
			res.Updated = append(res.Updated, e.Name())
		}
	}
	return nil
}

// syncEntry mirrors the single file or directory src into dstDir under the
// same name. Siblings on either side are excluded from the mirror.
func syncEntry(src, dstDir string) (bool, error) {
	name := filepath.Base(src)
	only := func(rel string, _ bool) bool {
		return rel != name && !strings.HasPrefix(rel, name+"/")
	}
	report, err := fsmirror.SyncDir(filepath.Dir(src), dstDir, fsmirror.Options{Exclude: only})
	if err != nil {
		return false, err
	}
	return report.Changed(), nil
}
