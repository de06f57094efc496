// Package fsmirror makes a destination directory mirror a source tree and
// reports what changed. It is the single primitive behind the stable mirror
// sync, the project upgrade and directory-item reconciliation; callers
// differ only in the exclusion predicate they pass.
package fsmirror

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Report lists slash-separated paths, relative to the mirrored roots, of
// the files a Sync added, overwrote or deleted. The slices are never nil so
// a no-op run still reports three empty lists.
type Report struct {
	Added   []string `json:"added" yaml:"added"`
	Updated []string `json:"updated" yaml:"updated"`
	Removed []string `json:"removed" yaml:"removed"`
}

// NewReport returns a report with empty, non-nil lists.
func NewReport() Report {
	return Report{Added: []string{}, Updated: []string{}, Removed: []string{}}
}

// Changed reports whether any file was added, updated or removed.
func (r Report) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed) > 0
}

// Options tune a Sync.
type Options struct {
	// Exclude skips a slash-separated relative path on both sides. An
	// excluded destination entry is never modified or deleted.
	Exclude func(rel string, isDir bool) bool
	// PruneEmpty removes directories left empty in the destination.
	PruneEmpty bool
}

func (o Options) excluded(rel string, isDir bool) bool {
	return o.Exclude != nil && o.Exclude(rel, isDir)
}

// ignoredNames never take part in a mirror.
var ignoredNames = map[string]bool{
	".DS_Store": true,
	".git":      true,
}

// Sync makes dst mirror src: missing files are copied, files whose bytes
// differ are overwritten and destination files with no source counterpart
// are deleted. dst is created when absent.
func Sync(src fs.FS, dst string, opts Options) (Report, error) {
	report := NewReport()

	if err := os.MkdirAll(dst, 0755); err != nil {
		return report, fmt.Errorf("creating %s: %w", dst, err)
	}

	if err := copyPass(src, dst, opts, &report); err != nil {
		return report, err
	}
	if err := deletePass(src, dst, opts, &report); err != nil {
		return report, err
	}
	if opts.PruneEmpty {
		if err := pruneEmpty(dst); err != nil {
			return report, err
		}
	}

	sort.Strings(report.Added)
	sort.Strings(report.Updated)
	sort.Strings(report.Removed)
	return report, nil
}

// SyncDir is Sync with an on-disk source directory.
func SyncDir(src, dst string, opts Options) (Report, error) {
	return Sync(os.DirFS(src), dst, opts)
}

func copyPass(src fs.FS, dst string, opts Options, report *Report) error {
	return fs.WalkDir(src, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking source %s: %w", rel, err)
		}
		if rel == "." {
			return nil
		}
		if ignoredNames[d.Name()] || opts.excluded(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, filepath.FromSlash(rel))

		if d.IsDir() {
			if info, err := os.Lstat(target); err == nil && !info.IsDir() {
				if err := os.Remove(target); err != nil {
					return fmt.Errorf("replacing %s with a directory: %w", target, err)
				}
				report.Removed = append(report.Removed, rel)
			}
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := fs.ReadFile(src, rel)
		if err != nil {
			return fmt.Errorf("reading source %s: %w", rel, err)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat source %s: %w", rel, err)
		}
		// Embedded sources report read-only modes; keep mirrored files writable.
		perm := info.Mode().Perm() | 0o644

		existing, err := os.Lstat(target)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			report.Added = append(report.Added, rel)
		case err != nil:
			return fmt.Errorf("stat %s: %w", target, err)
		case existing.Mode().IsRegular():
			current, err := os.ReadFile(target)
			if err != nil {
				return fmt.Errorf("reading %s: %w", target, err)
			}
			if bytes.Equal(current, data) {
				return nil
			}
			report.Updated = append(report.Updated, rel)
		default:
			// A directory or symlink where the source has a file.
			if err := os.RemoveAll(target); err != nil {
				return fmt.Errorf("replacing %s: %w", target, err)
			}
			report.Updated = append(report.Updated, rel)
		}

		if err := os.WriteFile(target, data, perm); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		return nil
	})
}

func deletePass(src fs.FS, dst string, opts Options, report *Report) error {
	return filepath.WalkDir(dst, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", p, err)
		}
		if p == dst {
			return nil
		}
		rel, err := filepath.Rel(dst, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if ignoredNames[d.Name()] || opts.excluded(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		srcInfo, err := fs.Stat(src, rel)
		if err == nil && srcInfo.IsDir() == d.IsDir() {
			return nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat source %s: %w", rel, err)
		}

		if d.IsDir() {
			files, err := listFiles(p, rel)
			if err != nil {
				return err
			}
			report.Removed = append(report.Removed, files...)
			if err := os.RemoveAll(p); err != nil {
				return fmt.Errorf("removing %s: %w", p, err)
			}
			return fs.SkipDir
		}

		if err := os.Remove(p); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
		report.Removed = append(report.Removed, rel)
		return nil
	})
}

// listFiles returns the slash-separated paths of every non-directory entry
// below dir, prefixed with rel.
func listFiles(dir, rel string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		sub, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, path.Join(rel, filepath.ToSlash(sub)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	return files, nil
}

// pruneEmpty removes empty directories below root, deepest first.
func pruneEmpty(root string) error {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && p != root {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning %s for empty directories: %w", root, err)
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			continue
		}
		if len(entries) == 0 {
			if err := os.Remove(dirs[i]); err != nil {
				return fmt.Errorf("pruning %s: %w", dirs[i], err)
			}
		}
	}
	return nil
}
