package platform

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Exists reports whether anything (including a dangling symlink) is present
// at path. Stat errors are treated as absence.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is a symbolic link. Lstat errors are
// treated as "not a symlink".
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// RemovePath deletes path recursively, including dangling symlinks and the
// Windows .target sidecar. A missing path is not an error.
func RemovePath(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	_ = os.Remove(path + ".target")
	return nil
}

// RemoveIfEmpty removes dir when it is an empty directory. Errors are
// ignored; the return value reports whether the directory was removed.
func RemoveIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return false
	}
	return os.Remove(dir) == nil
}

// CopyPath replaces dst with a copy of src. Directories are copied
// recursively; symlinks inside src are skipped.
func CopyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := RemovePath(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst)
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, srcInfo.Mode().Perm())
}

// sameContent reports whether two regular files hold identical bytes.
func sameContent(a, b string) (bool, error) {
	da, err := os.ReadFile(a)
	if err != nil {
		return false, err
	}
	db, err := os.ReadFile(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(da, db), nil
}

// SameTree reports whether two paths hold identical content: byte-equal
// files, or directories with the same entry names and recursively equal
// entries. Any read failure counts as a difference.
func SameTree(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	if ia.IsDir() != ib.IsDir() {
		return false
	}
	if !ia.IsDir() {
		same, err := sameContent(a, b)
		return err == nil && same
	}

	ea, err := os.ReadDir(a)
	if err != nil {
		return false
	}
	eb, err := os.ReadDir(b)
	if err != nil || len(ea) != len(eb) {
		return false
	}
	for i := range ea {
		if ea[i].Name() != eb[i].Name() {
			return false
		}
		if !SameTree(filepath.Join(a, ea[i].Name()), filepath.Join(b, eb[i].Name())) {
			return false
		}
	}
	return true
}

func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// EnsureDir creates dir (and parents) and applies perm to dir itself.
// Windows has no Unix permission bits, so only creation happens there.
func EnsureDir(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	// MkdirAll leaves an existing directory's mode and is subject to umask.
	if err := os.Chmod(dir, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", dir, err)
	}
	return nil
}
