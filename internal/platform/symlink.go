package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CreateSymlink creates a symbolic link at link pointing to target.
// On Unix systems, this uses os.Symlink directly.
// On Windows, it attempts os.Symlink first (requires developer mode),
// then falls back to copying the target and writing a .target sidecar.
func CreateSymlink(target, link string) error {
	if runtime.GOOS != "windows" {
		return os.Symlink(target, link)
	}

	if err := os.Symlink(target, link); err == nil {
		return nil
	}

	resolved := target
	if !filepath.IsAbs(target) {
		resolved = filepath.Join(filepath.Dir(link), target)
	}
	if err := CopyPath(resolved, link); err != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}

	// The copy succeeded; a missing sidecar only costs ReadSymlinkTarget.
	_ = os.WriteFile(link+".target", []byte(target), 0644)
	return nil
}

// CreateRelativeSymlink replaces link with a symlink to source whose target
// is expressed relative to link's parent directory, so the tree stays valid
// when the project is moved or cloned elsewhere.
func CreateRelativeSymlink(source, link string) error {
	if err := RemovePath(link); err != nil {
		return err
	}
	absSource, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", source, err)
	}
	absLink, err := filepath.Abs(link)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", link, err)
	}
	rel, err := filepath.Rel(filepath.Dir(absLink), absSource)
	if err != nil {
		return fmt.Errorf("computing relative path from %s to %s: %w", link, source, err)
	}
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(link), err)
	}
	if err := CreateSymlink(rel, link); err != nil {
		return fmt.Errorf("linking %s -> %s: %w", link, rel, err)
	}
	return nil
}

// CreateAbsoluteSymlink replaces link with a symlink to the absolute path of
// source. Used only for links that intentionally target the global stable
// mirror.
func CreateAbsoluteSymlink(source, link string) error {
	if err := RemovePath(link); err != nil {
		return err
	}
	absSource, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", source, err)
	}
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(link), err)
	}
	if err := CreateSymlink(absSource, link); err != nil {
		return fmt.Errorf("linking %s -> %s: %w", link, absSource, err)
	}
	return nil
}

// ReadSymlinkTarget returns the target of a symlink.
// On Windows, if os.Readlink fails (because a copy fallback was used),
// it reads from the .target sidecar file.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	if runtime.GOOS != "windows" {
		return "", err
	}

	data, readErr := os.ReadFile(path + ".target")
	if readErr != nil {
		return "", fmt.Errorf("readlink failed and no .target sidecar found: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveSymlink returns the absolute path a symlink points to, resolving
// relative targets against the link's parent directory.
func ResolveSymlink(path string) (string, error) {
	target, err := ReadSymlinkTarget(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(target) {
		return target, nil
	}
	return filepath.Join(filepath.Dir(path), target), nil
}

// IsSymlinkSupported returns true if the current platform supports native symlinks.
// On Windows this attempts a test symlink to check developer mode.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	tmpDir := os.TempDir()
	link := filepath.Join(tmpDir, ".mvagnon-symlink-test")
	defer os.Remove(link)

	return os.Symlink(tmpDir, link) == nil
}
