package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/mvagnon/agents/internal/config"
)

//go:embed all:bundled/config
var bundled embed.FS

// Bundled returns the catalog compiled into the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "bundled/config")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Source is where the stable mirror is synced from.
type Source struct {
	FS fs.FS
	// Origin describes the source for logs and the sync report, e.g. a
	// directory path or "bundled".
	Origin string
}

// ResolveSource picks the catalog to sync from.
//
// Resolution order:
//  1. override (the --catalog flag)
//  2. MVAGNON_CATALOG, then config key catalog_dir
//  3. Binary-relative ../share/mvagnon-agents/config (packaged releases)
//  4. The catalog embedded in the binary
//
// An explicitly named directory that does not exist is an error; the
// binary-relative location is only used when present.
func ResolveSource(override string) (Source, error) {
	if dir := config.FirstNonEmpty(override, os.Getenv(branding.EnvVar("CATALOG")), config.Get(config.KeyCatalogDir)); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return Source{}, fmt.Errorf("resolving catalog path %s: %w", dir, err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return Source{}, fmt.Errorf("catalog directory not found: %s", abs)
		}
		return Source{FS: os.DirFS(abs), Origin: abs}, nil
	}

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Join(filepath.Dir(exe), "..", branding.BundleDir(), "config")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return Source{FS: os.DirFS(dir), Origin: filepath.Clean(dir)}, nil
		}
	}

	return Source{FS: Bundled(), Origin: "bundled"}, nil
}
