//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	CatalogDir string // source catalog the stable mirror syncs from
	StableBase string // stable mirror base (config/ + version)
	ProjectDir string // a mock project directory
}

// setupTestEnv creates isolated temp directories and points the CLI
// environment at them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		CatalogDir: filepath.Join(root, "catalog"),
		StableBase: filepath.Join(root, "stable"),
		ProjectDir: filepath.Join(root, "projects", "app"),
	}
	t.Setenv("MVAGNON_CATALOG", env.CatalogDir)
	t.Setenv("MVAGNON_STABLE_DIR", env.StableBase)

	if err := os.MkdirAll(env.ProjectDir, 0755); err != nil {
		t.Fatalf("creating project dir: %v", err)
	}
	return env
}

// setupCatalog writes a synthetic catalog with every category and both
// sensitivity partitions.
func setupCatalog(t *testing.T, catalogDir string) {
	t.Helper()

	files := map[string]string{
		"AGENTS.md":                               "# Agents\n",
		"claudecode.settings.json":                "{\"mcpServers\":{}}\n",
		"opencode.settings.json":                  "{\"mcp\":{}}\n",
		"rules/project-sensitive/project.md":      "# Project\n",
		"rules/generic/react-hooks.md":            "# React hooks\n",
		"rules/generic/ts-conventions.md":         "# TS conventions\n",
		"rules/generic/hexagonal-architecture.md": "# Hexagonal\n",
		"rules/generic/hexagonal-react-ts.md":     "# Hexagonal React\n",
		"skills/generic/readme-writing/SKILL.md":  "# README\n",
		"skills/generic/react-forms/SKILL.md":     "# Forms\n",
		"skills/generic/react-forms/reference.md": "ref\n",
		"agents/generic/reviewer.md":              "# Reviewer\n",
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(catalogDir, filepath.FromSlash(rel)), content)
	}
}

// writeFile creates a file with the given content, creating parent dirs.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists checks that a path resolves, following links.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

// assertNotExists checks that nothing, not even a dangling link, is at path.
func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent", path)
	}
}
