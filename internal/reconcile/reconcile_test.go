package reconcile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/registry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
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

type layout struct {
	catalogDir string
	inter      string
}

func newLayout(t *testing.T) layout {
	t.Helper()
	tmp := t.TempDir()
	l := layout{
		catalogDir: filepath.Join(tmp, "stable", "config"),
		inter:      filepath.Join(tmp, "app", ".mvagnon", "agents"),
	}

	// New catalog version.
	writeFile(t, filepath.Join(l.catalogDir, "AGENTS.md"), "# Agents v2")
	writeFile(t, filepath.Join(l.catalogDir, "rules", "project-sensitive", "project.md"), "# Project v2")
	writeFile(t, filepath.Join(l.catalogDir, "rules", "generic", "ts-testing.md"), "ts v2")
	writeFile(t, filepath.Join(l.catalogDir, "rules", "generic", "ts-conventions.md"), "same")
	writeFile(t, filepath.Join(l.catalogDir, "skills", "generic", "readme-writing", "SKILL.md"), "readme v2")
	writeFile(t, filepath.Join(l.catalogDir, "skills", "generic", "react-forms", "SKILL.md"), "forms v2")

	// Project installed from the previous version, with local edits.
	writeFile(t, filepath.Join(l.inter, "AGENTS.md"), "# Agents v1")
	writeFile(t, filepath.Join(l.inter, "rules", "project.md"), "my project notes")
	writeFile(t, filepath.Join(l.inter, "skills", "readme-writing", "SKILL.md"), "my readme skill")
	writeFile(t, filepath.Join(l.inter, "generic", "rules", "ts-testing.md"), "ts v1")
	writeFile(t, filepath.Join(l.inter, "generic", "rules", "ts-conventions.md"), "same")
	writeFile(t, filepath.Join(l.inter, "generic", "rules", "ts-legacy.md"), "removed upstream")
	writeFile(t, filepath.Join(l.inter, "generic", "skills", "react-forms", "SKILL.md"), "forms v1")
	writeFile(t, filepath.Join(l.inter, "generic", "skills", "react-forms", "old.md"), "stale")
	return l
}

func TestReconcileUpdatesAndRemovesGenericItems(t *testing.T) {
	l := newLayout(t)

	res, err := Reconcile(l.inter, catalog.Open(l.catalogDir), nil)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	want := Result{
		Updated: []string{"AGENTS.md", "rules/ts-testing.md", "skills/react-forms"},
		Removed: []string{"rules/ts-legacy.md"},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	if got := readFile(t, filepath.Join(l.inter, "generic", "rules", "ts-testing.md")); got != "ts v2" {
		t.Errorf("ts-testing.md = %q", got)
	}
	if got := readFile(t, filepath.Join(l.inter, "generic", "skills", "react-forms", "SKILL.md")); got != "forms v2" {
		t.Errorf("react-forms/SKILL.md = %q", got)
	}
	if platform.Exists(filepath.Join(l.inter, "generic", "skills", "react-forms", "old.md")) {
		t.Error("stale file inside a directory item survived")
	}
	if platform.Exists(filepath.Join(l.inter, "generic", "rules", "ts-legacy.md")) {
		t.Error("upstream-deleted item survived")
	}
}

func TestReconcileLeavesUserOwnedStorage(t *testing.T) {
	l := newLayout(t)

	if _, err := Reconcile(l.inter, catalog.Open(l.catalogDir), nil); err != nil {
		t.Fatal(err)
	}

	if got := readFile(t, filepath.Join(l.inter, "rules", "project.md")); got != "my project notes" {
		t.Errorf("project-sensitive item modified: %q", got)
	}
	if got := readFile(t, filepath.Join(l.inter, "skills", "readme-writing", "SKILL.md")); got != "my readme skill" {
		t.Errorf("always-copy item modified: %q", got)
	}
}

func TestReconcileNoOp(t *testing.T) {
	l := newLayout(t)
	cat := catalog.Open(l.catalogDir)
	if _, err := Reconcile(l.inter, cat, nil); err != nil {
		t.Fatal(err)
	}

	res, err := Reconcile(l.inter, cat, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed() {
		t.Errorf("second reconcile changed %+v", res)
	}
}

func TestReconcileReplacesItemThatChangedShape(t *testing.T) {
	l := newLayout(t)
	forms := filepath.Join(l.inter, "generic", "skills", "react-forms")
	if err := os.RemoveAll(forms); err != nil {
		t.Fatal(err)
	}
	writeFile(t, forms, "was a file")

	res, err := Reconcile(l.inter, catalog.Open(l.catalogDir), nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"AGENTS.md", "rules/ts-testing.md", "skills/react-forms"}, res.Updated); diff != "" {
		t.Errorf("updated (-want +got):\n%s", diff)
	}
	if got := readFile(t, filepath.Join(forms, "SKILL.md")); got != "forms v2" {
		t.Errorf("react-forms/SKILL.md = %q", got)
	}
	if got := readFile(t, filepath.Join(l.inter, "generic", "rules", "ts-conventions.md")); got != "same" {
		t.Errorf("sibling item touched: %q", got)
	}
}

func TestReconcileWithoutIntermediateDir(t *testing.T) {
	res, err := Reconcile(filepath.Join(t.TempDir(), "missing"), catalog.Open(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Changed() {
		t.Errorf("result = %+v", res)
	}
}

func TestPruneDangling(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires native symlinks")
	}
	tmp := t.TempDir()
	projectRoot := filepath.Join(tmp, "app")
	stable := filepath.Join(tmp, "stable")
	writeFile(t, filepath.Join(stable, "kept.md"), "x")

	rules := filepath.Join(projectRoot, ".claude", "rules")
	if err := platform.CreateAbsoluteSymlink(filepath.Join(stable, "kept.md"), filepath.Join(rules, "kept.md")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(stable, "gone.md"), filepath.Join(rules, "gone.md")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(projectRoot, ".mvagnon", "agents", "AGENTS.md"), filepath.Join(projectRoot, "CLAUDE.md")); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(rules, "local.md"), "user file")

	reg, err := registry.Load()
	if err != nil {
		t.Fatal(err)
	}
	claude, _ := reg.Tool("claudecode")

	removed, err := PruneDangling(projectRoot, []registry.Tool{claude})
	if err != nil {
		t.Fatalf("PruneDangling: %v", err)
	}
	if diff := cmp.Diff([]string{".claude/rules/gone.md", "CLAUDE.md"}, removed); diff != "" {
		t.Errorf("removed (-want +got):\n%s", diff)
	}
	if !platform.Exists(filepath.Join(rules, "kept.md")) || !platform.Exists(filepath.Join(rules, "local.md")) {
		t.Error("live entries were pruned")
	}
}
