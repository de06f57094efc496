package status

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/ui"
)

func TestMain(m *testing.M) {
	ui.IsTTY = false
	os.Exit(m.Run())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCheck(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires native symlinks")
	}
	root := t.TempDir()
	inter := filepath.Join(root, ".mvagnon", "agents")
	writeFile(t, filepath.Join(inter, "rules", "project.md"), "x")
	writeFile(t, filepath.Join(inter, "AGENTS.md"), "x")

	if err := platform.CreateRelativeSymlink(filepath.Join(inter, "rules", "project.md"), filepath.Join(root, ".claude", "rules", "project.md")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "gone.md"), filepath.Join(root, ".claude", "rules", "gone.md")); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, ".claude", "skills", "local", "SKILL.md"), "x")
	if err := platform.CreateRelativeSymlink(filepath.Join(inter, "AGENTS.md"), filepath.Join(root, "CLAUDE.md")); err != nil {
		t.Fatal(err)
	}

	reg, err := registry.Load()
	if err != nil {
		t.Fatal(err)
	}
	claude, _ := reg.Tool("claudecode")

	got := Check(root, []registry.Tool{claude}, catalog.Categories())
	want := []ToolStatus{{
		Tool:  "claudecode",
		Label: "Claude Code",
		Categories: map[catalog.Category]Links{
			catalog.Rules:  {Total: 2, Valid: 1},
			catalog.Skills: {},
		},
		Copies:      1,
		RootFiles:   Links{Total: 1, Valid: 1},
		Missing:     []string{".claude/agents"},
		BrokenPaths: []string{".claude/rules/gone.md"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("status (-want +got):\n%s", diff)
	}
	if got[0].Healthy() {
		t.Error("status with a broken link reported healthy")
	}

	var buf bytes.Buffer
	if n := Write(&buf, got); n != 1 {
		t.Errorf("Write returned %d broken, want 1", n)
	}
	out := buf.String()
	for _, want := range []string{"[MISS] Claude Code: .claude/agents not found", "[FAIL] .claude/rules/gone.md (broken)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	limited := Check(root, []registry.Tool{claude}, []catalog.Category{catalog.Rules, catalog.Skills})
	if len(limited[0].Missing) != 0 {
		t.Errorf("unselected category reported missing: %v", limited[0].Missing)
	}
}

func TestWriteHealthy(t *testing.T) {
	var buf bytes.Buffer
	n := Write(&buf, []ToolStatus{{
		Label:      "OpenCode",
		Categories: map[catalog.Category]Links{catalog.Rules: {Total: 3, Valid: 3}},
	}})
	if n != 0 {
		t.Errorf("broken = %d", n)
	}
	if !strings.Contains(buf.String(), "[ OK ] OpenCode: 3 link(s) valid, 0 copied") {
		t.Errorf("output = %q", buf.String())
	}
}
