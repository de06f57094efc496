package gitignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readGitignore(t *testing.T, dir string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestAddSectionCreatesFile(t *testing.T) {
	dir := t.TempDir()

	added, err := AddSection(dir, "Claude Code", []string{".claude", "CLAUDE.md", ".mcp.json"}, false)
	if err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	if !added {
		t.Error("expected section to be added")
	}

	want := "# Claude Code Configuration\n.claude\nCLAUDE.md\n.mcp.json\n"
	if got := readGitignore(t, dir); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestAddSectionAppendsAfterBlankLine(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := AddSection(dir, "OpenCode", []string{".opencode"}, false); err != nil {
		t.Fatal(err)
	}

	want := "node_modules/\n\n# OpenCode Configuration\n.opencode\n"
	if got := readGitignore(t, dir); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestAddSectionExceptions(t *testing.T) {
	dir := t.TempDir()
	if _, err := AddSection(dir, "OpenCode", []string{".opencode", "AGENTS.md"}, true); err != nil {
		t.Fatal(err)
	}
	got := readGitignore(t, dir)
	if !strings.Contains(got, "!.opencode\n!AGENTS.md\n") {
		t.Errorf("expected negated entries, got:\n%s", got)
	}
}

func TestAddSectionIdempotent(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		if _, err := AddSection(dir, "OpenCode", []string{".opencode"}, false); err != nil {
			t.Fatal(err)
		}
	}
	added, err := AddSection(dir, "OpenCode", []string{".opencode"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("third add reported a change")
	}
	if n := strings.Count(readGitignore(t, dir), "# OpenCode Configuration"); n != 1 {
		t.Errorf("header appears %d times", n)
	}
	if !strings.Contains(readGitignore(t, dir), ".opencode\n") {
		t.Error("section entries missing")
	}
}

func TestSectionsWithCRLFLineEndings(t *testing.T) {
	dir := t.TempDir()
	initial := "dist/\r\n\r\n# OpenCode Configuration\r\n.opencode\r\n\r\n# mine\r\nsecret.txt\r\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}

	added, err := AddSection(dir, "OpenCode", []string{".opencode"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("AddSection duplicated a CRLF section")
	}

	removed, err := RemoveSection(dir, "OpenCode")
	if err != nil {
		t.Fatalf("RemoveSection() error = %v", err)
	}
	if !removed {
		t.Fatal("CRLF section not found")
	}
	got := readGitignore(t, dir)
	if strings.Contains(got, "OpenCode") || strings.Contains(got, ".opencode") {
		t.Errorf("section left behind: %q", got)
	}
	if !strings.Contains(got, "dist/") || !strings.Contains(got, "secret.txt") {
		t.Errorf("user entries lost: %q", got)
	}
}

func TestRemoveSection(t *testing.T) {
	dir := t.TempDir()
	initial := "node_modules/\n\n# Claude Code Configuration\n.claude\nCLAUDE.md\n.mcp.json\n\n\n# OpenCode Configuration\n.opencode\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := RemoveSection(dir, "Claude Code")
	if err != nil {
		t.Fatalf("RemoveSection() error = %v", err)
	}
	if !removed {
		t.Error("expected removal")
	}

	want := "node_modules/\n\n# OpenCode Configuration\n.opencode\n"
	if got := readGitignore(t, dir); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestRemoveSectionStopsAtComment(t *testing.T) {
	dir := t.TempDir()
	initial := "# OpenCode Configuration\n.opencode\n# mine\nsecret.txt\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := RemoveSection(dir, "OpenCode"); err != nil {
		t.Fatal(err)
	}
	if got := readGitignore(t, dir); got != "# mine\nsecret.txt\n" {
		t.Errorf("got %q", got)
	}
}

func TestRemoveSectionLastSectionEmptiesFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := AddSection(dir, "OpenCode", []string{".opencode"}, false); err != nil {
		t.Fatal(err)
	}
	if _, err := RemoveSection(dir, "OpenCode"); err != nil {
		t.Fatal(err)
	}
	if got := readGitignore(t, dir); got != "" {
		t.Errorf("got %q, want empty file", got)
	}
}

func TestRemoveSectionNoOp(t *testing.T) {
	dir := t.TempDir()
	removed, err := RemoveSection(dir, "OpenCode")
	if err != nil || removed {
		t.Errorf("missing file: removed=%v err=%v", removed, err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("dist/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	removed, err = RemoveSection(dir, "OpenCode")
	if err != nil || removed {
		t.Errorf("missing section: removed=%v err=%v", removed, err)
	}
	if got := readGitignore(t, dir); got != "dist/\n" {
		t.Errorf("file modified: %q", got)
	}
}
