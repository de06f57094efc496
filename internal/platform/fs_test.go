package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
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

func TestRemovePathDanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires native symlinks")
	}
	tmp := t.TempDir()
	link := filepath.Join(tmp, "dangling")
	if err := os.Symlink(filepath.Join(tmp, "missing"), link); err != nil {
		t.Fatal(err)
	}
	if !Exists(link) {
		t.Fatal("Exists should report a dangling symlink")
	}
	if err := RemovePath(link); err != nil {
		t.Fatalf("RemovePath: %v", err)
	}
	if Exists(link) {
		t.Error("dangling symlink still present")
	}
}

func TestRemovePathMissing(t *testing.T) {
	if err := RemovePath(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("RemovePath on missing path: %v", err)
	}
}

func TestRemoveIfEmpty(t *testing.T) {
	tmp := t.TempDir()
	empty := filepath.Join(tmp, "empty")
	full := filepath.Join(tmp, "full")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(full, "x"), "x")

	if !RemoveIfEmpty(empty) {
		t.Error("expected empty dir to be removed")
	}
	if RemoveIfEmpty(full) {
		t.Error("non-empty dir must not be removed")
	}
	if RemoveIfEmpty(filepath.Join(tmp, "missing")) {
		t.Error("missing dir reported as removed")
	}
}

func TestCopyPathDirectory(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	writeFile(t, filepath.Join(src, "SKILL.md"), "skill")
	writeFile(t, filepath.Join(src, "refs", "guide.md"), "guide")

	dst := filepath.Join(tmp, "out", "dst")
	writeFile(t, filepath.Join(dst, "stale.md"), "stale")

	if err := CopyPath(src, dst); err != nil {
		t.Fatalf("CopyPath: %v", err)
	}
	if !SameTree(src, dst) {
		t.Error("copied tree differs from source")
	}
	if Exists(filepath.Join(dst, "stale.md")) {
		t.Error("CopyPath should replace the destination entirely")
	}
}

func TestSameTree(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a")
	b := filepath.Join(tmp, "b")
	writeFile(t, filepath.Join(a, "x.md"), "one")
	writeFile(t, filepath.Join(b, "x.md"), "one")

	if !SameTree(a, b) {
		t.Error("identical trees reported different")
	}

	writeFile(t, filepath.Join(b, "x.md"), "two")
	if SameTree(a, b) {
		t.Error("differing content reported identical")
	}

	writeFile(t, filepath.Join(b, "x.md"), "one")
	writeFile(t, filepath.Join(b, "y.md"), "extra")
	if SameTree(a, b) {
		t.Error("extra entry reported identical")
	}

	if SameTree(a, filepath.Join(tmp, "missing")) {
		t.Error("missing path reported identical")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stable", "config")
	if err := EnsureDir(dir, 0755); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0755 {
		t.Errorf("permissions = %o, want %o", info.Mode().Perm(), 0755)
	}
}

func TestIsSymlink(t *testing.T) {
	tmp := t.TempDir()
	if IsSymlink(filepath.Join(tmp, "missing")) {
		t.Error("missing path reported as symlink")
	}
	if IsSymlink(tmp) {
		t.Error("directory reported as symlink")
	}
	if runtime.GOOS == "windows" {
		return
	}
	link := filepath.Join(tmp, "l")
	if err := os.Symlink(tmp, link); err != nil {
		t.Fatal(err)
	}
	if !IsSymlink(link) {
		t.Error("symlink not detected")
	}
}
