package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestFilePathUnderDir(t *testing.T) {
	if got, want := FilePath(), filepath.Join(Dir(), "config.yaml"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestSetAndGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	if err := Set(KeyStableDir, "/tmp/stable"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := Get(KeyStableDir); got != "/tmp/stable" {
		t.Errorf("Get(%q) = %q, want %q", KeyStableDir, got, "/tmp/stable")
	}
	if _, err := os.Stat(FilePath()); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestSetUnknownKey(t *testing.T) {
	if err := Set("mirror", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MVAGNON_CATALOG_DIR", "/opt/catalog")
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	if got := Get(KeyCatalogDir); got != "/opt/catalog" {
		t.Errorf("Get(%q) = %q, want env value", KeyCatalogDir, got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"", "b", "c"}, "b"},
		{[]string{"a", "b"}, "a"},
		{[]string{"", ""}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FirstNonEmpty(tt.in...); got != tt.want {
			t.Errorf("FirstNonEmpty(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
