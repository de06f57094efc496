package ui

import (
	"strings"
	"testing"
)

func withoutTTY(t *testing.T) {
	t.Helper()
	prev := IsTTY
	IsTTY = false
	t.Cleanup(func() { IsTTY = prev })
}

func TestRenderPlainWithoutTTY(t *testing.T) {
	withoutTTY(t)
	if got := RenderSuccess("done"); got != "done" {
		t.Errorf("RenderSuccess = %q, want plain text", got)
	}
}

func TestGutter(t *testing.T) {
	withoutTTY(t)
	got := Gutter("Rules: 3\nSkills: 2\n")
	want := "│  Rules: 3\n│  Skills: 2"
	if got != want {
		t.Errorf("Gutter = %q, want %q", got, want)
	}
}

func TestNotePlain(t *testing.T) {
	withoutTTY(t)
	got := Note("Rules: 3", "Claude Code Setup")
	if !strings.HasPrefix(got, "◇  Claude Code Setup\n") {
		t.Errorf("Note header = %q", got)
	}
	if !strings.Contains(got, "│  Rules: 3") {
		t.Errorf("Note body = %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	for in, want := range map[string]string{"rules": "Rules", "skills": "Skills", "agents": "Agents"} {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
