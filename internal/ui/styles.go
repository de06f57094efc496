// Package ui holds the terminal palette and the small rendering helpers
// shared by the prompts and the command summaries.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsTTY indicates whether stdout is an interactive terminal.
// When false, rendering helpers produce plain text without colors.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

var (
	Teal     = lipgloss.Color("#4FD1C5")
	Green    = lipgloss.Color("#58D68D")
	Yellow   = lipgloss.Color("#F4D03F")
	Red      = lipgloss.Color("#FF6B6B")
	Blue     = lipgloss.Color("#5DADE2")
	Gray     = lipgloss.Color("#AAB7B8")
	DarkGray = lipgloss.Color("#5D6D7E")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1C2833")).
		Background(Teal).
		Padding(0, 1)

	Success = lipgloss.NewStyle().Foreground(Green)

	Warning = lipgloss.NewStyle().Foreground(Yellow)

	Error = lipgloss.NewStyle().Foreground(Red).Bold(true)

	Info = lipgloss.NewStyle().Foreground(Blue)

	Muted = lipgloss.NewStyle().Foreground(Gray)

	Dim = lipgloss.NewStyle().Foreground(DarkGray)

	Active = lipgloss.NewStyle().Foreground(Teal)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DarkGray).
		Padding(0, 1)
)

// Gutter symbols for the step-by-step prompt layout.
const (
	SymbolStart  = "┌"
	SymbolBar    = "│"
	SymbolEnd    = "└"
	SymbolDone   = "◇"
	SymbolActive = "◆"
	SymbolCancel = "■"
	SymbolInfo   = "●"
	SymbolWarn   = "▲"
	SymbolError  = "✖"
	SymbolOK     = "✔"
)

// Render applies style only when attached to a terminal.
func Render(style lipgloss.Style, text string) string {
	if !IsTTY {
		return text
	}
	return style.Render(text)
}

func RenderMuted(text string) string   { return Render(Muted, text) }
func RenderSuccess(text string) string { return Render(Success, text) }
func RenderWarning(text string) string { return Render(Warning, text) }
func RenderError(text string) string   { return Render(Error, text) }
func RenderInfo(text string) string    { return Render(Info, text) }
func RenderActive(text string) string  { return Render(Active, text) }

// Bar returns the dimmed vertical gutter.
func Bar() string {
	return Render(Dim, SymbolBar)
}

// Gutter prefixes every line of text with the gutter bar.
func Gutter(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = Bar() + "  " + l
	}
	return strings.Join(lines, "\n")
}

// Note renders a titled panel hanging off the gutter.
func Note(body, title string) string {
	header := fmt.Sprintf("%s  %s", RenderSuccess(SymbolDone), title)
	if !IsTTY {
		return header + "\n" + Gutter(body)
	}
	return header + "\n" + Gutter(Panel.Render(strings.TrimRight(body, "\n")))
}

// Capitalize title-cases a word such as a category name ("rules" → "Rules").
func Capitalize(s string) string {
	return cases.Title(language.English).String(s)
}
