// Package gitignore maintains one labelled section per tool in a project's
// .gitignore file.
package gitignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const fileName = ".gitignore"

// Header returns the comment line that opens a tool's section.
func Header(label string) string {
	return "# " + label + " Configuration"
}

// Lines returns the section body: the entries themselves, or their "!"
// negations when exceptions is set.
func Lines(entries []string, exceptions bool) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if exceptions {
			e = "!" + e
		}
		out = append(out, e)
	}
	return out
}

// AddSection appends a labelled section to .gitignore, creating the file
// when missing. An existing section with the same header is left alone and
// added is false.
func AddSection(projectRoot, label string, entries []string, exceptions bool) (added bool, err error) {
	path := filepath.Join(projectRoot, fileName)
	header := Header(label)

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("reading .gitignore: %w", err)
	}
	text := string(content)
	if findHeader(strings.Split(text, "\n"), header) >= 0 {
		return false, nil
	}

	var b strings.Builder
	b.WriteString(text)
	if len(text) > 0 {
		if !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(header + "\n")
	for _, line := range Lines(entries, exceptions) {
		b.WriteString(line + "\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return false, fmt.Errorf("writing .gitignore: %w", err)
	}
	return true, nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// RemoveSection deletes a tool's header and the entry lines below it, up
// to the next blank or comment line. A missing file or section is a no-op.
func RemoveSection(projectRoot, label string) (removed bool, err error) {
	path := filepath.Join(projectRoot, fileName)
	header := Header(label)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading .gitignore: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	start := findHeader(lines, header)
	if start == -1 {
		return false, nil
	}

	end := start + 1
	for end < len(lines) && strings.TrimSpace(lines[end]) != "" && !strings.HasPrefix(lines[end], "#") {
		end++
	}
	lines = append(lines[:start], lines[end:]...)

	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	out = strings.TrimSpace(out)
	if out != "" {
		out += "\n"
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return false, fmt.Errorf("writing .gitignore: %w", err)
	}
	return true, nil
}

// findHeader returns the index of the line equal to header, ignoring a
// CRLF line ending, or -1.
func findHeader(lines []string, header string) int {
	for i, l := range lines {
		if strings.TrimRight(l, "\r") == header {
			return i
		}
	}
	return -1
}
