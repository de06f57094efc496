// Package prompt is the interactive surface of the CLI: step-by-step
// questions, notes, log lines and a progress spinner. Commands depend on
// the Prompter interface so tests can replay canned answers.
package prompt

import "errors"

// ErrCancelled is returned by a question the user aborted (Ctrl+C or Esc).
// Callers treat it as a clean exit.
var ErrCancelled = errors.New("cancelled")

// Option is one choice of a Select or MultiSelect question.
type Option struct {
	Value string
	Label string
	Hint  string
	// Selected pre-selects the option (initial cursor for Select).
	Selected bool
}

// Level is the severity of a Log line.
type Level int

const (
	LevelInfo Level = iota
	LevelStep
	LevelSuccess
	LevelWarn
	LevelError
)

// Spinner shows progress while work runs. It must be stopped before the
// next question is asked.
type Spinner interface {
	Start(msg string)
	Message(msg string)
	Stop(msg string)
}

// Prompter asks questions and prints structured progress.
type Prompter interface {
	Intro(title string)
	Outro(msg string)
	Cancel(msg string)
	Select(msg string, opts []Option) (string, error)
	// MultiSelect returns the chosen values in option order. With
	// required set, submitting nothing is refused.
	MultiSelect(msg string, opts []Option, required bool) ([]string, error)
	Confirm(msg string, def bool) (bool, error)
	Note(body, title string)
	Log(level Level, msg string)
	Spinner() Spinner
}
