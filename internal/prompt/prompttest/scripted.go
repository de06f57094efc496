// Package prompttest provides a Prompter that replays canned answers.
package prompttest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mvagnon/agents/internal/prompt"
)

// Scripted answers questions from maps keyed by a substring of the
// question. Unanswered questions take their defaults: the pre-selected
// options, the first Select option, or Confirm's default. Every call is
// appended to Events.
type Scripted struct {
	Selects      map[string]string
	MultiSelects map[string][]string
	Confirms     map[string]bool
	// CancelOn makes any question containing it return ErrCancelled.
	CancelOn string

	Events []string
	// AskedWhileSpinning records questions asked with the spinner running.
	AskedWhileSpinning []string

	spinning bool
}

var _ prompt.Prompter = (*Scripted)(nil)

// New returns a Scripted prompter with empty answer maps.
func New() *Scripted {
	return &Scripted{
		Selects:      map[string]string{},
		MultiSelects: map[string][]string{},
		Confirms:     map[string]bool{},
	}
}

func (s *Scripted) record(format string, args ...any) {
	s.Events = append(s.Events, fmt.Sprintf(format, args...))
}

func (s *Scripted) ask(kind, msg string) error {
	s.record("%s: %s", kind, msg)
	if s.spinning {
		s.AskedWhileSpinning = append(s.AskedWhileSpinning, msg)
	}
	if s.CancelOn != "" && strings.Contains(msg, s.CancelOn) {
		return prompt.ErrCancelled
	}
	return nil
}

// lookup finds the answer whose key is the longest substring of msg.
func lookup[V any](answers map[string]V, msg string) (V, bool) {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		if strings.Contains(msg, k) {
			return answers[k], true
		}
	}
	var zero V
	return zero, false
}

func (s *Scripted) Intro(title string) { s.record("intro: %s", title) }
func (s *Scripted) Outro(msg string)   { s.record("outro: %s", msg) }
func (s *Scripted) Cancel(msg string)  { s.record("cancel: %s", msg) }

func (s *Scripted) Select(msg string, opts []prompt.Option) (string, error) {
	if err := s.ask("select", msg); err != nil {
		return "", err
	}
	if v, ok := lookup(s.Selects, msg); ok {
		return v, nil
	}
	for _, o := range opts {
		if o.Selected {
			return o.Value, nil
		}
	}
	if len(opts) == 0 {
		return "", fmt.Errorf("%s: no options", msg)
	}
	return opts[0].Value, nil
}

func (s *Scripted) MultiSelect(msg string, opts []prompt.Option, required bool) ([]string, error) {
	if err := s.ask("multiselect", msg); err != nil {
		return nil, err
	}
	values, ok := lookup(s.MultiSelects, msg)
	if !ok {
		for _, o := range opts {
			if o.Selected {
				values = append(values, o.Value)
			}
		}
	}
	if required && len(values) == 0 {
		return nil, fmt.Errorf("%s: required answer missing", msg)
	}
	return values, nil
}

func (s *Scripted) Confirm(msg string, def bool) (bool, error) {
	if err := s.ask("confirm", msg); err != nil {
		return false, err
	}
	if v, ok := lookup(s.Confirms, msg); ok {
		return v, nil
	}
	return def, nil
}

func (s *Scripted) Note(body, title string) { s.record("note: %s\n%s", title, body) }

func (s *Scripted) Log(level prompt.Level, msg string) { s.record("log: %s", msg) }

func (s *Scripted) Spinner() prompt.Spinner { return (*scriptedSpinner)(s) }

// Asked returns the questions of a kind ("select", "multiselect",
// "confirm") in the order they were asked.
func (s *Scripted) Asked(kind string) []string {
	var out []string
	prefix := kind + ": "
	for _, e := range s.Events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, strings.TrimPrefix(e, prefix))
		}
	}
	return out
}

// Notes returns the bodies of every Note keyed by title.
func (s *Scripted) Notes() map[string]string {
	out := map[string]string{}
	for _, e := range s.Events {
		if rest, ok := strings.CutPrefix(e, "note: "); ok {
			title, body, _ := strings.Cut(rest, "\n")
			out[title] = body
		}
	}
	return out
}

type scriptedSpinner Scripted

func (sp *scriptedSpinner) Start(msg string) {
	s := (*Scripted)(sp)
	s.spinning = true
	s.record("spinner start: %s", msg)
}

func (sp *scriptedSpinner) Message(msg string) {
	(*Scripted)(sp).record("spinner message: %s", msg)
}

func (sp *scriptedSpinner) Stop(msg string) {
	s := (*Scripted)(sp)
	s.spinning = false
	s.record("spinner stop: %s", msg)
}
