package prompt

import (
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mvagnon/agents/internal/ui"
)

// Terminal is the interactive Prompter backed by bubbletea programs.
type Terminal struct {
	in  io.Reader
	out io.Writer
	// animate enables the spinner render loop; off when out is not a TTY.
	animate bool
}

// NewTerminal returns a Prompter reading keys from in and drawing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, animate: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}

func (t *Terminal) Intro(title string) {
	fmt.Fprintf(t.out, "%s  %s\n%s\n", ui.Render(ui.Dim, ui.SymbolStart), ui.Render(ui.Title, title), ui.Bar())
}

func (t *Terminal) Outro(msg string) {
	fmt.Fprintf(t.out, "%s\n%s  %s\n\n", ui.Bar(), ui.Render(ui.Dim, ui.SymbolEnd), msg)
}

func (t *Terminal) Cancel(msg string) {
	fmt.Fprintf(t.out, "%s  %s\n\n", ui.Render(ui.Dim, ui.SymbolEnd), ui.RenderError(msg))
}

func (t *Terminal) Select(msg string, opts []Option) (string, error) {
	m, err := t.runChoice(newChoiceModel(msg, opts, false, true))
	if err != nil {
		return "", err
	}
	return m.values()[0], nil
}

func (t *Terminal) MultiSelect(msg string, opts []Option, required bool) ([]string, error) {
	m, err := t.runChoice(newChoiceModel(msg, opts, true, required))
	if err != nil {
		return nil, err
	}
	return m.values(), nil
}

func (t *Terminal) runChoice(model choiceModel) (choiceModel, error) {
	if len(model.options) == 0 {
		return model, fmt.Errorf("%s: no options to choose from", model.title)
	}
	final, err := t.run(model)
	if err != nil {
		return model, err
	}
	m := final.(choiceModel)
	if m.cancelled || !m.done {
		t.answered(m.title, "", true)
		return m, ErrCancelled
	}
	answer := strings.Join(m.labels(), ", ")
	if answer == "" {
		answer = "none"
	}
	t.answered(m.title, answer, false)
	return m, nil
}

func (t *Terminal) Confirm(msg string, def bool) (bool, error) {
	final, err := t.run(confirmModel{title: msg, value: def})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.cancelled || !m.done {
		t.answered(msg, "", true)
		return false, ErrCancelled
	}
	answer := "No"
	if m.value {
		answer = "Yes"
	}
	t.answered(msg, answer, false)
	return m.value, nil
}

func (t *Terminal) run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}

// answered prints the collapsed form of a finished question.
func (t *Terminal) answered(title, answer string, cancelled bool) {
	if cancelled {
		fmt.Fprintf(t.out, "%s  %s\n%s  %s\n", ui.RenderError(ui.SymbolCancel), title, ui.Bar(), ui.RenderMuted("cancelled"))
		return
	}
	fmt.Fprintf(t.out, "%s  %s\n%s  %s\n", ui.RenderSuccess(ui.SymbolDone), title, ui.Bar(), ui.RenderMuted(answer))
}

func (t *Terminal) Note(body, title string) {
	fmt.Fprintf(t.out, "%s\n%s\n", ui.Bar(), ui.Note(body, title))
}

func (t *Terminal) Log(level Level, msg string) {
	fmt.Fprintf(t.out, "%s\n%s  %s\n", ui.Bar(), levelSymbol(level), msg)
}

func levelSymbol(level Level) string {
	switch level {
	case LevelStep:
		return ui.RenderSuccess(ui.SymbolDone)
	case LevelSuccess:
		return ui.RenderSuccess(ui.SymbolOK)
	case LevelWarn:
		return ui.RenderWarning(ui.SymbolWarn)
	case LevelError:
		return ui.RenderError(ui.SymbolError)
	default:
		return ui.RenderInfo(ui.SymbolInfo)
	}
}

func (t *Terminal) Spinner() Spinner {
	return &terminalSpinner{out: t.out, animate: t.animate}
}

// terminalSpinner runs a bubbletea program on its own goroutine while
// started. Without a TTY it prints one line per Start and Stop.
type terminalSpinner struct {
	out     io.Writer
	animate bool

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

func (s *terminalSpinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		s.program.Send(spinnerLabelMsg(msg))
		return
	}
	if !s.animate {
		fmt.Fprintf(s.out, "%s  %s\n", ui.RenderActive(ui.SymbolActive), msg)
		return
	}

	// No input and no signal handler: Ctrl+C while working still
	// terminates the process.
	p := tea.NewProgram(newSpinnerModel(msg),
		tea.WithInput(nil),
		tea.WithOutput(s.out),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()
	s.program, s.done = p, done
}

func (s *terminalSpinner) Message(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program != nil {
		s.program.Send(spinnerLabelMsg(msg))
	}
}

func (s *terminalSpinner) Stop(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		s.program.Send(spinnerStopMsg{})
		<-s.done
		s.program, s.done = nil, nil
	}
	fmt.Fprintf(s.out, "%s  %s\n", ui.RenderSuccess(ui.SymbolDone), msg)
}
