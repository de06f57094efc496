package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mvagnon/agents/internal/ui"
)

// choiceModel drives Select and MultiSelect.
type choiceModel struct {
	title    string
	options  []Option
	multi    bool
	required bool

	cursor    int
	checked   []bool
	warning   string
	done      bool
	cancelled bool
}

func newChoiceModel(title string, opts []Option, multi, required bool) choiceModel {
	m := choiceModel{
		title:    title,
		options:  opts,
		multi:    multi,
		required: required,
		checked:  make([]bool, len(opts)),
	}
	for i, o := range opts {
		if !o.Selected {
			continue
		}
		if multi {
			m.checked[i] = true
		} else {
			m.cursor = i
			break
		}
	}
	return m
}

func (m choiceModel) Init() tea.Cmd { return nil }

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		m.move(-1)
	case tea.KeyDown, tea.KeyTab:
		m.move(1)
	case tea.KeySpace:
		m.toggle()
	case tea.KeyEnter:
		if m.multi && m.required && len(m.values()) == 0 {
			m.warning = "Select at least one option (space to toggle)."
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(key.Runes) {
		case "k":
			m.move(-1)
		case "j":
			m.move(1)
		case " ", "x":
			m.toggle()
		case "a":
			if m.multi {
				all := len(m.values()) < len(m.options)
				for i := range m.checked {
					m.checked[i] = all
				}
			}
		}
	}
	return m, nil
}

func (m *choiceModel) move(delta int) {
	if len(m.options) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.options)) % len(m.options)
}

func (m *choiceModel) toggle() {
	if !m.multi || len(m.options) == 0 {
		return
	}
	m.checked[m.cursor] = !m.checked[m.cursor]
	m.warning = ""
}

// values returns the chosen option values in option order.
func (m choiceModel) values() []string {
	if !m.multi {
		if len(m.options) == 0 {
			return nil
		}
		return []string{m.options[m.cursor].Value}
	}
	var out []string
	for i, o := range m.options {
		if m.checked[i] {
			out = append(out, o.Value)
		}
	}
	return out
}

func (m choiceModel) labels() []string {
	var out []string
	for _, v := range m.values() {
		for _, o := range m.options {
			if o.Value == v {
				out = append(out, o.Label)
			}
		}
	}
	return out
}

func (m choiceModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.RenderActive(ui.SymbolActive) + "  " + m.title + "\n")
	for i, o := range m.options {
		mark := "○"
		if m.multi {
			mark = "◻"
			if m.checked[i] {
				mark = ui.RenderSuccess("◼")
			}
		} else if i == m.cursor {
			mark = ui.RenderSuccess("●")
		}

		label := o.Label
		if i == m.cursor {
			label = ui.RenderActive(label)
			if o.Hint != "" {
				label += " " + ui.RenderMuted("("+o.Hint+")")
			}
		} else {
			label = ui.RenderMuted(label)
		}
		b.WriteString(ui.RenderActive(ui.SymbolBar) + "  " + mark + " " + label + "\n")
	}
	if m.warning != "" {
		b.WriteString(ui.RenderWarning(ui.SymbolBar+"  "+m.warning) + "\n")
	}
	b.WriteString(ui.RenderActive(ui.SymbolEnd) + "\n")
	return b.String()
}

// confirmModel drives Confirm.
type confirmModel struct {
	title     string
	value     bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyLeft, tea.KeyRight, tea.KeyUp, tea.KeyDown, tea.KeyTab:
		m.value = !m.value
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch strings.ToLower(string(key.Runes)) {
		case "y":
			m.value, m.done = true, true
			return m, tea.Quit
		case "n":
			m.value, m.done = false, true
			return m, tea.Quit
		case "h", "l":
			m.value = !m.value
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	yes, no := "○ Yes", "○ No"
	if m.value {
		yes = ui.RenderSuccess("● Yes")
		no = ui.RenderMuted(no)
	} else {
		no = ui.RenderSuccess("● No")
		yes = ui.RenderMuted(yes)
	}
	return ui.RenderActive(ui.SymbolActive) + "  " + m.title + "\n" +
		ui.RenderActive(ui.SymbolBar) + "  " + yes + " / " + no + "\n" +
		ui.RenderActive(ui.SymbolEnd) + "\n"
}

type (
	spinnerLabelMsg string
	spinnerStopMsg  struct{}
)

// spinnerModel renders an animated line until told to stop.
type spinnerModel struct {
	spinner  spinner.Model
	label    string
	quitting bool
}

func newSpinnerModel(label string) spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Active
	return spinnerModel{spinner: sp, label: label}
}

func (m spinnerModel) Init() tea.Cmd { return m.spinner.Tick }

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerLabelMsg:
		m.label = string(msg)
	case spinnerStopMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}
