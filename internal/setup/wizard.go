package setup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var questions = []question{
	{label: "Supabase project URL", placeholder: "https://abc123.supabase.co"},
	{label: "Supabase anon/public key", placeholder: "eyJhbGciOi..."},
	{label: "Supabase service role key", placeholder: "eyJhbGciOi...", secret: true},
	{label: "Supabase database password", secret: true},
}

// returns a wizard that writes to path; exists makes it ask before overwriting
func NewWizard(path string, exists bool) *Model {
	inputs := make([]textinput.Model, len(questions))

	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.placeholder
		ti.CharLimit = 0
		ti.Width = 60
		ti.Prompt = "> "
		ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
		ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

		if q.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}

		inputs[i] = ti
	}

	m := &Model{path: path, inputs: inputs, state: stateAsk}

	if exists {
		m.state = stateConfirmOverwrite
	} else {
		m.inputs[0].Focus()
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.state = stateCancelled
			return m, tea.Quit
		}

	case envWrittenMsg:
		m.state = stateDone
		return m, tea.Quit

	case errMsg:
		m.err = msg.err
		m.state = stateDone
		return m, tea.Quit
	}

	switch m.state {
	case stateConfirmOverwrite:
		return m.updateConfirm(msg)

	case stateAsk:
		return m.updateAsk(msg)

	default:
		return m, nil
	}
}

func (m *Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "y":
		m.state = stateAsk
		return m, m.inputs[0].Focus()

	case "n", "enter":
		m.state = stateCancelled
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateAsk(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		if problem := m.validate(m.focus); problem != "" {
			m.problem = problem
			return m, nil
		}

		m.problem = ""
		m.inputs[m.focus].Blur()

		if m.focus == len(m.inputs)-1 {
			m.state = stateWriting
			return m, writeEnv(m.path, m.answers())
		}

		m.focus++
		return m, m.inputs[m.focus].Focus()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

func (m *Model) validate(index int) string {
	value := strings.TrimSpace(m.inputs[index].Value())

	if value == "" {
		return questions[index].label + " is required"
	}

	if index == 0 && ProjectRef(value) == "" {
		return "expected a URL like https://abc123.supabase.co"
	}

	return ""
}

func (m *Model) answers() Answers {
	return Answers{
		SupabaseURL:      m.inputs[0].Value(),
		AnonKey:          m.inputs[1].Value(),
		ServiceRoleKey:   m.inputs[2].Value(),
		DatabasePassword: m.inputs[3].Value(),
	}
}

func writeEnv(path string, answers Answers) tea.Cmd {
	return func() tea.Msg {
		secrets, err := NewSecrets()
		if err != nil {
			return errMsg{err: err}
		}

		content, err := BuildEnv(answers, secrets)
		if err != nil {
			return errMsg{err: err}
		}

		if err := WriteEnv(path, content); err != nil {
			return errMsg{err: err}
		}

		return envWrittenMsg{}
	}
}

// reports whether the .env file was written
func (m *Model) Completed() bool {
	return m.state == stateDone && m.err == nil
}

func (m *Model) Cancelled() bool {
	return m.state == stateCancelled
}

func (m *Model) Err() error {
	return m.err
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CodeWithACP setup"))
	b.WriteString("\n")

	switch m.state {
	case stateConfirmOverwrite:
		b.WriteString(warnStyle.Render(fmt.Sprintf("%s already exists. Overwrite? (y/N)", m.path)))
		b.WriteString("\n")

	case stateCancelled:
		b.WriteString(labelStyle.Render("setup cancelled."))
		b.WriteString("\n")

	case stateWriting:
		b.WriteString(labelStyle.Render("writing " + m.path + "..."))
		b.WriteString("\n")

	case stateDone:
		if m.err != nil {
			b.WriteString(warnStyle.Render("error: " + m.err.Error()))
		} else {
			b.WriteString(activeLabelStyle.Render("environment written to " + m.path))
		}
		b.WriteString("\n")

	default:
		for i, q := range questions {
			switch {
			case i < m.focus:
				b.WriteString(doneStyle.Render("✓ " + q.label))

			case i == m.focus:
				b.WriteString(activeLabelStyle.Render(q.label))
				b.WriteString("\n")
				b.WriteString(m.inputs[i].View())

			default:
				b.WriteString(labelStyle.Render("  " + q.label))
			}
			b.WriteString("\n")
		}

		if m.problem != "" {
			b.WriteString("\n")
			b.WriteString(warnStyle.Render(m.problem))
			b.WriteString("\n")
		}

		b.WriteString(helpStyle.Render("press enter to continue. esc cancels."))
	}

	return b.String()
}
