// Package entry is the modal dialog that collects a ticket link, a note and
// a status for a stopped session.
package entry

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/timetracker/internal/models"
)

const (
	fieldLink = iota
	fieldNote
	fieldStatus
	fieldCount
)

// ResultMsg is emitted exactly once, when the dialog is confirmed or
// cancelled.
type ResultMsg struct {
	Details   models.Details
	Cancelled bool
}

type Model struct {
	inputs     []textinput.Model
	statuses   []models.Status
	cursor     int
	focusIndex int
	duration   string
	done       bool
}

func New(duration string, statuses []models.Status) Model {
	if len(statuses) == 0 {
		statuses = models.Statuses
	}

	inputs := make([]textinput.Model, 2)

	inputs[fieldLink] = textinput.New()
	inputs[fieldLink].Placeholder = "https://… or APP-123"
	inputs[fieldLink].CharLimit = 500
	inputs[fieldLink].Width = 42
	inputs[fieldLink].Focus()

	inputs[fieldNote] = textinput.New()
	inputs[fieldNote].Placeholder = "What did you work on?"
	inputs[fieldNote].CharLimit = 1000
	inputs[fieldNote].Width = 42

	return Model{
		inputs:   inputs,
		statuses: statuses,
		duration: duration,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetWidth fits the text fields into a window of the given width.
func (m *Model) SetWidth(width int) {
	w := width - 24
	if w < 20 {
		w = 20
	}
	if w > 60 {
		w = 60
	}
	for i := range m.inputs {
		m.inputs[i].Width = w
	}
}

// Status is the currently selected status.
func (m Model) Status() models.Status {
	return m.statuses[m.cursor]
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Confirm):
			m.done = true
			details := models.NewDetails(
				m.inputs[fieldLink].Value(),
				m.inputs[fieldNote].Value(),
				string(m.Status()),
			)
			return m, result(ResultMsg{Details: details})

		case key.Matches(msg, keys.Cancel):
			m.done = true
			return m, result(ResultMsg{Cancelled: true})

		case key.Matches(msg, keys.Next):
			m.focusIndex = (m.focusIndex + 1) % fieldCount
			return m, m.updateFocus()

		case key.Matches(msg, keys.Prev):
			m.focusIndex = (m.focusIndex + fieldCount - 1) % fieldCount
			return m, m.updateFocus()
		}

		if m.focusIndex == fieldStatus {
			switch {
			case key.Matches(msg, keys.StatusNext):
				m.cursor = (m.cursor + 1) % len(m.statuses)
			case key.Matches(msg, keys.StatusPrev):
				m.cursor = (m.cursor + len(m.statuses) - 1) % len(m.statuses)
			}
			return m, nil
		}
	}

	return m, m.updateInputs(msg)
}

// updateInputs passes msg to every field; blurred fields ignore key input.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focusIndex {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func result(msg ResultMsg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func (m Model) View() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF7CCB")).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FDFF8C"))

	activeLabelStyle := labelStyle.Bold(true).Underline(true)

	inputStyle := lipgloss.NewStyle().
		MarginBottom(1)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	optionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888")).
		Padding(0, 1)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(1)

	label := func(field int, text string) string {
		if m.focusIndex == field {
			return activeLabelStyle.Render(text)
		}
		return labelStyle.Render(text)
	}

	var options []string
	for i, status := range m.statuses {
		if i == m.cursor {
			options = append(options, selectedStyle.Render(string(status)))
		} else {
			options = append(options, optionStyle.Render(string(status)))
		}
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Task details · "+m.duration),
		label(fieldLink, "Link (ticket / MR)"),
		inputStyle.Render(m.inputs[fieldLink].View()),
		label(fieldNote, "Note"),
		inputStyle.Render(m.inputs[fieldNote].View()),
		label(fieldStatus, "Status"),
		lipgloss.JoinHorizontal(lipgloss.Top, options...),
		helpStyle.Render("tab: next field • ←/→: status • enter: save • esc: cancel"),
	)

	return boxStyle.Render(content)
}

type keyMap struct {
	Confirm    key.Binding
	Cancel     key.Binding
	Next       key.Binding
	Prev       key.Binding
	StatusNext key.Binding
	StatusPrev key.Binding
}

var keys = keyMap{
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "previous field"),
	),
	StatusNext: key.NewBinding(
		key.WithKeys("right", "l", " ", "space"),
		key.WithHelp("→/l", "next status"),
	),
	StatusPrev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous status"),
	),
}
