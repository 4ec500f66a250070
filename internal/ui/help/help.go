// Package help renders the key-binding overlay of the main window.
package help

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ClosedMsg tells the parent to hide the overlay.
type ClosedMsg struct{}

// Binding is one row of the overlay.
type Binding struct {
	Keys string
	Desc string
}

type Section struct {
	Title    string
	Bindings []Binding
}

type Model struct {
	sections  []Section
	jsonlPath string
	csvPath   string
	width     int
	height    int
}

func New(sections []Section, jsonlPath, csvPath string) Model {
	return Model{
		sections:  sections,
		jsonlPath: jsonlPath,
		csvPath:   csvPath,
	}
}

// FromBindings turns bubbles key bindings into overlay rows using their help
// text. Disabled bindings are listed too.
func FromBindings(bindings ...key.Binding) []Binding {
	rows := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		rows = append(rows, Binding{Keys: h.Key, Desc: h.Desc})
	}
	return rows
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Close) {
		return m, func() tea.Msg { return ClosedMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	containerStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF7CCB")).
		MarginBottom(1)

	sectionTitleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FDFF8C")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4CAF50")).
		Bold(true).
		Width(keyColumn(m.sections) + 2)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC"))

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	parts := []string{titleStyle.Render("Time Tracker Help")}

	for _, s := range m.sections {
		parts = append(parts, sectionTitleStyle.Render(s.Title))
		for _, b := range s.Bindings {
			parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
				keyStyle.Render(b.Keys),
				descStyle.Render(b.Desc),
			))
		}
	}

	parts = append(parts,
		sectionTitleStyle.Render("Logs"),
		descStyle.Render(fmt.Sprintf("Entries are appended to\n  %s\n  %s", m.jsonlPath, m.csvPath)),
		footerStyle.Render("? / esc: close help"),
	)

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func keyColumn(sections []Section) int {
	w := 0
	for _, s := range sections {
		for _, b := range s.Bindings {
			w = max(w, lipgloss.Width(b.Keys))
		}
	}
	return w
}

type keyMap struct {
	Close key.Binding
}

var keys = keyMap{
	Close: key.NewBinding(
		key.WithKeys("?", "esc", "q"),
		key.WithHelp("?/esc", "close help"),
	),
}
