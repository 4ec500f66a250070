// Package timer is the main window: the live clock, the Play/Pause/Stop
// controls and the notice line. It opens the entry dialog on Stop and the
// help overlay on demand.
package timer

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/adibhanna/timetracker/internal/config"
	"github.com/adibhanna/timetracker/internal/models"
	"github.com/adibhanna/timetracker/internal/session"
	"github.com/adibhanna/timetracker/internal/tracker"
	"github.com/adibhanna/timetracker/internal/ui/entry"
	"github.com/adibhanna/timetracker/internal/ui/help"
)

const (
	NoticeNothingToSave = "Nothing to save (duration is 0s)."
	NoticeSaved         = "Entry saved."
	NoticeSaveFailed    = "Failed to write logs: "
	NoticeConfirmQuit   = "Unsaved session. Press q again to discard."
)

type tickMsg time.Time

type clearNoticeMsg struct {
	id int
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

type Model struct {
	cfg     config.Config
	tracker *tracker.Tracker

	entry     entry.Model
	prompting bool

	help     help.Model
	showHelp bool

	notice     string
	noticeKind noticeKind
	noticeID   int

	confirmQuit bool
	quitting    bool

	width  int
	height int
}

func New(cfg config.Config, t *tracker.Tracker) Model {
	return Model{
		cfg:     cfg,
		tracker: t,
		help:    help.New(helpSections(), cfg.JSONLPath, cfg.CSVPath),
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.cfg.RefreshInterval)
}

// tickCmd drives the clock. It is re-armed on every tick whatever the state,
// so the label never goes stale.
func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.entry.SetWidth(msg.Width)
		m.help.SetSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		return m, tickCmd(m.cfg.RefreshInterval)

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case entry.ResultMsg:
		return m.finish(msg)

	case help.ClosedMsg:
		m.showHelp = false
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updateEntry(msg)
		}
		if m.showHelp {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}

	if m.prompting {
		return m.updateEntry(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		if m.confirmQuit || !m.tracker.HasUnsaved() {
			m.quitting = true
			return m, tea.Quit
		}
		m.confirmQuit = true
		return m, m.setNotice(NoticeConfirmQuit, noticeInfo)
	}
	m.confirmQuit = false

	switch {
	case key.Matches(msg, keys.Toggle):
		m.tracker.Toggle()

	case key.Matches(msg, keys.Play):
		m.tracker.Play()

	case key.Matches(msg, keys.Pause):
		m.tracker.Pause()

	case key.Matches(msg, keys.Stop):
		return m.stop()

	case key.Matches(msg, keys.Help):
		m.showHelp = true
	}

	return m, nil
}

func (m Model) stop() (tea.Model, tea.Cmd) {
	res := m.tracker.Stop()
	switch res.Outcome {
	case tracker.NothingToSave:
		return m, m.setNotice(NoticeNothingToSave, noticeInfo)

	case tracker.NeedDetails:
		m.entry = entry.New(models.FormatHMS(res.Seconds), m.cfg.Statuses)
		m.entry.SetWidth(m.width)
		m.prompting = true
		return m, m.entry.Init()
	}
	return m, nil
}

func (m Model) finish(res entry.ResultMsg) (tea.Model, tea.Cmd) {
	m.prompting = false

	if res.Cancelled {
		// Only fails when nothing is pending, which the prompting flag rules out.
		_ = m.tracker.Cancel()
		return m, nil
	}

	if _, err := m.tracker.Save(res.Details); err != nil {
		if errors.Is(err, tracker.ErrNotFinalizing) {
			return m, nil
		}
		return m, m.setNotice(NoticeSaveFailed+err.Error(), noticeError)
	}
	return m, m.setNotice(NoticeSaved, noticeSuccess)
}

func (m Model) updateEntry(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

// setNotice replaces the current notice and schedules its removal. A newer
// notice outlives the timers of the ones it replaced.
func (m *Model) setNotice(text string, kind noticeKind) tea.Cmd {
	m.noticeID++
	m.notice = text
	m.noticeKind = kind

	id := m.noticeID
	return tea.Tick(m.cfg.NoticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

// Notice is the text currently shown on the notice line.
func (m Model) Notice() string {
	return m.notice
}

// Prompting reports whether the entry dialog is open.
func (m Model) Prompting() bool {
	return m.prompting
}

func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.help.View()
	}

	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	containerStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	if m.prompting {
		return containerStyle.Render(lipgloss.JoinVertical(
			lipgloss.Center,
			m.renderClock(),
			m.renderControls(),
			m.entry.View(),
		))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.renderClock(),
		m.renderControls(),
		m.renderStatus(),
		m.renderNotice(width),
		helpView(),
	)
	return containerStyle.Render(content)
}

func (m Model) renderClock() string {
	timerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(1, 4).
		MarginBottom(1)

	if m.tracker.State() == session.Paused {
		timerStyle = timerStyle.Background(lipgloss.Color("#555"))
	}

	return timerStyle.Render(models.FormatHMS(m.tracker.Elapsed()))
}

func (m Model) renderControls() string {
	enabledStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#4CAF50")).
		Padding(0, 2).
		MarginRight(1)

	disabledStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555")).
		Background(lipgloss.Color("#222")).
		Padding(0, 2).
		MarginRight(1)

	play, pause, stop := m.controls()
	button := func(label string, enabled bool) string {
		if enabled {
			return enabledStyle.Render(label)
		}
		return disabledStyle.Render(label)
	}

	return lipgloss.NewStyle().MarginBottom(1).Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		button("▶ Play", play),
		button("⏸ Pause", pause),
		button("■ Stop", stop),
	))
}

// controls reports which of Play, Pause and Stop are enabled.
func (m Model) controls() (play, pause, stop bool) {
	if m.prompting || m.tracker.Finalizing() {
		return false, false, false
	}
	switch m.tracker.State() {
	case session.Running:
		return false, true, true
	case session.Paused:
		return true, false, true
	default:
		return true, false, false
	}
}

func (m Model) renderStatus() string {
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888"))

	var status string
	switch m.tracker.State() {
	case session.Running:
		status = "Tracking..."
	case session.Paused:
		status = "PAUSED - press space to resume"
	default:
		status = "Press space to start tracking"
	}
	return statusStyle.Render(status)
}

func (m Model) renderNotice(width int) string {
	style := lipgloss.NewStyle().
		MarginTop(1).
		Height(1)

	switch m.noticeKind {
	case noticeSuccess:
		style = style.Foreground(lipgloss.Color("#4CAF50"))
	case noticeError:
		style = style.Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	default:
		style = style.Foreground(lipgloss.Color("#FDFF8C"))
	}

	limit := width - 4
	if limit < 10 {
		limit = 10
	}
	return style.Render(truncate.StringWithTail(m.notice, uint(limit), "…"))
}

func helpView() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(1)

	return helpStyle.Render("space: play/pause • x: stop • ?: help • q: quit")
}

func helpSections() []help.Section {
	return []help.Section{
		{
			Title:    "Timer",
			Bindings: help.FromBindings(keys.Toggle, keys.Play, keys.Pause, keys.Stop),
		},
		{
			Title: "Task details",
			Bindings: []help.Binding{
				{Keys: "tab / shift+tab", Desc: "next / previous field"},
				{Keys: "← / →", Desc: "change status"},
				{Keys: "enter", Desc: "save entry"},
				{Keys: "esc", Desc: "cancel and keep the time paused"},
			},
		},
		{
			Title:    "App",
			Bindings: help.FromBindings(keys.Help, keys.Quit),
		},
	}
}

type keyMap struct {
	Toggle key.Binding
	Play   key.Binding
	Pause  key.Binding
	Stop   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "play / pause"),
	),
	Play: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "play"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x", "ctrl+s"),
		key.WithHelp("x / ctrl+s", "stop and log the session"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q / ctrl+c", "quit"),
	),
}
