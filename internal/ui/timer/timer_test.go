package timer

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/adibhanna/timetracker/internal/config"
	"github.com/adibhanna/timetracker/internal/models"
	"github.com/adibhanna/timetracker/internal/session"
	"github.com/adibhanna/timetracker/internal/tracker"
	"github.com/adibhanna/timetracker/internal/ui/entry"
	"github.com/adibhanna/timetracker/internal/ui/help"
)

type memoryStore struct {
	entries []models.TimeEntry
	err     error
}

func (m *memoryStore) Append(e models.TimeEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

type harness struct {
	model Model
	store *memoryStore
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: &memoryStore{},
		now:   time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC),
	}
	tr := tracker.New(h.store, nil,
		tracker.WithClock(func() time.Time { return h.now }),
		tracker.WithIDGenerator(func() string { return "fixed-id" }),
		tracker.WithLocation(time.UTC),
	)
	cfg := config.DefaultConfig(t.TempDir())
	cfg.NoticeTimeout = time.Millisecond
	h.model = New(cfg, tr)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	m, cmd := h.model.Update(msg)
	h.model = m.(Model)
	return cmd
}

func (h *harness) key(s string) tea.Cmd {
	switch s {
	case "space":
		return h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "ctrl+s":
		return h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestInitAndTickKeepRefreshing(t *testing.T) {
	h := newHarness(t)
	require.NotNil(t, h.model.Init())

	for _, state := range []string{"idle", "running", "paused"} {
		require.NotNil(t, h.send(tickMsg(h.now)), state)
		h.key("space")
	}
}

func TestToggleShowsLiveClock(t *testing.T) {
	h := newHarness(t)
	require.Contains(t, h.model.View(), "00:00:00")

	h.key("space")
	h.advance(5 * time.Second)
	h.send(tickMsg(h.now))
	require.Contains(t, h.model.View(), "00:00:05")

	h.key("space")
	h.advance(time.Minute)
	require.Contains(t, h.model.View(), "00:00:05", "paused clock is frozen")
	require.Contains(t, h.model.View(), "PAUSED")
}

func TestControls(t *testing.T) {
	h := newHarness(t)

	assertControls := func(play, pause, stop bool) {
		t.Helper()
		p, pa, s := h.model.controls()
		require.Equal(t, []bool{play, pause, stop}, []bool{p, pa, s})
	}

	assertControls(true, false, false)
	h.key("s")
	assertControls(false, true, true)
	h.key("p")
	assertControls(true, false, true)

	h.advance(3 * time.Second)
	h.key("s")
	h.advance(3 * time.Second)
	h.key("x")
	require.True(t, h.model.Prompting())
	assertControls(false, false, false)
}

func TestStopWithNothingTracked(t *testing.T) {
	h := newHarness(t)
	h.key("space")
	h.advance(400 * time.Millisecond)

	require.NotNil(t, h.key("x"))
	require.False(t, h.model.Prompting())
	require.Equal(t, NoticeNothingToSave, h.model.Notice())
	require.Equal(t, session.Idle, h.model.tracker.State())
	require.Empty(t, h.store.entries)
}

func TestStopPromptAndSave(t *testing.T) {
	h := newHarness(t)
	h.key("space")
	h.advance(125 * time.Second)

	h.key("ctrl+s")
	require.True(t, h.model.Prompting())
	require.Contains(t, h.model.View(), "Task details · 00:02:05")

	// Ticks keep flowing while the dialog is open.
	require.NotNil(t, h.send(tickMsg(h.now)))

	// Keys go to the dialog, not to the timer controls.
	h.key("APP-7")
	h.key("space")
	require.True(t, h.model.tracker.Finalizing())

	cmd := h.key("enter")
	require.NotNil(t, cmd)
	res, ok := cmd().(entry.ResultMsg)
	require.True(t, ok)

	h.send(res)
	require.False(t, h.model.Prompting())
	require.Equal(t, NoticeSaved, h.model.Notice())
	require.Len(t, h.store.entries, 1)
	require.Equal(t, "APP-7", h.store.entries[0].TicketURL)
	require.Equal(t, 125, h.store.entries[0].DurationSeconds)
	require.Equal(t, session.Idle, h.model.tracker.State())
	require.Contains(t, h.model.View(), "00:00:00")
}

func TestCancelKeepsTimePaused(t *testing.T) {
	h := newHarness(t)
	h.key("space")
	h.advance(42 * time.Second)
	h.key("x")

	h.send(entry.ResultMsg{Cancelled: true})
	require.False(t, h.model.Prompting())
	require.Equal(t, session.Paused, h.model.tracker.State())
	require.Equal(t, 42, h.model.tracker.Elapsed())
	require.Empty(t, h.store.entries)
	require.Empty(t, h.model.Notice())
}

func TestSaveFailureShowsReason(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("append csv: permission denied")

	h.key("space")
	h.advance(9 * time.Second)
	h.key("x")
	h.send(entry.ResultMsg{Details: models.NewDetails("", "", "")})

	require.Equal(t, "Failed to write logs: append csv: permission denied", h.model.Notice())
	require.Equal(t, session.Paused, h.model.tracker.State())
	require.Equal(t, 9, h.model.tracker.Elapsed())

	// The retry path is the normal Stop.
	h.store.err = nil
	h.key("x")
	require.True(t, h.model.Prompting())
}

func TestNoticeClears(t *testing.T) {
	h := newHarness(t)
	h.key("x")
	h.key("space")
	h.key("x")
	require.Equal(t, NoticeNothingToSave, h.model.Notice())
	first := h.model.noticeID

	h.key("space")
	h.key("x")
	require.Equal(t, first+1, h.model.noticeID)

	h.send(clearNoticeMsg{id: first})
	require.Equal(t, NoticeNothingToSave, h.model.Notice(), "stale timer does not clear a newer notice")

	h.send(clearNoticeMsg{id: first + 1})
	require.Empty(t, h.model.Notice())
}

func TestLongNoticeIsTruncated(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 30, Height: 10})
	h.model.notice = NoticeSaveFailed + strings.Repeat("very long reason ", 10)

	out := h.model.renderNotice(30)
	require.Contains(t, out, "…")
	require.NotContains(t, out, strings.Repeat("very long reason ", 2))
}

func TestQuit(t *testing.T) {
	t.Run("idle quits at once", func(t *testing.T) {
		h := newHarness(t)
		require.True(t, isQuit(h.key("q")))
		require.True(t, h.model.Quitting())
	})

	t.Run("running with zero time quits at once", func(t *testing.T) {
		h := newHarness(t)
		h.key("space")
		require.True(t, isQuit(h.key("q")))
	})

	t.Run("unsaved time asks first", func(t *testing.T) {
		h := newHarness(t)
		h.key("space")
		h.advance(10 * time.Second)

		require.False(t, isQuit(h.key("q")))
		require.Equal(t, NoticeConfirmQuit, h.model.Notice())
		require.True(t, isQuit(h.key("q")))
	})

	t.Run("another key resets the guard", func(t *testing.T) {
		h := newHarness(t)
		h.key("space")
		h.advance(10 * time.Second)

		require.False(t, isQuit(h.key("q")))
		h.key("p")
		require.False(t, isQuit(h.key("q")))
	})
}

func TestHelpOverlay(t *testing.T) {
	h := newHarness(t)
	h.key("?")
	view := h.model.View()
	require.Contains(t, view, "Time Tracker Help")
	require.Contains(t, view, "time_log.jsonl")
	require.Contains(t, view, "time_log.csv")

	// Timer keys are ignored while help is shown.
	h.key("s")
	require.Equal(t, session.Idle, h.model.tracker.State())

	cmd := h.key("esc")
	require.NotNil(t, cmd)
	_, ok := cmd().(help.ClosedMsg)
	require.True(t, ok)

	h.send(help.ClosedMsg{})
	require.NotContains(t, h.model.View(), "Time Tracker Help")
}
