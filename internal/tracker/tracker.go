package tracker

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adibhanna/timetracker/internal/logging"
	"github.com/adibhanna/timetracker/internal/models"
	"github.com/adibhanna/timetracker/internal/session"
)

// ErrNotFinalizing is returned by Save and Cancel when no Stop is waiting
// for details.
var ErrNotFinalizing = errors.New("no stopped session is waiting for details")

// Appender persists a finished entry. *storage.Storage implements it.
type Appender interface {
	Append(entry models.TimeEntry) error
}

type Outcome int

const (
	// Ignored: Stop was a no-op (idle, or already waiting for details).
	Ignored Outcome = iota
	// NothingToSave: the session had zero seconds and was discarded.
	NothingToSave
	// NeedDetails: the duration is final; call Save or Cancel next.
	NeedDetails
)

type StopResult struct {
	Outcome Outcome
	Seconds int
}

// Tracker drives one session at a time. It is not safe for concurrent use;
// the UI calls it from its update loop only.
type Tracker struct {
	session session.Session
	store   Appender
	log     logging.Logger
	now     func() time.Time
	newID   func() string
	loc     *time.Location
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// WithLocation sets the zone used for an entry's calendar date.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

func New(store Appender, log logging.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logging.Discard()
	}
	return t
}

func (t *Tracker) State() session.State {
	return t.session.State
}

// Finalizing reports whether Save or Cancel is expected next.
func (t *Tracker) Finalizing() bool {
	return t.session.Finalizing()
}

func (t *Tracker) Elapsed() int {
	return t.session.Elapsed(t.now())
}

// HasUnsaved reports whether quitting now would lose tracked time.
func (t *Tracker) HasUnsaved() bool {
	if t.session.Finalizing() {
		return true
	}
	return t.session.State != session.Idle && t.Elapsed() > 0
}

func (t *Tracker) Play() {
	t.apply(session.Play)
}

func (t *Tracker) Pause() {
	t.apply(session.Pause)
}

// Toggle pauses a running session and plays otherwise.
func (t *Tracker) Toggle() {
	if t.session.State == session.Running {
		t.Pause()
		return
	}
	t.Play()
}

func (t *Tracker) Stop() StopResult {
	switch t.apply(session.Stop) {
	case session.NothingToSave:
		t.log.Info("nothing to save")
		return StopResult{Outcome: NothingToSave}
	case session.Prompt:
		return StopResult{Outcome: NeedDetails, Seconds: t.session.Accumulated}
	default:
		return StopResult{Outcome: Ignored}
	}
}

// Cancel abandons the pending Stop. The session goes back to paused with
// its time intact.
func (t *Tracker) Cancel() error {
	if !t.session.Finalizing() {
		return ErrNotFinalizing
	}
	t.apply(session.Cancel)
	return nil
}

// Save builds the entry for the pending Stop and appends it. If the append
// fails the session goes back to paused so Stop can be retried; the details
// are not kept.
func (t *Tracker) Save(details models.Details) (models.TimeEntry, error) {
	if !t.session.Finalizing() {
		return models.TimeEntry{}, ErrNotFinalizing
	}

	s := t.session
	entry := models.NewTimeEntry(t.newID(), s.Start, s.End, s.Accumulated, details, t.loc)

	if err := t.store.Append(entry); err != nil {
		t.log.Error("failed to write logs", "id", entry.ID, "seconds", entry.DurationSeconds, "err", err)
		t.apply(session.Fail)
		return models.TimeEntry{}, err
	}

	t.apply(session.Commit)
	t.log.Info("entry saved",
		"id", entry.ID,
		"seconds", entry.DurationSeconds,
		"status", entry.Status,
	)
	return entry, nil
}

func (t *Tracker) apply(ev session.Event) session.Effect {
	from := t.session.State
	next, effect := t.session.Apply(ev, t.now())
	t.session = next
	if next.State != from {
		t.log.Debug("transition",
			"event", ev.String(),
			"from", from.String(),
			"to", next.State.String(),
			"accumulated", next.Accumulated,
		)
	}
	return effect
}
