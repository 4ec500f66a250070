// Package session holds the stopwatch state machine. Transitions are pure:
// Apply takes the current value, an event and the wall-clock instant and
// returns the next value plus the side effect the caller has to perform.
package session

import "time"

type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

type Event int

const (
	Play Event = iota
	Pause
	Stop
	// Cancel, Fail and Commit resolve a Stop that returned Prompt.
	Cancel
	Fail
	Commit
)

func (e Event) String() string {
	switch e {
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Stop:
		return "stop"
	case Cancel:
		return "cancel"
	case Fail:
		return "fail"
	case Commit:
		return "commit"
	default:
		return "unknown"
	}
}

type Effect int

const (
	None Effect = iota
	// NothingToSave: Stop found zero accumulated seconds; the session was discarded.
	NothingToSave
	// Prompt: Stop finalized a non-zero duration; collect details, then send
	// Commit, Cancel or Fail.
	Prompt
	// Saved: the session was reset after Commit.
	Saved
	// RolledBack: Cancel or Fail returned the session to Paused.
	RolledBack
)

type Session struct {
	State State
	// Accumulated is the sum of completed segments, each truncated to whole
	// seconds.
	Accumulated int
	// ResumeAt is the start of the current segment; zero unless Running.
	ResumeAt time.Time
	Start    time.Time
	End      time.Time

	finalizing bool
}

// Finalizing reports whether a Stop is waiting for Commit, Cancel or Fail.
// Play, Pause and Stop are ignored in the meantime.
func (s Session) Finalizing() bool {
	return s.finalizing
}

// Elapsed is the value for the live display.
func (s Session) Elapsed(now time.Time) int {
	total := s.Accumulated
	if s.State == Running {
		total += segment(s.ResumeAt, now)
	}
	return total
}

func (s Session) Apply(ev Event, now time.Time) (Session, Effect) {
	switch ev {
	case Play:
		if s.finalizing || s.State == Running {
			return s, None
		}
		if s.State == Idle {
			s.Accumulated = 0
			s.Start = now
			s.End = time.Time{}
		}
		s.State = Running
		s.ResumeAt = now
		return s, None

	case Pause:
		if s.finalizing || s.State != Running {
			return s, None
		}
		s.Accumulated += segment(s.ResumeAt, now)
		s.ResumeAt = time.Time{}
		s.State = Paused
		return s, None

	case Stop:
		if s.finalizing || s.State == Idle {
			return s, None
		}
		if s.State == Running {
			s.Accumulated += segment(s.ResumeAt, now)
		}
		s.ResumeAt = time.Time{}
		s.State = Idle
		s.End = now
		if s.Accumulated <= 0 {
			return Session{}, NothingToSave
		}
		s.finalizing = true
		return s, Prompt

	case Cancel, Fail:
		if !s.finalizing {
			return s, None
		}
		s.finalizing = false
		s.State = Paused
		return s, RolledBack

	case Commit:
		if !s.finalizing {
			return s, None
		}
		return Session{}, Saved
	}

	return s, None
}

func segment(from, to time.Time) int {
	if from.IsZero() {
		return 0
	}
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
