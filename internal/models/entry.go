package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusDone       Status = "done"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusReview     Status = "review"
	StatusCancelled  Status = "cancelled"
	StatusOther      Status = "other"
)

// Statuses is the fixed status enumeration in display order. The first
// value is the default selection in the entry dialog.
var Statuses = []Status{
	StatusDone,
	StatusInProgress,
	StatusBlocked,
	StatusReview,
	StatusCancelled,
	StatusOther,
}

// ParseStatus maps free text onto the enumeration. Anything blank or
// unknown becomes StatusOther.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	for _, status := range Statuses {
		if string(status) == s {
			return status
		}
	}
	return StatusOther
}

// Details are the user supplied fields collected when a session stops.
type Details struct {
	TicketURL string
	Note      string
	Status    Status
}

// NewDetails trims the free-text fields and coerces the status.
func NewDetails(ticketURL, note, status string) Details {
	return Details{
		TicketURL: strings.TrimSpace(ticketURL),
		Note:      strings.TrimSpace(note),
		Status:    ParseStatus(status),
	}
}

type TimeEntry struct {
	ID              string `json:"id"`
	Date            string `json:"date"`       // YYYY-MM-DD, local date of the start
	StartISO        string `json:"start_iso"`  // UTC
	EndISO          string `json:"end_iso"`    // UTC
	DurationSeconds int    `json:"duration_seconds"`
	DurationHMS     string `json:"duration_hms"`
	TicketURL       string `json:"ticket_url"`
	Note            string `json:"note"`
	Status          Status `json:"status"`
}

// CSVHeader lists the tabular log columns. Row follows the same order.
var CSVHeader = []string{
	"id",
	"date",
	"start_iso",
	"end_iso",
	"duration_seconds",
	"duration_hms",
	"ticket_url",
	"note",
	"status",
}

// NewTimeEntry builds the record for a finished session. The date is taken
// from start in loc; the timestamps are rendered in UTC.
func NewTimeEntry(id string, start, end time.Time, seconds int, details Details, loc *time.Location) TimeEntry {
	if loc == nil {
		loc = time.Local
	}
	if seconds < 0 {
		seconds = 0
	}

	return TimeEntry{
		ID:              id,
		Date:            start.In(loc).Format("2006-01-02"),
		StartISO:        FormatISO(start),
		EndISO:          FormatISO(end),
		DurationSeconds: seconds,
		DurationHMS:     FormatHMS(seconds),
		TicketURL:       details.TicketURL,
		Note:            details.Note,
		Status:          ParseStatus(string(details.Status)),
	}
}

func (e TimeEntry) Row() []string {
	return []string{
		e.ID,
		e.Date,
		e.StartISO,
		e.EndISO,
		strconv.Itoa(e.DurationSeconds),
		e.DurationHMS,
		e.TicketURL,
		e.Note,
		string(e.Status),
	}
}

// FormatHMS renders seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatISO renders t in UTC with an explicit +00:00 offset. Microseconds
// are printed as six digits, and only when non-zero.
func FormatISO(t time.Time) string {
	t = t.UTC().Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}
