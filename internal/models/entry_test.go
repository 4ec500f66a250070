package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatHMS(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{65, "00:01:05"},
		{125, "00:02:05"},
		{3599, "00:59:59"},
		{3600, "01:00:00"},
		{100*3600 + 61, "100:01:01"},
		{-5, "00:00:00"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, FormatHMS(tc.seconds), "seconds=%d", tc.seconds)
	}
}

func TestFormatISO(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	t.Run("whole seconds omit the fraction", func(t *testing.T) {
		ts := time.Date(2024, 3, 9, 23, 30, 0, 0, berlin)
		require.Equal(t, "2024-03-09T22:30:00+00:00", FormatISO(ts))
	})

	t.Run("fraction is six digits", func(t *testing.T) {
		ts := time.Date(2024, 3, 9, 10, 0, 1, 120_000_000, time.UTC)
		require.Equal(t, "2024-03-09T10:00:01.120000+00:00", FormatISO(ts))
	})

	t.Run("sub-microsecond part is dropped", func(t *testing.T) {
		ts := time.Date(2024, 3, 9, 10, 0, 1, 999, time.UTC)
		require.Equal(t, "2024-03-09T10:00:01+00:00", FormatISO(ts))
	})
}

func TestParseStatus(t *testing.T) {
	for _, status := range Statuses {
		require.Equal(t, status, ParseStatus(string(status)))
	}
	require.Equal(t, StatusReview, ParseStatus("  review "))
	require.Equal(t, StatusOther, ParseStatus(""))
	require.Equal(t, StatusOther, ParseStatus("   "))
	require.Equal(t, StatusOther, ParseStatus("DONE"))
	require.Equal(t, StatusOther, ParseStatus("wontfix"))
}

func TestNewDetails_TrimsAndCoerces(t *testing.T) {
	d := NewDetails("  https://example.com/T-1 ", " fixed it\t", "")
	require.Equal(t, "https://example.com/T-1", d.TicketURL)
	require.Equal(t, "fixed it", d.Note)
	require.Equal(t, StatusOther, d.Status)
}

func TestNewTimeEntry(t *testing.T) {
	// 00:30 on the 10th in UTC+2 is still the 9th in UTC; the date follows local time.
	plus2 := time.FixedZone("EET", 2*3600)
	start := time.Date(2024, 3, 10, 0, 30, 0, 0, plus2)
	end := start.Add(130 * time.Second)

	e := NewTimeEntry("abc", start, end, 125, NewDetails("T-1", "note, with comma", "blocked"), plus2)

	require.Equal(t, "abc", e.ID)
	require.Equal(t, "2024-03-10", e.Date)
	require.Equal(t, "2024-03-09T22:30:00+00:00", e.StartISO)
	require.Equal(t, "2024-03-09T22:32:10+00:00", e.EndISO)
	require.Equal(t, 125, e.DurationSeconds)
	require.Equal(t, "00:02:05", e.DurationHMS)
	require.Equal(t, StatusBlocked, e.Status)

	require.Equal(t, []string{
		"abc",
		"2024-03-10",
		"2024-03-09T22:30:00+00:00",
		"2024-03-09T22:32:10+00:00",
		"125",
		"00:02:05",
		"T-1",
		"note, with comma",
		"blocked",
	}, e.Row())
	require.Len(t, CSVHeader, len(e.Row()))
}

func TestNewTimeEntry_UnknownStatusBecomesOther(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	e := NewTimeEntry("x", now, now, 1, Details{Status: "bogus"}, time.UTC)
	require.Equal(t, StatusOther, e.Status)
}
