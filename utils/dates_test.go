package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStartUTC(t *testing.T) {
	// 2026-10-19 is a Monday.
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	t.Run("monday maps to itself", func(t *testing.T) {
		assert.Equal(t, monday, WeekStartUTC(monday.Add(23*time.Hour)))
	})

	t.Run("sunday maps to previous monday", func(t *testing.T) {
		sunday := time.Date(2026, 10, 25, 22, 0, 0, 0, time.UTC)
		assert.Equal(t, monday, WeekStartUTC(sunday))
	})

	t.Run("non-UTC input is normalised before truncation", func(t *testing.T) {
		// Sunday 23:30 in UTC-5 is already Monday 04:30 UTC.
		loc := time.FixedZone("UTC-5", -5*3600)
		sundayLocal := time.Date(2026, 10, 18, 23, 30, 0, 0, loc)
		assert.Equal(t, monday, WeekStartUTC(sundayLocal))
	})
}

func TestWeekDatesUTC(t *testing.T) {
	dates := WeekDatesUTC(time.Date(2026, 10, 22, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{
		"2026-10-19", "2026-10-20", "2026-10-21", "2026-10-22",
		"2026-10-23", "2026-10-24", "2026-10-25",
	}, dates)
}

func TestAnchorDateUTC_AlwaysWithinWeek(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 800; d++ {
		now := start.AddDate(0, 0, d).Add(time.Duration(d%24) * time.Hour)
		weekStart := WeekStartUTC(now)
		weekEnd := weekStart.AddDate(0, 0, DaysInWeek-1)
		for anchor := -2; anchor < 10; anchor++ {
			got := AnchorDateUTC(now, anchor)
			if got.Before(weekStart) || got.After(weekEnd) {
				t.Fatalf("anchor %d for %s gave %s outside [%s, %s]", anchor, now, got, weekStart, weekEnd)
			}
			if IsValidWeekday(anchor) {
				assert.Equal(t, anchor, WeekdayIndex(got))
			}
		}
	}
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, WeekdayIndex(time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, WeekdayIndex(time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)))
}

func TestParseWeekStart(t *testing.T) {
	now := time.Date(2026, 10, 22, 9, 0, 0, 0, time.UTC)

	got, err := ParseWeekStart("", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", FormatISODate(got))

	got, err = ParseWeekStart("2026-10-26", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-26", FormatISODate(got))

	_, err = ParseWeekStart("2026-10-27", now)
	assert.ErrorContains(t, err, "not a Monday")

	_, err = ParseWeekStart("27/10/2026", now)
	assert.ErrorContains(t, err, "invalid ISO date")
}

func TestExerciseID(t *testing.T) {
	assert.Equal(t, "barbell-back-squat", ExerciseID("Barbell Back Squat"))
	assert.Equal(t, "push-ups-3x", ExerciseID("  Push-ups (3x)  "))
	assert.NotEmpty(t, ExerciseID("!!!"))
}
