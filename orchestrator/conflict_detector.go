package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"fluxwell/models"
	"fluxwell/utils"
)

// ConflictDetector finds the days of a target week that already hold committed exercises.
type ConflictDetector struct {
	checker ConflictChecker
}

// NewConflictDetector creates a ConflictDetector backed by checker.
func NewConflictDetector(checker ConflictChecker) *ConflictDetector {
	return &ConflictDetector{checker: checker}
}

// Detect returns the conflicting days among weekDates, sorted by date with one entry per date.
// weekDates must be the seven consecutive ISO dates of one week, Monday first.
func (d *ConflictDetector) Detect(ctx context.Context, weekDates []string) ([]models.ConflictEntry, error) {
	if err := validateWeekDates(weekDates); err != nil {
		return nil, err
	}
	entries, err := d.checker.CheckConflicts(ctx, weekDates)
	if err != nil {
		return nil, fmt.Errorf("conflict check failed: %w", err)
	}

	wanted := make(map[string]bool, len(weekDates))
	for _, date := range weekDates {
		wanted[date] = true
	}
	seen := make(map[string]bool, len(entries))
	conflicts := make([]models.ConflictEntry, 0, len(entries))
	for _, entry := range entries {
		if !wanted[entry.Date] || seen[entry.Date] {
			continue
		}
		seen[entry.Date] = true
		if entry.PlanType == "" {
			entry.PlanType = models.PlanTypeManual
		}
		conflicts = append(conflicts, entry)
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Date < conflicts[j].Date })
	return conflicts, nil
}

func validateWeekDates(dates []string) error {
	if len(dates) != utils.DaysInWeek {
		return fmt.Errorf("%w: got %d dates", ErrInvalidWeekDates, len(dates))
	}
	first, err := utils.ParseISODate(dates[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWeekDates, err)
	}
	if utils.WeekdayIndex(first) != 0 {
		return fmt.Errorf("%w: %s is not a Monday", ErrInvalidWeekDates, dates[0])
	}
	for i, date := range dates {
		if want := utils.FormatISODate(first.AddDate(0, 0, i)); date != want {
			return fmt.Errorf("%w: expected %s at position %d, got %s", ErrInvalidWeekDates, want, i, date)
		}
	}
	return nil
}
