package models

import (
	"time"

	"fluxwell/utils"
)

// AIMode selects whether the active plan view is AI-driven or manually curated.
type AIMode string

const (
	AIModeAI     AIMode = "ai"
	AIModeAssist AIMode = "assist" // Manual plan editing
)

// Valid reports whether m is a known mode.
func (m AIMode) Valid() bool {
	return m == AIModeAI || m == AIModeAssist
}

// Enabled reports whether m turns AI planning on.
func (m AIMode) Enabled() bool {
	return m == AIModeAI
}

// AIModeFromEnabled maps the server's ai_enabled flag to a mode.
func AIModeFromEnabled(enabled bool) AIMode {
	if enabled {
		return AIModeAI
	}
	return AIModeAssist
}

// PlanType tags where a committed day came from.
type PlanType string

const (
	PlanTypeManual PlanType = "manual"
	PlanTypeAI     PlanType = "ai"
)

// PlanExercise is one exercise prescription inside a day.
type PlanExercise struct {
	ExerciseID      string `json:"exercise_id"`
	Name            string `json:"name"`
	Sets            int    `json:"sets"`
	Reps            string `json:"reps"` // Range such as "8-12"
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	RestSeconds     *int   `json:"rest_seconds,omitempty"`
	Notes           string `json:"notes,omitempty"`
	MediaURL        string `json:"media_url,omitempty"`
}

// DayPlan is one committed calendar day of a week plan.
// IsToday and IsCompleted are derived from the wall clock and never stored.
type DayPlan struct {
	Date        string         `json:"date"`
	Weekday     int            `json:"weekday"` // 0 = Monday
	Name        string         `json:"name"`
	PlanType    PlanType       `json:"plan_type,omitempty"`
	Exercises   []PlanExercise `json:"exercises"`
	IsToday     bool           `json:"is_today"`
	IsCompleted bool           `json:"is_completed"`
}

// WeekPlan is the canonical Monday-to-Sunday plan.
type WeekPlan struct {
	WeekStart string    `json:"week_start"`
	Days      []DayPlan `json:"days"`
}

// TotalExercises counts exercises across all days.
func (w WeekPlan) TotalExercises() int {
	total := 0
	for _, d := range w.Days {
		total += len(d.Exercises)
	}
	return total
}

// NewEmptyWeek builds the seven empty days of the week containing start with derived flags set from now.
func NewEmptyWeek(start, now time.Time) WeekPlan {
	dates := utils.WeekDatesUTC(start)
	week := WeekPlan{WeekStart: dates[0], Days: make([]DayPlan, len(dates))}
	for i, date := range dates {
		week.Days[i] = DayPlan{Date: date, Weekday: i, Exercises: []PlanExercise{}}
	}
	week.ApplyDayFlags(now)
	return week
}

// ApplyDayFlags recomputes IsToday and IsCompleted of every day from now.
func (w *WeekPlan) ApplyDayFlags(now time.Time) {
	today := utils.FormatISODate(now)
	for i := range w.Days {
		// ISO dates compare chronologically as strings.
		w.Days[i].IsToday = w.Days[i].Date == today
		w.Days[i].IsCompleted = w.Days[i].Date < today
	}
}

// WeekPlanResponse is the GET/PATCH week payload including AI scheduling settings.
type WeekPlanResponse struct {
	WeekPlan
	AIEnabled           bool   `json:"ai_enabled"`
	AIAnchorWeekday     int    `json:"ai_anchor_weekday"`
	LastGeneratedAnchor string `json:"last_generated_anchor,omitempty"`
}

// WeekDayInput is one day of a week write.
type WeekDayInput struct {
	Name      string         `json:"name"`
	Weekday   int            `json:"weekday"`
	Exercises []PlanExercise `json:"exercises"`
}

// WeekPlanUpdateRequest is the PATCH body. Only the listed weekdays are replaced.
type WeekPlanUpdateRequest struct {
	WeekStart string         `json:"week_start,omitempty"` // Monday; defaults to the current week
	Source    PlanType       `json:"source,omitempty"`     // "ai" for committed AI plans
	Days      []WeekDayInput `json:"days" binding:"required"`
}

// TodaySession is the workout scheduled for the current UTC day.
type TodaySession struct {
	Date      string         `json:"date"`
	Weekday   int            `json:"weekday"`
	Name      string         `json:"name"`
	PlanType  PlanType       `json:"plan_type,omitempty"`
	Exercises []PlanExercise `json:"exercises"`
}

// PlanStatus answers the profile/plan existence check.
type PlanStatus struct {
	HasProfile bool `json:"has_profile"`
	HasPlan    bool `json:"has_plan"`
}

// ProfileRequest completes onboarding and seeds the AI planning inputs.
type ProfileRequest struct {
	Goal          string   `json:"goal" binding:"required"`
	Level         string   `json:"level"`
	DaysPerWeek   int      `json:"days_per_week"`
	Equipment     []string `json:"equipment,omitempty"`
	AnchorWeekday *int     `json:"anchor_weekday,omitempty"`
}

// AIModeRequest sets the AI mode.
type AIModeRequest struct {
	Mode AIMode `json:"mode" binding:"required"`
}

// AIModeResponse echoes the persisted mode.
type AIModeResponse struct {
	Mode      AIMode `json:"mode"`
	AIEnabled bool   `json:"ai_enabled"`
}

// AnchorRequest sets the weekday that triggers weekly regeneration.
type AnchorRequest struct {
	Weekday *int `json:"weekday" binding:"required"`
}

// ConflictEntry marks a target-week date that already holds committed exercises.
type ConflictEntry struct {
	Date     string   `json:"date"`
	PlanType PlanType `json:"plan_type"`
}

// ConflictCheckRequest lists the ISO dates to check.
type ConflictCheckRequest struct {
	Dates []string `json:"dates" binding:"required"`
}

// ConflictCheckResponse lists the conflicting dates.
type ConflictCheckResponse struct {
	Conflicts []ConflictEntry `json:"conflicts"`
}

// PlanDay is one day of an AI candidate plan.
type PlanDay struct {
	Day       string         `json:"day"`
	Focus     string         `json:"focus,omitempty"`
	Exercises []PlanExercise `json:"exercises"`
}

// AIGeneratedPlan is an uncommitted candidate week.
type AIGeneratedPlan struct {
	Week    []PlanDay `json:"week"`
	Summary string    `json:"summary"`
}

// GenerateWeekPlanRequest asks for a candidate plan. AnchorDate is sent when the
// generation belongs to an anchor cycle and is recorded as last_generated_anchor.
type GenerateWeekPlanRequest struct {
	AnchorDate string `json:"anchor_date,omitempty"`
}

// ExerciseOut is an exercise suggested as an alternative.
type ExerciseOut struct {
	ExerciseID    string `json:"exercise_id"`
	Name          string `json:"name"`
	PrimaryMuscle string `json:"primary_muscle,omitempty"`
	Equipment     string `json:"equipment,omitempty"`
	MediaURL      string `json:"media_url,omitempty"`
}

// AlternativesRequest asks for replacements of one exercise.
type AlternativesRequest struct {
	Exercise PlanExercise `json:"exercise"`
	Focus    string       `json:"focus,omitempty"`
}

// AlternativesResponse is a ranked list of replacements.
type AlternativesResponse struct {
	Alternatives []ExerciseOut `json:"alternatives"`
	Rationale    string        `json:"rationale,omitempty"`
}
