package orchestrator

import (
	"strings"

	"fluxwell/models"
	"fluxwell/utils"
)

// ShouldGenerate reports whether an automatic generation should run. It fires when AI
// mode is on and either the plan is empty or today is the anchor day of a cycle that has
// not been generated yet. A non-empty plan left over from an earlier cycle does not fire
// on other days.
func ShouldGenerate(aiEnabled bool, totalExercises int, today, anchorDate, lastGeneratedAnchor string) bool {
	if !aiEnabled {
		return false
	}
	return totalExercises == 0 || (today == anchorDate && lastGeneratedAnchor != anchorDate)
}

// BuildWeekUpdate converts a candidate plan into the week write format. The weekday of
// each day is its position in plan.Week; day labels are never parsed. Days missing from
// the candidate are written empty so the whole week is replaced.
func BuildWeekUpdate(plan *models.AIGeneratedPlan, weekStart string) models.WeekPlanUpdateRequest {
	req := models.WeekPlanUpdateRequest{
		WeekStart: weekStart,
		Source:    models.PlanTypeAI,
		Days:      make([]models.WeekDayInput, utils.DaysInWeek),
	}
	for i := range req.Days {
		day := models.WeekDayInput{Weekday: i, Exercises: []models.PlanExercise{}}
		if plan != nil && i < len(plan.Week) {
			src := plan.Week[i]
			day.Name = strings.TrimSpace(src.Focus)
			if day.Name == "" {
				day.Name = strings.TrimSpace(src.Day)
			}
			day.Exercises = append(day.Exercises, src.Exercises...)
		}
		req.Days[i] = day
	}
	return req
}

// alignWeek maps a loaded week onto the seven dates of the current week so the
// displayed calendar is always date-correct.
func alignWeek(loaded models.WeekPlan, empty models.WeekPlan) models.WeekPlan {
	byDate := make(map[string]models.DayPlan, len(loaded.Days))
	for _, d := range loaded.Days {
		byDate[d.Date] = d
	}
	for i := range empty.Days {
		d, ok := byDate[empty.Days[i].Date]
		if !ok {
			continue
		}
		empty.Days[i].Name = d.Name
		empty.Days[i].PlanType = d.PlanType
		if d.Exercises != nil {
			empty.Days[i].Exercises = d.Exercises
		}
	}
	return empty
}

func clonePlan(plan *models.AIGeneratedPlan) *models.AIGeneratedPlan {
	if plan == nil {
		return nil
	}
	out := &models.AIGeneratedPlan{Summary: plan.Summary, Week: make([]models.PlanDay, len(plan.Week))}
	for i, day := range plan.Week {
		day.Exercises = append([]models.PlanExercise(nil), day.Exercises...)
		out.Week[i] = day
	}
	return out
}

func cloneWeek(week models.WeekPlan) models.WeekPlan {
	out := models.WeekPlan{WeekStart: week.WeekStart, Days: make([]models.DayPlan, len(week.Days))}
	for i, day := range week.Days {
		day.Exercises = append([]models.PlanExercise{}, day.Exercises...)
		out.Days[i] = day
	}
	return out
}
