package orchestrator

import (
	"fmt"

	"fluxwell/models"
	"fluxwell/utils"
)

// PendingAlternatives holds the suggestions returned for one exercise of the candidate.
type PendingAlternatives struct {
	DayIndex      int
	ExerciseIndex int
	ExerciseID    string
	Options       []models.ExerciseOut
	Rationale     string
}

// ReplaceExercise returns a copy of plan with the exercise at (dayIndex, exerciseIndex)
// swapped for alt. Identity, name and media come from alt; sets, reps, duration, rest
// and notes stay those of the original. plan itself is not modified.
func ReplaceExercise(plan *models.AIGeneratedPlan, dayIndex, exerciseIndex int, alt models.ExerciseOut) (*models.AIGeneratedPlan, error) {
	if err := checkIndices(plan, dayIndex, exerciseIndex); err != nil {
		return nil, err
	}
	out := clonePlan(plan)
	ex := out.Week[dayIndex].Exercises[exerciseIndex]
	ex.ExerciseID = alt.ExerciseID
	if ex.ExerciseID == "" {
		ex.ExerciseID = utils.ExerciseID(alt.Name)
	}
	ex.Name = alt.Name
	ex.MediaURL = alt.MediaURL
	out.Week[dayIndex].Exercises[exerciseIndex] = ex
	return out, nil
}

func checkIndices(plan *models.AIGeneratedPlan, dayIndex, exerciseIndex int) error {
	if plan == nil {
		return ErrNoCandidate
	}
	if dayIndex < 0 || dayIndex >= len(plan.Week) {
		return fmt.Errorf("%w: day %d", ErrIndexOutOfRange, dayIndex)
	}
	if exerciseIndex < 0 || exerciseIndex >= len(plan.Week[dayIndex].Exercises) {
		return fmt.Errorf("%w: exercise %d of day %d", ErrIndexOutOfRange, exerciseIndex, dayIndex)
	}
	return nil
}
