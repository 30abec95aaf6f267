package orchestrator

import (
	"context"

	"fluxwell/models"
)

// PlanStore reads and writes the committed plan of the current user.
type PlanStore interface {
	GetStatus(ctx context.Context) (*models.PlanStatus, error)
	GetWeekPlan(ctx context.Context) (*models.WeekPlanResponse, error)
	GetTodaySession(ctx context.Context) (*models.TodaySession, error)
	UpdateWeekPlan(ctx context.Context, req models.WeekPlanUpdateRequest) (*models.WeekPlanResponse, error)
	SetAIMode(ctx context.Context, mode models.AIMode) error
	SetAnchorWeekday(ctx context.Context, weekday int) error
}

// PlanGenerator produces AI candidate plans and exercise alternatives.
type PlanGenerator interface {
	GenerateWeekPlan(ctx context.Context, anchorDate string) (*models.AIGeneratedPlan, error)
	SuggestAlternatives(ctx context.Context, req models.AlternativesRequest) (*models.AlternativesResponse, error)
}

// ConflictChecker lists committed entries on the given dates.
type ConflictChecker interface {
	CheckConflicts(ctx context.Context, dates []string) ([]models.ConflictEntry, error)
}
