package orchestrator

import (
	"context"

	"fluxwell/models"

	"github.com/stretchr/testify/mock"
)

// MockPlanStore is a mock type for the PlanStore interface
type MockPlanStore struct {
	mock.Mock
}

func (m *MockPlanStore) GetStatus(ctx context.Context) (*models.PlanStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlanStatus), args.Error(1)
}

func (m *MockPlanStore) GetWeekPlan(ctx context.Context) (*models.WeekPlanResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeekPlanResponse), args.Error(1)
}

func (m *MockPlanStore) GetTodaySession(ctx context.Context) (*models.TodaySession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TodaySession), args.Error(1)
}

func (m *MockPlanStore) UpdateWeekPlan(ctx context.Context, req models.WeekPlanUpdateRequest) (*models.WeekPlanResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeekPlanResponse), args.Error(1)
}

func (m *MockPlanStore) SetAIMode(ctx context.Context, mode models.AIMode) error {
	args := m.Called(ctx, mode)
	return args.Error(0)
}

func (m *MockPlanStore) SetAnchorWeekday(ctx context.Context, weekday int) error {
	args := m.Called(ctx, weekday)
	return args.Error(0)
}

// MockPlanGenerator is a mock type for the PlanGenerator interface
type MockPlanGenerator struct {
	mock.Mock
}

func (m *MockPlanGenerator) GenerateWeekPlan(ctx context.Context, anchorDate string) (*models.AIGeneratedPlan, error) {
	args := m.Called(ctx, anchorDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIGeneratedPlan), args.Error(1)
}

func (m *MockPlanGenerator) SuggestAlternatives(ctx context.Context, req models.AlternativesRequest) (*models.AlternativesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlternativesResponse), args.Error(1)
}

// MockConflictChecker is a mock type for the ConflictChecker interface
type MockConflictChecker struct {
	mock.Mock
}

func (m *MockConflictChecker) CheckConflicts(ctx context.Context, dates []string) ([]models.ConflictEntry, error) {
	args := m.Called(ctx, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConflictEntry), args.Error(1)
}
