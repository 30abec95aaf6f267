package services

import (
	"context"

	"fluxwell/models"

	"github.com/stretchr/testify/mock"
)

// MockPlanRepository is a mock type for the PlanRepository interface
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) GetSettings(userID string) (*models.PlanSettings, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlanSettings), args.Error(1)
}

func (m *MockPlanRepository) SaveSettings(settings *models.PlanSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

func (m *MockPlanRepository) ListEntriesByDates(userID string, dates []string) ([]*models.PlanEntry, error) {
	args := m.Called(userID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlanEntry), args.Error(1)
}

func (m *MockPlanRepository) ReplaceEntries(userID string, dates []string, entries []*models.PlanEntry) error {
	args := m.Called(userID, dates, entries)
	return args.Error(0)
}

func (m *MockPlanRepository) CountEntries(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuotaRepository is a mock type for the QuotaRepository interface
type MockQuotaRepository struct {
	mock.Mock
}

func (m *MockQuotaRepository) IncrementQuota(userID, day string) (*models.GenerationQuota, error) {
	args := m.Called(userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerationQuota), args.Error(1)
}

// MockTextGenerator is a mock type for the TextGenerator interface
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) Close() error {
	return nil
}
