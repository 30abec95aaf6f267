package services

import (
	"context"
	"errors"
	"testing"

	"fluxwell/clock"
	"fluxwell/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const threeDayPlanJSON = "```json\n" + `{"week":[
 {"day":"Monday","focus":"Legs","exercises":[{"name":"Goblet Squat","sets":0,"reps":""},{"name":"  "}]},
 {"day":"Tuesday","focus":"Push","exercises":[{"exercise_id":"push-up","name":"Push-up","sets":4,"reps":"10-15","rest_seconds":60}]},
 {"day":"","exercises":[]}
],"summary":" Three days to start. "}` + "\n```"

func TestAIPlanService_GenerateWeekPlan(t *testing.T) {
	ctx := context.Background()
	userID := "user-ai"
	settings := func() *models.PlanSettings {
		return &models.PlanSettings{UserID: userID, Goal: "strength", Level: "intermediate", DaysPerWeek: 3, Equipment: "dumbbells"}
	}

	t.Run("Normalises the answer and records the anchor", func(t *testing.T) {
		repo := new(MockPlanRepository)
		quota := new(MockQuotaRepository)
		gen := new(MockTextGenerator)
		service := NewAIPlanService(repo, quota, gen, clock.NewFakeClock(testNow), 20)

		repo.On("GetSettings", userID).Return(settings(), nil).Once()
		quota.On("IncrementQuota", userID, "2024-06-12").Return(&models.GenerationQuota{Requests: 3}, nil).Once()
		gen.On("GenerateContent", ctx, mock.MatchedBy(func(p string) bool {
			return assert.Contains(t, p, "strength") && assert.Contains(t, p, "dumbbells")
		})).Return(threeDayPlanJSON, nil).Once()
		repo.On("SaveSettings", mock.MatchedBy(func(s *models.PlanSettings) bool {
			return s.LastGeneratedAnchor == "2024-06-12"
		})).Return(nil).Once()

		plan, err := service.GenerateWeekPlan(ctx, userID, "2024-06-12")
		require.NoError(t, err)
		require.Len(t, plan.Week, 7)
		assert.Equal(t, "Three days to start.", plan.Summary)

		monday := plan.Week[0]
		require.Len(t, monday.Exercises, 1)
		assert.Equal(t, "goblet-squat", monday.Exercises[0].ExerciseID)
		assert.Equal(t, 3, monday.Exercises[0].Sets)
		assert.Equal(t, "8-12", monday.Exercises[0].Reps)

		assert.Equal(t, "push-up", plan.Week[1].Exercises[0].ExerciseID)
		assert.Equal(t, "Wednesday", plan.Week[2].Day)
		assert.Equal(t, "Rest", plan.Week[2].Focus)
		assert.Equal(t, "Sunday", plan.Week[6].Day)
		assert.Empty(t, plan.Week[6].Exercises)

		repo.AssertExpectations(t)
		quota.AssertExpectations(t)
		gen.AssertExpectations(t)
	})

	t.Run("Manual generation without anchor does not touch settings", func(t *testing.T) {
		repo := new(MockPlanRepository)
		gen := new(MockTextGenerator)
		service := NewAIPlanService(repo, nil, gen, clock.NewFakeClock(testNow), 0)

		repo.On("GetSettings", userID).Return(settings(), nil).Once()
		gen.On("GenerateContent", ctx, mock.Anything).Return(`{"week":[],"summary":"rest week"}`, nil).Once()

		plan, err := service.GenerateWeekPlan(ctx, userID, "")
		require.NoError(t, err)
		assert.Len(t, plan.Week, 7)
		repo.AssertNotCalled(t, "SaveSettings", mock.Anything)
	})

	t.Run("Quota exceeded", func(t *testing.T) {
		repo := new(MockPlanRepository)
		quota := new(MockQuotaRepository)
		gen := new(MockTextGenerator)
		service := NewAIPlanService(repo, quota, gen, clock.NewFakeClock(testNow), 2)

		repo.On("GetSettings", userID).Return(settings(), nil).Twice()
		gen.On("GenerateContent", ctx, mock.Anything).Return(threeDayPlanJSON, nil).Once()
		quota.On("IncrementQuota", userID, "2024-06-12").Return(&models.GenerationQuota{Requests: 2}, nil).Once()
		quota.On("IncrementQuota", userID, "2024-06-12").Return(&models.GenerationQuota{Requests: 3}, nil).Once()

		plan, err := service.GenerateWeekPlan(ctx, userID, "")
		require.NoError(t, err, "the last allowed generation")
		require.NotNil(t, plan)

		plan, err = service.GenerateWeekPlan(ctx, userID, "")
		assert.Nil(t, plan)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		gen.AssertNumberOfCalls(t, "GenerateContent", 1)
		quota.AssertExpectations(t)
	})

	t.Run("LLM failure and malformed output are unavailable errors", func(t *testing.T) {
		repo := new(MockPlanRepository)
		gen := new(MockTextGenerator)
		service := NewAIPlanService(repo, nil, gen, clock.NewFakeClock(testNow), 0)

		repo.On("GetSettings", userID).Return(settings(), nil).Twice()
		gen.On("GenerateContent", ctx, mock.Anything).Return("", errors.New("upstream 500")).Once()
		gen.On("GenerateContent", ctx, mock.Anything).Return("not json at all", nil).Once()

		_, err := service.GenerateWeekPlan(ctx, userID, "")
		assert.ErrorIs(t, err, ErrAIUnavailable)
		_, err = service.GenerateWeekPlan(ctx, userID, "")
		assert.ErrorIs(t, err, ErrAIUnavailable)
	})

	t.Run("Profile missing", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewAIPlanService(repo, nil, new(MockTextGenerator), clock.NewFakeClock(testNow), 0)
		repo.On("GetSettings", userID).Return(nil, nil).Once()

		_, err := service.GenerateWeekPlan(ctx, userID, "")
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("Invalid anchor date", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewAIPlanService(repo, nil, new(MockTextGenerator), clock.NewFakeClock(testNow), 0)
		repo.On("GetSettings", userID).Return(settings(), nil).Once()

		_, err := service.GenerateWeekPlan(ctx, userID, "12/06/2024")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAIPlanService_SuggestAlternatives(t *testing.T) {
	ctx := context.Background()
	userID := "user-alt"
	repo := new(MockPlanRepository)
	gen := new(MockTextGenerator)
	service := NewAIPlanService(repo, nil, gen, clock.NewFakeClock(testNow), 0)

	t.Run("Drops the original exercise and duplicates", func(t *testing.T) {
		repo.On("GetSettings", userID).Return(&models.PlanSettings{UserID: userID, Equipment: "kettlebell"}, nil).Once()
		gen.On("GenerateContent", ctx, mock.MatchedBy(func(p string) bool {
			return assert.Contains(t, p, "Back Squat") && assert.Contains(t, p, "kettlebell") && assert.Contains(t, p, "Legs")
		})).Return(`{"alternatives":[
			{"name":"Back Squat"},
			{"name":"Goblet Squat","primary_muscle":"quadriceps"},
			{"exercise_id":"goblet-squat","name":"Goblet squat"},
			{"name":"Split Squat"}
		],"rationale":"Similar knee-dominant patterns."}`, nil).Once()

		resp, err := service.SuggestAlternatives(ctx, userID, models.AlternativesRequest{
			Exercise: models.PlanExercise{Name: "Back Squat", Sets: 5, Reps: "5"},
			Focus:    "Legs",
		})
		require.NoError(t, err)
		require.Len(t, resp.Alternatives, 2)
		assert.Equal(t, "goblet-squat", resp.Alternatives[0].ExerciseID)
		assert.Equal(t, "quadriceps", resp.Alternatives[0].PrimaryMuscle)
		assert.Equal(t, "split-squat", resp.Alternatives[1].ExerciseID)
		assert.Equal(t, "Similar knee-dominant patterns.", resp.Rationale)
	})

	t.Run("Exercise name is required", func(t *testing.T) {
		_, err := service.SuggestAlternatives(ctx, userID, models.AlternativesRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
	repo.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("Here you go: {\"a\":1} enjoy"))
	assert.Equal(t, "plain", extractJSON(" plain "))
}
