package services

import (
	"errors"
	"testing"
	"time"

	"fluxwell/clock"
	"fluxwell/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Wednesday of the week 2024-06-10 .. 2024-06-16.
var testNow = time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)

var testWeekDates = []string{"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-14", "2024-06-15", "2024-06-16"}

func encodedEntry(t *testing.T, date string, weekday int, planType models.PlanType, names ...string) *models.PlanEntry {
	t.Helper()
	exercises := make([]models.PlanExercise, 0, len(names))
	for _, n := range names {
		exercises = append(exercises, models.PlanExercise{ExerciseID: n, Name: n, Sets: 3, Reps: "8-12"})
	}
	raw, err := models.EncodeExercises(exercises)
	require.NoError(t, err)
	return &models.PlanEntry{Date: date, Weekday: weekday, PlanType: planType, Exercises: raw}
}

func TestWeekPlanService_GetWeek(t *testing.T) {
	userID := "user-week"

	t.Run("Profile missing", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		repo.On("GetSettings", userID).Return(nil, nil).Once()

		week, err := service.GetWeek(userID, "")
		assert.Nil(t, week)
		assert.ErrorIs(t, err, ErrProfileNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("Assembles seven days with derived flags", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		settings := &models.PlanSettings{UserID: userID, AIEnabled: true, AnchorWeekday: 2, LastGeneratedAnchor: "2024-06-05"}
		repo.On("GetSettings", userID).Return(settings, nil).Once()
		repo.On("ListEntriesByDates", userID, testWeekDates).Return([]*models.PlanEntry{
			encodedEntry(t, "2024-06-10", 0, models.PlanTypeManual, "squat"),
			encodedEntry(t, "2024-06-12", 2, models.PlanTypeAI, "row", "press"),
		}, nil).Once()

		week, err := service.GetWeek(userID, "")
		require.NoError(t, err)
		assert.Equal(t, "2024-06-10", week.WeekStart)
		require.Len(t, week.Days, 7)
		assert.True(t, week.AIEnabled)
		assert.Equal(t, 2, week.AIAnchorWeekday)
		assert.Equal(t, "2024-06-05", week.LastGeneratedAnchor)
		assert.Equal(t, 3, week.TotalExercises())

		assert.True(t, week.Days[0].IsCompleted)
		assert.False(t, week.Days[0].IsToday)
		assert.True(t, week.Days[2].IsToday)
		assert.False(t, week.Days[2].IsCompleted)
		assert.False(t, week.Days[3].IsCompleted)
		assert.Equal(t, models.PlanTypeAI, week.Days[2].PlanType)
		assert.NotNil(t, week.Days[6].Exercises)
		assert.Empty(t, week.Days[6].Exercises)
		repo.AssertExpectations(t)
	})

	t.Run("Rejects a week start that is not a Monday", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		repo.On("GetSettings", userID).Return(&models.PlanSettings{UserID: userID}, nil).Once()

		_, err := service.GetWeek(userID, "2024-06-12")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestWeekPlanService_UpdateWeek(t *testing.T) {
	userID := "user-update"

	t.Run("Replaces listed days with AI plan type", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		repo.On("GetSettings", userID).Return(&models.PlanSettings{UserID: userID}, nil).Once()
		repo.On("ReplaceEntries", userID, []string{"2024-06-10", "2024-06-16"}, mock.MatchedBy(func(entries []*models.PlanEntry) bool {
			if len(entries) != 2 || entries[0].PlanType != models.PlanTypeAI || entries[1].Weekday != 6 {
				return false
			}
			exercises, err := entries[0].DecodeExercises()
			return err == nil && len(exercises) == 1 && exercises[0].ExerciseID == "barbell-back-squat"
		})).Return(nil).Once()
		repo.On("ListEntriesByDates", userID, testWeekDates).Return([]*models.PlanEntry{}, nil).Once()

		_, err := service.UpdateWeek(userID, models.WeekPlanUpdateRequest{
			Source: models.PlanTypeAI,
			Days: []models.WeekDayInput{
				{Name: "Legs", Weekday: 0, Exercises: []models.PlanExercise{{Name: "Barbell Back Squat", Sets: 5, Reps: "5"}}},
				{Name: "Rest", Weekday: 6},
			},
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Rejects duplicate and out of range weekdays", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		repo.On("GetSettings", userID).Return(&models.PlanSettings{UserID: userID}, nil).Twice()

		_, err := service.UpdateWeek(userID, models.WeekPlanUpdateRequest{Days: []models.WeekDayInput{{Weekday: 1}, {Weekday: 1}}})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = service.UpdateWeek(userID, models.WeekPlanUpdateRequest{Days: []models.WeekDayInput{{Weekday: 7}}})
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "ReplaceEntries", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Repository failure is returned", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		repo.On("GetSettings", userID).Return(&models.PlanSettings{UserID: userID}, nil).Once()
		repo.On("ReplaceEntries", userID, mock.Anything, mock.Anything).Return(errors.New("DB error")).Once()

		week, err := service.UpdateWeek(userID, models.WeekPlanUpdateRequest{Days: []models.WeekDayInput{{Weekday: 1}}})
		assert.Nil(t, week)
		assert.EqualError(t, err, "DB error")
	})
}

func TestWeekPlanService_CheckConflicts(t *testing.T) {
	userID := "user-conflicts"
	repo := new(MockPlanRepository)
	service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))

	t.Run("Only days with exercises conflict", func(t *testing.T) {
		repo.On("ListEntriesByDates", userID, testWeekDates).Return([]*models.PlanEntry{
			encodedEntry(t, "2024-06-10", 0, models.PlanTypeManual, "squat"),
			encodedEntry(t, "2024-06-11", 1, models.PlanTypeManual),
			encodedEntry(t, "2024-06-12", 2, models.PlanTypeAI, "row"),
		}, nil).Once()

		conflicts, err := service.CheckConflicts(userID, testWeekDates)
		require.NoError(t, err)
		assert.Equal(t, []models.ConflictEntry{
			{Date: "2024-06-10", PlanType: models.PlanTypeManual},
			{Date: "2024-06-12", PlanType: models.PlanTypeAI},
		}, conflicts)
	})

	t.Run("Invalid dates are rejected", func(t *testing.T) {
		_, err := service.CheckConflicts(userID, []string{"2024-13-01"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		tooMany := make([]string, MaxConflictDates+1)
		for i := range tooMany {
			tooMany[i] = "2024-06-10"
		}
		_, err = service.CheckConflicts(userID, tooMany)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
	repo.AssertExpectations(t)
}

func TestWeekPlanService_ProfileAndMode(t *testing.T) {
	userID := "user-profile"

	t.Run("First onboarding creates an empty week", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		anchor := 3
		repo.On("GetSettings", userID).Return(nil, nil).Twice()
		repo.On("SaveSettings", mock.MatchedBy(func(s *models.PlanSettings) bool {
			return s.UserID == userID && s.Goal == "hypertrophy" && s.AnchorWeekday == 3 && s.Equipment == "dumbbells,bench"
		})).Return(nil).Once()
		repo.On("ReplaceEntries", userID, testWeekDates, mock.MatchedBy(func(entries []*models.PlanEntry) bool {
			return len(entries) == 7 && entries[6].Weekday == 6
		})).Return(nil).Once()
		repo.On("CountEntries", userID).Return(int64(7), nil).Once()

		status, err := service.CompleteProfile(userID, models.ProfileRequest{
			Goal: "hypertrophy", DaysPerWeek: 4, Equipment: []string{"dumbbells", "bench"}, AnchorWeekday: &anchor,
		})
		require.NoError(t, err)
		assert.True(t, status.HasPlan)
		repo.AssertExpectations(t)
	})

	t.Run("Missing goal is invalid", func(t *testing.T) {
		service := NewWeekPlanService(new(MockPlanRepository), clock.NewFakeClock(testNow))
		_, err := service.CompleteProfile(userID, models.ProfileRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Set AI mode persists the flag", func(t *testing.T) {
		repo := new(MockPlanRepository)
		service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
		repo.On("GetSettings", userID).Return(&models.PlanSettings{UserID: userID}, nil).Once()
		repo.On("SaveSettings", mock.MatchedBy(func(s *models.PlanSettings) bool { return s.AIEnabled })).Return(nil).Once()

		resp, err := service.SetAIMode(userID, models.AIModeAI)
		require.NoError(t, err)
		assert.Equal(t, &models.AIModeResponse{Mode: models.AIModeAI, AIEnabled: true}, resp)

		_, err = service.SetAIMode(userID, models.AIMode("auto"))
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertExpectations(t)
	})

	t.Run("Anchor weekday must be in range", func(t *testing.T) {
		service := NewWeekPlanService(new(MockPlanRepository), clock.NewFakeClock(testNow))
		_, err := service.SetAnchorWeekday(userID, 9)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestWeekPlanService_GetToday(t *testing.T) {
	userID := "user-today"
	repo := new(MockPlanRepository)
	service := NewWeekPlanService(repo, clock.NewFakeClock(testNow))
	repo.On("GetSettings", userID).Return(&models.PlanSettings{UserID: userID}, nil).Once()
	repo.On("ListEntriesByDates", userID, []string{"2024-06-12"}).Return([]*models.PlanEntry{
		encodedEntry(t, "2024-06-12", 2, models.PlanTypeAI, "row"),
	}, nil).Once()

	session, err := service.GetToday(userID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", session.Date)
	assert.Equal(t, 2, session.Weekday)
	assert.Len(t, session.Exercises, 1)
	repo.AssertExpectations(t)
}
