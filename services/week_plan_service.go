package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"fluxwell/clock"
	"fluxwell/models"
	"fluxwell/repository"
	"fluxwell/utils"
)

// MaxConflictDates bounds a single conflict check request.
const MaxConflictDates = 31

// WeekPlanService defines the interface for reading and writing a user's weekly plan.
type WeekPlanService interface {
	GetStatus(userID string) (*models.PlanStatus, error)
	CompleteProfile(userID string, req models.ProfileRequest) (*models.PlanStatus, error)
	GetWeek(userID, weekStart string) (*models.WeekPlanResponse, error)
	UpdateWeek(userID string, req models.WeekPlanUpdateRequest) (*models.WeekPlanResponse, error)
	GetToday(userID string) (*models.TodaySession, error)
	SetAIMode(userID string, mode models.AIMode) (*models.AIModeResponse, error)
	SetAnchorWeekday(userID string, weekday int) (*models.PlanSettings, error)
	CheckConflicts(userID string, dates []string) ([]models.ConflictEntry, error)
}

type weekPlanService struct {
	planRepo repository.PlanRepository
	clock    clock.Clock
}

// NewWeekPlanService creates a new instance of WeekPlanService.
func NewWeekPlanService(planRepo repository.PlanRepository, clk clock.Clock) WeekPlanService {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	return &weekPlanService{planRepo: planRepo, clock: clk}
}

func (s *weekPlanService) GetStatus(userID string) (*models.PlanStatus, error) {
	settings, err := s.planRepo.GetSettings(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan settings: %w", err)
	}
	count, err := s.planRepo.CountEntries(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count plan entries: %w", err)
	}
	return &models.PlanStatus{HasProfile: settings != nil, HasPlan: count > 0}, nil
}

// CompleteProfile stores the onboarding answers. The first completion also creates an
// empty plan for the current week.
func (s *weekPlanService) CompleteProfile(userID string, req models.ProfileRequest) (*models.PlanStatus, error) {
	if strings.TrimSpace(req.Goal) == "" {
		return nil, fmt.Errorf("%w: goal is required", ErrInvalidInput)
	}
	if req.DaysPerWeek < 0 || req.DaysPerWeek > utils.DaysInWeek {
		return nil, fmt.Errorf("%w: days_per_week must be between 0 and 7", ErrInvalidInput)
	}
	if req.AnchorWeekday != nil && !utils.IsValidWeekday(*req.AnchorWeekday) {
		return nil, fmt.Errorf("%w: anchor_weekday must be between 0 and 6", ErrInvalidInput)
	}

	settings, err := s.planRepo.GetSettings(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan settings: %w", err)
	}
	firstCompletion := settings == nil
	if firstCompletion {
		settings = &models.PlanSettings{UserID: userID}
	}
	settings.Goal = strings.TrimSpace(req.Goal)
	settings.Level = req.Level
	settings.DaysPerWeek = req.DaysPerWeek
	settings.Equipment = strings.Join(req.Equipment, ",")
	if req.AnchorWeekday != nil {
		settings.AnchorWeekday = *req.AnchorWeekday
	}
	if err := s.planRepo.SaveSettings(settings); err != nil {
		return nil, err
	}

	if firstCompletion {
		dates := utils.WeekDatesUTC(s.clock.Now())
		entries := make([]*models.PlanEntry, 0, len(dates))
		for i, date := range dates {
			exercises, _ := models.EncodeExercises(nil)
			entries = append(entries, &models.PlanEntry{Date: date, Weekday: i, PlanType: models.PlanTypeManual, Exercises: exercises})
		}
		if err := s.planRepo.ReplaceEntries(userID, dates, entries); err != nil {
			return nil, err
		}
		log.Printf("INFO: [WeekPlanService] Onboarding completed for userID %s, empty week created.", userID)
	}
	return s.GetStatus(userID)
}

func (s *weekPlanService) GetWeek(userID, weekStart string) (*models.WeekPlanResponse, error) {
	settings, err := s.requireSettings(userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	start, err := utils.ParseWeekStart(weekStart, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	week, err := s.loadWeek(userID, start, now)
	if err != nil {
		return nil, err
	}
	return weekResponse(week, settings), nil
}

// UpdateWeek replaces the listed weekdays of the target week. Days not listed keep their entries.
func (s *weekPlanService) UpdateWeek(userID string, req models.WeekPlanUpdateRequest) (*models.WeekPlanResponse, error) {
	settings, err := s.requireSettings(userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	start, err := utils.ParseWeekStart(req.WeekStart, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: days cannot be empty", ErrInvalidInput)
	}

	planType := models.PlanTypeManual
	if req.Source == models.PlanTypeAI {
		planType = models.PlanTypeAI
	}

	seen := make(map[int]bool, len(req.Days))
	dates := make([]string, 0, len(req.Days))
	entries := make([]*models.PlanEntry, 0, len(req.Days))
	for _, day := range req.Days {
		if !utils.IsValidWeekday(day.Weekday) {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidInput, day.Weekday)
		}
		if seen[day.Weekday] {
			return nil, fmt.Errorf("%w: weekday %d listed twice", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = true

		exercises, err := normalizeExercises(day.Exercises)
		if err != nil {
			return nil, err
		}
		raw, err := models.EncodeExercises(exercises)
		if err != nil {
			return nil, err
		}
		date := utils.FormatISODate(start.AddDate(0, 0, day.Weekday))
		dates = append(dates, date)
		entries = append(entries, &models.PlanEntry{
			Date:      date,
			Weekday:   day.Weekday,
			Name:      strings.TrimSpace(day.Name),
			PlanType:  planType,
			Exercises: raw,
		})
	}

	if err := s.planRepo.ReplaceEntries(userID, dates, entries); err != nil {
		return nil, err
	}
	log.Printf("INFO: [WeekPlanService] Replaced %d days of week %s for userID %s (source %s).", len(entries), utils.FormatISODate(start), userID, planType)

	week, err := s.loadWeek(userID, start, now)
	if err != nil {
		return nil, err
	}
	return weekResponse(week, settings), nil
}

func (s *weekPlanService) GetToday(userID string) (*models.TodaySession, error) {
	if _, err := s.requireSettings(userID); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	today := utils.FormatISODate(now)
	entries, err := s.planRepo.ListEntriesByDates(userID, []string{today})
	if err != nil {
		return nil, err
	}
	session := &models.TodaySession{Date: today, Weekday: utils.WeekdayIndex(now), Exercises: []models.PlanExercise{}}
	if len(entries) > 0 {
		exercises, err := entries[0].DecodeExercises()
		if err != nil {
			return nil, err
		}
		session.Name = entries[0].Name
		session.PlanType = entries[0].PlanType
		session.Exercises = exercises
	}
	return session, nil
}

func (s *weekPlanService) SetAIMode(userID string, mode models.AIMode) (*models.AIModeResponse, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: mode must be 'ai' or 'assist'", ErrInvalidInput)
	}
	settings, err := s.requireSettings(userID)
	if err != nil {
		return nil, err
	}
	settings.AIEnabled = mode.Enabled()
	if err := s.planRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	log.Printf("INFO: [WeekPlanService] AI mode for userID %s set to '%s'.", userID, mode)
	return &models.AIModeResponse{Mode: mode, AIEnabled: settings.AIEnabled}, nil
}

func (s *weekPlanService) SetAnchorWeekday(userID string, weekday int) (*models.PlanSettings, error) {
	if !utils.IsValidWeekday(weekday) {
		return nil, fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
	}
	settings, err := s.requireSettings(userID)
	if err != nil {
		return nil, err
	}
	settings.AnchorWeekday = weekday
	if err := s.planRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// CheckConflicts returns the requested dates that already hold at least one committed exercise.
func (s *weekPlanService) CheckConflicts(userID string, dates []string) ([]models.ConflictEntry, error) {
	if len(dates) > MaxConflictDates {
		return nil, fmt.Errorf("%w: at most %d dates per request", ErrInvalidInput, MaxConflictDates)
	}
	for _, d := range dates {
		if _, err := utils.ParseISODate(d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	entries, err := s.planRepo.ListEntriesByDates(userID, dates)
	if err != nil {
		return nil, err
	}
	conflicts := make([]models.ConflictEntry, 0, len(entries))
	for _, entry := range entries {
		exercises, err := entry.DecodeExercises()
		if err != nil {
			log.Printf("WARN: [WeekPlanService] Skipping undecodable entry %s for userID %s: %v", entry.Date, userID, err)
			continue
		}
		if len(exercises) == 0 {
			continue
		}
		conflicts = append(conflicts, models.ConflictEntry{Date: entry.Date, PlanType: entry.PlanType})
	}
	return conflicts, nil
}

func (s *weekPlanService) requireSettings(userID string) (*models.PlanSettings, error) {
	settings, err := s.planRepo.GetSettings(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan settings: %w", err)
	}
	if settings == nil {
		return nil, ErrProfileNotFound
	}
	return settings, nil
}

// loadWeek assembles the seven days starting at start. Dates without an entry become empty days.
func (s *weekPlanService) loadWeek(userID string, start, now time.Time) (models.WeekPlan, error) {
	dates := utils.WeekDatesUTC(start)
	entries, err := s.planRepo.ListEntriesByDates(userID, dates)
	if err != nil {
		return models.WeekPlan{}, err
	}
	byDate := make(map[string]*models.PlanEntry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	week := models.NewEmptyWeek(start, now)
	for i := range week.Days {
		entry, ok := byDate[week.Days[i].Date]
		if !ok {
			continue
		}
		exercises, err := entry.DecodeExercises()
		if err != nil {
			return models.WeekPlan{}, err
		}
		week.Days[i].Name = entry.Name
		week.Days[i].PlanType = entry.PlanType
		week.Days[i].Exercises = exercises
	}
	return week, nil
}

func weekResponse(week models.WeekPlan, settings *models.PlanSettings) *models.WeekPlanResponse {
	return &models.WeekPlanResponse{
		WeekPlan:            week,
		AIEnabled:           settings.AIEnabled,
		AIAnchorWeekday:     settings.AnchorWeekday,
		LastGeneratedAnchor: settings.LastGeneratedAnchor,
	}
}

func normalizeExercises(in []models.PlanExercise) ([]models.PlanExercise, error) {
	out := make([]models.PlanExercise, 0, len(in))
	for _, ex := range in {
		ex.Name = strings.TrimSpace(ex.Name)
		if ex.Name == "" && ex.ExerciseID == "" {
			return nil, fmt.Errorf("%w: exercise requires a name or exercise_id", ErrInvalidInput)
		}
		if ex.Sets < 0 {
			return nil, fmt.Errorf("%w: sets cannot be negative", ErrInvalidInput)
		}
		if ex.ExerciseID == "" {
			ex.ExerciseID = utils.ExerciseID(ex.Name)
		}
		out = append(out, ex)
	}
	return out, nil
}
