package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"fluxwell/clock"
	"fluxwell/models"
	"fluxwell/repository"
	"fluxwell/utils"
)

const (
	defaultSets        = 3
	defaultReps        = "8-12"
	maxAlternatives    = 5
	restDayFocus       = "Rest"
	weekPlanPromptTmpl = `Create a 7-day workout plan, Monday first.
Goal: %s
Experience level: %s
Training days per week: %d
Available equipment: %s

Answer with JSON of the form:
{"week":[{"day":"Monday","focus":"Upper body","exercises":[{"exercise_id":"push-up","name":"Push-up","sets":3,"reps":"8-12","rest_seconds":60,"notes":""}]}],"summary":"..."}
Use an empty exercises list for rest days. Return exactly 7 days.`
	alternativesPromptTmpl = `Suggest up to %d alternatives for the exercise "%s" (id %s).
Day focus: %s
Available equipment: %s

Answer with JSON of the form:
{"alternatives":[{"exercise_id":"goblet-squat","name":"Goblet Squat","primary_muscle":"quadriceps","equipment":"dumbbell"}],"rationale":"..."}
Order the alternatives from best to worst match.`
)

// AIPlanService defines the interface for AI generated week plans and exercise alternatives.
type AIPlanService interface {
	GenerateWeekPlan(ctx context.Context, userID, anchorDate string) (*models.AIGeneratedPlan, error)
	SuggestAlternatives(ctx context.Context, userID string, req models.AlternativesRequest) (*models.AlternativesResponse, error)
}

type aiPlanService struct {
	planRepo   repository.PlanRepository
	quotaRepo  repository.QuotaRepository
	generator  TextGenerator
	clock      clock.Clock
	dailyQuota int
}

// NewAIPlanService creates a new instance of AIPlanService. A dailyQuota of 0 disables the quota.
func NewAIPlanService(planRepo repository.PlanRepository, quotaRepo repository.QuotaRepository, generator TextGenerator, clk clock.Clock, dailyQuota int) AIPlanService {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	return &aiPlanService{
		planRepo:   planRepo,
		quotaRepo:  quotaRepo,
		generator:  generator,
		clock:      clk,
		dailyQuota: dailyQuota,
	}
}

// GenerateWeekPlan asks the LLM for a candidate week. Nothing is committed; when anchorDate
// is set it is recorded as the user's last generated anchor.
func (s *aiPlanService) GenerateWeekPlan(ctx context.Context, userID, anchorDate string) (*models.AIGeneratedPlan, error) {
	settings, err := s.planRepo.GetSettings(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan settings: %w", err)
	}
	if settings == nil {
		return nil, ErrProfileNotFound
	}
	if anchorDate != "" {
		if _, err := utils.ParseISODate(anchorDate); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no LLM configured", ErrAIUnavailable)
	}

	if err := s.consumeQuota(userID); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(weekPlanPromptTmpl,
		settings.Goal,
		orDefault(settings.Level, "beginner"),
		settings.DaysPerWeek,
		orDefault(strings.Join(settings.EquipmentList(), ", "), "bodyweight only"),
	)
	log.Printf("INFO: [AIPlanService] Requesting week plan for userID %s (anchor '%s').", userID, anchorDate)
	content, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("ERROR: [AIPlanService] Week plan generation failed for userID %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	var plan models.AIGeneratedPlan
	if err := json.Unmarshal([]byte(extractJSON(content)), &plan); err != nil {
		log.Printf("ERROR: [AIPlanService] Unparseable week plan for userID %s: %v. Raw: '%.200s'", userID, err, content)
		return nil, fmt.Errorf("%w: malformed plan: %v", ErrAIUnavailable, err)
	}
	plan.Week = NormalizeWeek(plan.Week)
	plan.Summary = strings.TrimSpace(plan.Summary)

	if anchorDate != "" {
		settings.LastGeneratedAnchor = anchorDate
		if err := s.planRepo.SaveSettings(settings); err != nil {
			log.Printf("WARN: [AIPlanService] Failed to record last generated anchor %s for userID %s: %v", anchorDate, userID, err)
		}
	}
	return &plan, nil
}

// SuggestAlternatives asks the LLM for ranked replacements of one exercise.
func (s *aiPlanService) SuggestAlternatives(ctx context.Context, userID string, req models.AlternativesRequest) (*models.AlternativesResponse, error) {
	name := strings.TrimSpace(req.Exercise.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no LLM configured", ErrAIUnavailable)
	}
	originalID := req.Exercise.ExerciseID
	if originalID == "" {
		originalID = utils.ExerciseID(name)
	}

	equipment := "any"
	if settings, err := s.planRepo.GetSettings(userID); err != nil {
		log.Printf("WARN: [AIPlanService] Could not load settings for userID %s, suggesting without equipment filter: %v", userID, err)
	} else if settings != nil && settings.Equipment != "" {
		equipment = strings.Join(settings.EquipmentList(), ", ")
	}

	prompt := fmt.Sprintf(alternativesPromptTmpl, maxAlternatives, name, originalID, orDefault(req.Focus, "general"), equipment)
	content, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("ERROR: [AIPlanService] Alternatives lookup failed for '%s': %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	var resp models.AlternativesResponse
	if err := json.Unmarshal([]byte(extractJSON(content)), &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed alternatives: %v", ErrAIUnavailable, err)
	}

	alternatives := make([]models.ExerciseOut, 0, len(resp.Alternatives))
	seen := map[string]bool{originalID: true}
	for _, alt := range resp.Alternatives {
		alt.Name = strings.TrimSpace(alt.Name)
		if alt.Name == "" {
			continue
		}
		if alt.ExerciseID == "" {
			alt.ExerciseID = utils.ExerciseID(alt.Name)
		}
		if seen[alt.ExerciseID] {
			continue
		}
		seen[alt.ExerciseID] = true
		alternatives = append(alternatives, alt)
		if len(alternatives) == maxAlternatives {
			break
		}
	}
	resp.Alternatives = alternatives
	resp.Rationale = strings.TrimSpace(resp.Rationale)
	return &resp, nil
}

func (s *aiPlanService) consumeQuota(userID string) error {
	if s.dailyQuota <= 0 || s.quotaRepo == nil {
		return nil
	}
	day := utils.FormatISODate(s.clock.Now())
	quota, err := s.quotaRepo.IncrementQuota(userID, day)
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	if quota.Requests > s.dailyQuota {
		log.Printf("WARN: [AIPlanService] userID %s exceeded daily generation quota (%d/%d).", userID, quota.Requests, s.dailyQuota)
		return ErrQuotaExceeded
	}
	return nil
}

// NormalizeWeek returns exactly seven days, Monday first. Missing days become rest days,
// extra days are dropped, and every exercise gets an id, at least one set and a rep range.
func NormalizeWeek(days []models.PlanDay) []models.PlanDay {
	week := make([]models.PlanDay, utils.DaysInWeek)
	for i := range week {
		var day models.PlanDay
		if i < len(days) {
			day = days[i]
		}
		day.Day = strings.TrimSpace(day.Day)
		if day.Day == "" {
			day.Day = utils.WeekdayNames[i]
		}
		exercises := make([]models.PlanExercise, 0, len(day.Exercises))
		for _, ex := range day.Exercises {
			ex.Name = strings.TrimSpace(ex.Name)
			if ex.Name == "" {
				continue
			}
			if ex.ExerciseID == "" {
				ex.ExerciseID = utils.ExerciseID(ex.Name)
			}
			if ex.Sets < 1 {
				ex.Sets = defaultSets
			}
			if strings.TrimSpace(ex.Reps) == "" {
				ex.Reps = defaultReps
			}
			exercises = append(exercises, ex)
		}
		day.Exercises = exercises
		if len(exercises) == 0 && day.Focus == "" {
			day.Focus = restDayFocus
		}
		week[i] = day
	}
	return week
}

// extractJSON strips markdown code fences and surrounding prose from an LLM answer.
func extractJSON(content string) string {
	text := strings.TrimSpace(content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
