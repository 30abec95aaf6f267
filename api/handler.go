package api

import (
	"errors"
	"net/http"

	"fluxwell/middleware"
	"fluxwell/models"
	"fluxwell/services"
	"fluxwell/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler holds all dependencies for API handlers.
type APIHandler struct {
	weekPlanService services.WeekPlanService
	aiPlanService   services.AIPlanService
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(weekPlanService services.WeekPlanService, aiPlanService services.AIPlanService) *APIHandler {
	return &APIHandler{
		weekPlanService: weekPlanService,
		aiPlanService:   aiPlanService,
	}
}

// GetStatusHandler reports whether the user finished onboarding and has a plan.
// GET /api/plan/status
func (h *APIHandler) GetStatusHandler(c *gin.Context) {
	status, err := h.weekPlanService.GetStatus(middleware.UserID(c))
	if err != nil {
		sendServiceError(c, "Failed to load plan status.", err)
		return
	}
	utils.SendJSONData(c, "Plan status retrieved successfully", status)
}

// CompleteProfileHandler stores onboarding answers and creates the first week.
// POST /api/plan/profile
func (h *APIHandler) CompleteProfileHandler(c *gin.Context) {
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	status, err := h.weekPlanService.CompleteProfile(middleware.UserID(c), req)
	if err != nil {
		sendServiceError(c, "Failed to save profile.", err)
		return
	}
	utils.SendJSONData(c, "Profile saved successfully", status)
}

// GetWeekHandler returns the week plan with AI scheduling settings.
// GET /api/plan/week?week_start=YYYY-MM-DD
func (h *APIHandler) GetWeekHandler(c *gin.Context) {
	week, err := h.weekPlanService.GetWeek(middleware.UserID(c), c.Query("week_start"))
	if err != nil {
		sendServiceError(c, "Failed to load week plan.", err)
		return
	}
	utils.SendJSONData(c, "Week plan retrieved successfully", week)
}

// UpdateWeekHandler replaces the listed days of a week.
// PATCH /api/plan/week
func (h *APIHandler) UpdateWeekHandler(c *gin.Context) {
	var req models.WeekPlanUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	week, err := h.weekPlanService.UpdateWeek(middleware.UserID(c), req)
	if err != nil {
		sendServiceError(c, "Failed to save week plan.", err)
		return
	}
	utils.SendJSONData(c, "Week plan saved successfully", week)
}

// GetTodayHandler returns today's session.
// GET /api/plan/today
func (h *APIHandler) GetTodayHandler(c *gin.Context) {
	session, err := h.weekPlanService.GetToday(middleware.UserID(c))
	if err != nil {
		sendServiceError(c, "Failed to load today's session.", err)
		return
	}
	utils.SendJSONData(c, "Today's session retrieved successfully", session)
}

// SetAIModeHandler persists the AI mode.
// POST /api/plan/ai-mode
func (h *APIHandler) SetAIModeHandler(c *gin.Context) {
	var req models.AIModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: mode is required.", err)
		return
	}
	resp, err := h.weekPlanService.SetAIMode(middleware.UserID(c), req.Mode)
	if err != nil {
		sendServiceError(c, "Failed to set AI mode.", err)
		return
	}
	utils.SendJSONData(c, "AI mode updated", resp)
}

// SetAnchorHandler sets the weekday that starts a new generation cycle.
// POST /api/plan/anchor
func (h *APIHandler) SetAnchorHandler(c *gin.Context) {
	var req models.AnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Weekday == nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: weekday is required.", err)
		return
	}
	settings, err := h.weekPlanService.SetAnchorWeekday(middleware.UserID(c), *req.Weekday)
	if err != nil {
		sendServiceError(c, "Failed to set anchor weekday.", err)
		return
	}
	utils.SendJSONData(c, "Anchor weekday updated", gin.H{
		"ai_enabled":            settings.AIEnabled,
		"ai_anchor_weekday":     settings.AnchorWeekday,
		"last_generated_anchor": settings.LastGeneratedAnchor,
	})
}

// CheckConflictsHandler lists requested dates that already hold committed exercises.
// POST /api/plan/conflicts
func (h *APIHandler) CheckConflictsHandler(c *gin.Context) {
	var req models.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: dates are required.", err)
		return
	}
	conflicts, err := h.weekPlanService.CheckConflicts(middleware.UserID(c), req.Dates)
	if err != nil {
		sendServiceError(c, "Failed to check conflicts.", err)
		return
	}
	utils.SendJSONData(c, "Conflicts checked", models.ConflictCheckResponse{Conflicts: conflicts})
}

// GenerateWeekPlanHandler produces an uncommitted AI candidate week.
// POST /api/ai/week-plan
func (h *APIHandler) GenerateWeekPlanHandler(c *gin.Context) {
	var req models.GenerateWeekPlanRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
			return
		}
	}
	plan, err := h.aiPlanService.GenerateWeekPlan(c.Request.Context(), middleware.UserID(c), req.AnchorDate)
	if err != nil {
		sendServiceError(c, "Failed to generate week plan.", err)
		return
	}
	utils.SendJSONData(c, "Week plan generated successfully", plan)
}

// SuggestAlternativesHandler returns ranked replacements for one exercise.
// POST /api/ai/alternatives
func (h *APIHandler) SuggestAlternativesHandler(c *gin.Context) {
	var req models.AlternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	resp, err := h.aiPlanService.SuggestAlternatives(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		sendServiceError(c, "Failed to suggest alternatives.", err)
		return
	}
	utils.SendJSONData(c, "Alternatives suggested", resp)
}

// sendServiceError maps service sentinel errors to HTTP statuses.
func sendServiceError(c *gin.Context, publicMsg string, err error) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Plan profile not found. Complete onboarding first.", err)
	case errors.Is(err, services.ErrInvalidInput):
		utils.SendJSONError(c, http.StatusBadRequest, publicMsg, err, err.Error())
	case errors.Is(err, services.ErrQuotaExceeded):
		utils.SendJSONError(c, http.StatusTooManyRequests, "Daily AI generation limit reached. Please try again tomorrow.", err)
	case errors.Is(err, services.ErrAIUnavailable):
		utils.SendJSONError(c, http.StatusServiceUnavailable, "AI service is temporarily unavailable.", err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, publicMsg, err)
	}
}
