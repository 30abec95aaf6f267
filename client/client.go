package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"fluxwell/models"
)

const defaultTimeout = 30 * time.Second

// Client talks to the plan backend on behalf of one user.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// New creates a Client. A zero timeout uses 30 seconds.
func New(baseURL, userID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetStatus reports whether the user finished onboarding and has a plan.
func (c *Client) GetStatus(ctx context.Context) (*models.PlanStatus, error) {
	var status models.PlanStatus
	if err := c.do(ctx, http.MethodGet, "/api/plan/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CompleteProfile submits onboarding answers.
func (c *Client) CompleteProfile(ctx context.Context, req models.ProfileRequest) (*models.PlanStatus, error) {
	var status models.PlanStatus
	if err := c.do(ctx, http.MethodPost, "/api/plan/profile", req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetWeekPlan loads the current week with AI scheduling settings.
func (c *Client) GetWeekPlan(ctx context.Context) (*models.WeekPlanResponse, error) {
	var week models.WeekPlanResponse
	if err := c.do(ctx, http.MethodGet, "/api/plan/week", nil, &week); err != nil {
		return nil, err
	}
	return &week, nil
}

// GetTodaySession loads today's workout.
func (c *Client) GetTodaySession(ctx context.Context) (*models.TodaySession, error) {
	var session models.TodaySession
	if err := c.do(ctx, http.MethodGet, "/api/plan/today", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateWeekPlan replaces the listed days of a week.
func (c *Client) UpdateWeekPlan(ctx context.Context, req models.WeekPlanUpdateRequest) (*models.WeekPlanResponse, error) {
	var week models.WeekPlanResponse
	if err := c.do(ctx, http.MethodPatch, "/api/plan/week", req, &week); err != nil {
		return nil, err
	}
	return &week, nil
}

// SetAIMode persists the AI mode server-side.
func (c *Client) SetAIMode(ctx context.Context, mode models.AIMode) error {
	return c.do(ctx, http.MethodPost, "/api/plan/ai-mode", models.AIModeRequest{Mode: mode}, nil)
}

// SetAnchorWeekday persists the weekday that starts a generation cycle.
func (c *Client) SetAnchorWeekday(ctx context.Context, weekday int) error {
	return c.do(ctx, http.MethodPost, "/api/plan/anchor", models.AnchorRequest{Weekday: &weekday}, nil)
}

// CheckConflicts lists the dates that already hold committed exercises.
func (c *Client) CheckConflicts(ctx context.Context, dates []string) ([]models.ConflictEntry, error) {
	var resp models.ConflictCheckResponse
	if err := c.do(ctx, http.MethodPost, "/api/plan/conflicts", models.ConflictCheckRequest{Dates: dates}, &resp); err != nil {
		return nil, err
	}
	return resp.Conflicts, nil
}

// GenerateWeekPlan requests an uncommitted AI candidate week.
func (c *Client) GenerateWeekPlan(ctx context.Context, anchorDate string) (*models.AIGeneratedPlan, error) {
	var plan models.AIGeneratedPlan
	if err := c.do(ctx, http.MethodPost, "/api/ai/week-plan", models.GenerateWeekPlanRequest{AnchorDate: anchorDate}, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// SuggestAlternatives requests ranked replacements for one exercise.
func (c *Client) SuggestAlternatives(ctx context.Context, req models.AlternativesRequest) (*models.AlternativesResponse, error) {
	var resp models.AlternativesResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/alternatives", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends one request and decodes the data field of the response envelope into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", c.userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR: [Client] %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Details = errBody.Details
		}
		log.Printf("WARN: [Client] %s %s returned %d: %s", method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("response for %s %s carries no data", method, path)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
