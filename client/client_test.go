package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fluxwell/api"
	"fluxwell/clock"
	"fluxwell/database"
	"fluxwell/models"
	"fluxwell/repository"
	"fluxwell/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedGenerator struct {
	content string
	err     error
}

func (g *fixedGenerator) GenerateContent(context.Context, string) (string, error) {
	return g.content, g.err
}

func (g *fixedGenerator) Close() error { return nil }

func newTestServer(t *testing.T, gen services.TextGenerator) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	clk := clock.NewFakeClock(time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC))
	planRepo := repository.NewPlanRepository(db)
	handler := api.NewAPIHandler(
		services.NewWeekPlanService(planRepo, clk),
		services.NewAIPlanService(planRepo, repository.NewQuotaRepository(db), gen, clk, 0),
	)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	gen := &fixedGenerator{content: `{"week":[{"day":"Monday","exercises":[{"name":"Squat","sets":3,"reps":"5"}]}],"summary":"s"}`}
	server := newTestServer(t, gen)
	c := New(server.URL+"/", "client-user", time.Second)

	_, err := c.GetWeekPlan(ctx)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsTransient(err))

	status, err := c.CompleteProfile(ctx, models.ProfileRequest{Goal: "strength"})
	require.NoError(t, err)
	assert.True(t, status.HasProfile)

	require.NoError(t, c.SetAIMode(ctx, models.AIModeAI))
	require.NoError(t, c.SetAnchorWeekday(ctx, 2))

	week, err := c.GetWeekPlan(ctx)
	require.NoError(t, err)
	assert.True(t, week.AIEnabled)
	assert.Equal(t, 2, week.AIAnchorWeekday)
	assert.Len(t, week.Days, 7)

	plan, err := c.GenerateWeekPlan(ctx, "2024-06-12")
	require.NoError(t, err)
	require.Len(t, plan.Week, 7)

	updated, err := c.UpdateWeekPlan(ctx, models.WeekPlanUpdateRequest{
		Source: models.PlanTypeAI,
		Days:   []models.WeekDayInput{{Name: "Legs", Weekday: 0, Exercises: plan.Week[0].Exercises}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanTypeAI, updated.Days[0].PlanType)
	assert.Equal(t, "2024-06-12", updated.LastGeneratedAnchor)

	conflicts, err := c.CheckConflicts(ctx, []string{"2024-06-10", "2024-06-11"})
	require.NoError(t, err)
	assert.Equal(t, []models.ConflictEntry{{Date: "2024-06-10", PlanType: models.PlanTypeAI}}, conflicts)

	today, err := c.GetTodaySession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", today.Date)
	assert.Empty(t, today.Exercises)

	_, err = c.CheckConflicts(ctx, []string{"bad"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Details)
}

func TestClient_TransientErrors(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &fixedGenerator{err: errors.New("boom")})
	c := New(server.URL, "client-user", time.Second)
	_, err := c.CompleteProfile(ctx, models.ProfileRequest{Goal: "mobility"})
	require.NoError(t, err)

	_, err = c.GenerateWeekPlan(ctx, "")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.False(t, IsNotFound(err))

	_, err = c.SuggestAlternatives(ctx, models.AlternativesRequest{Exercise: models.PlanExercise{Name: "Squat"}})
	assert.True(t, IsTransient(err))

	server.Close()
	_, err = c.GetStatus(ctx)
	require.Error(t, err)
	assert.True(t, IsTransient(err), "transport failures are transient")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.True(t, IsTransient(fmt.Errorf("load plan status: %w", err)))
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "not found"}
	assert.Equal(t, "api error: status=404 message=not found", err.Error())
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(err))
	assert.False(t, IsTransient(errors.New("a save is already in progress")))
}
