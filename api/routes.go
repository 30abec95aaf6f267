package api

import (
	"fluxwell/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middlewares and all plan routes.
func NewRouter(handler *APIHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies(nil)

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())

	RegisterRoutes(r, handler)
	return r
}

// RegisterRoutes mounts the /api routes on r.
func RegisterRoutes(r *gin.Engine, handler *APIHandler) {
	apiGroup := r.Group("/api", middleware.RequireUser())
	{
		planGroup := apiGroup.Group("/plan")
		{
			planGroup.GET("/status", handler.GetStatusHandler)
			planGroup.POST("/profile", handler.CompleteProfileHandler)
			planGroup.GET("/week", handler.GetWeekHandler)
			planGroup.PATCH("/week", handler.UpdateWeekHandler)
			planGroup.GET("/today", handler.GetTodayHandler)
			planGroup.POST("/ai-mode", handler.SetAIModeHandler)
			planGroup.POST("/anchor", handler.SetAnchorHandler)
			planGroup.POST("/conflicts", handler.CheckConflictsHandler)
		}

		aiGroup := apiGroup.Group("/ai")
		{
			aiGroup.POST("/week-plan", handler.GenerateWeekPlanHandler)
			aiGroup.POST("/alternatives", handler.SuggestAlternativesHandler)
		}
	}
}
