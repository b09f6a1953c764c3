package routes

import (
	"github.com/advpress/advpress-backend/internal/handler"
	"github.com/advpress/advpress-backend/internal/middleware"
	"github.com/advpress/advpress-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	publishHandler *handler.PublishHandler,
	moderationHandler *handler.ModerationHandler,
	historyHandler *handler.HistoryHandler,
	jwtManager *jwt.Manager,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api := router.Group("/api/v1")

	// Authentication endpoints
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Everything below requires a valid token
	authed := api.Group("", middleware.JWTAuth(jwtManager))

	// Publish attempts and post queries
	posts := authed.Group("/posts")
	{
		posts.POST("", publishHandler.Create)
		posts.GET("", publishHandler.List)
		posts.GET("/:id", publishHandler.Get)

		// Approval actions (permission enforced in the service)
		posts.POST("/:id/approve", moderationHandler.ApproveSingle)
		posts.POST("/approve-batch", moderationHandler.ApproveBatch)
	}

	// Ledger statistics, admin only
	stats := authed.Group("/stats", middleware.RequireAdmin())
	{
		stats.GET("/range", moderationHandler.RangeStats)
		stats.GET("/monthly", moderationHandler.MonthlyStats)
		stats.GET("/summary", moderationHandler.Summary)
	}

	// Per-user publish history
	history := authed.Group("/history")
	{
		history.POST("", historyHandler.Append)
		history.GET("", historyHandler.List)
		history.DELETE("", historyHandler.Clear)
		history.GET("/statistics", historyHandler.Statistics)
		history.GET("/export.csv", historyHandler.ExportCSV)
		history.GET("/report.json", historyHandler.ExportReport)
	}

	// Form drafts
	drafts := authed.Group("/drafts")
	{
		drafts.PUT("", historyHandler.SaveDraft)
		drafts.GET("", historyHandler.GetDraft)
		drafts.DELETE("", historyHandler.ClearDraft)
	}
}
