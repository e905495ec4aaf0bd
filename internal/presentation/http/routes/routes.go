// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/beaconworks/beacon-go/internal/application/container"
	"github.com/beaconworks/beacon-go/internal/presentation/http/handlers"
	"github.com/beaconworks/beacon-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	trackHandlers := handlers.NewTrackHandlers(c.IngestionService, c.Logger)
	analyticsHandlers := handlers.NewAnalyticsHandlers(c.HeatmapService, c.StatsService, c.Logger)
	leadHandlers := handlers.NewLeadHandlers(c.LeadService, c.Logger)
	authHandlers := handlers.NewAuthHandlers(c.AuthService, c.Logger)
	postHandlers := handlers.NewPostHandlers(c.PostService, c.Logger)
	settingsHandlers := handlers.NewSettingsHandlers(c.SettingsService, c.Logger)
	liveHandlers := handlers.NewLiveHandlers(c.Broadcaster, c.Logger)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		// Public tracking endpoints
		api.GET("/track", trackHandlers.GetTrack)
		api.POST("/track", trackHandlers.PostTrack)

		// Public lead capture
		api.POST("/leads", leadHandlers.PostLead)

		// Public site surface
		api.GET("/posts", postHandlers.GetPosts)
		api.GET("/posts/:slug", postHandlers.GetPostBySlug)
		api.GET("/settings", settingsHandlers.GetSettings)

		// Auth
		api.POST("/auth/login", authHandlers.PostLogin)
		api.POST("/auth/logout", authHandlers.PostLogout)

		// Admin: everything below requires a valid admin token.
		adminOnly := middleware.AdminOnly(c.AuthService)

		api.GET("/auth/profile", adminOnly, authHandlers.GetProfile)

		analyticsGroup := api.Group("/analytics", adminOnly)
		{
			analyticsGroup.GET("/heatmap", analyticsHandlers.GetHeatmap)
			analyticsGroup.GET("/scroll", analyticsHandlers.GetScrollDepth)
			analyticsGroup.GET("/stats", analyticsHandlers.GetStats)
			analyticsGroup.GET("/pages", analyticsHandlers.GetTrackedPages)
		}

		api.GET("/leads", adminOnly, leadHandlers.GetLeads)
		api.GET("/leads/:id", adminOnly, leadHandlers.GetLead)
		api.PUT("/leads/:id/status", adminOnly, leadHandlers.PutLeadStatus)

		adminGroup := api.Group("/admin", adminOnly)
		{
			adminGroup.GET("/posts", postHandlers.GetAllPosts)
			adminGroup.POST("/posts", postHandlers.PostPost)
			adminGroup.PUT("/posts/:id", postHandlers.PutPost)
			adminGroup.DELETE("/posts/:id", postHandlers.DeletePost)
			adminGroup.PUT("/settings", settingsHandlers.PutSettings)
			adminGroup.GET("/live", liveHandlers.GetLiveFeed)
		}
	}

	return r
}
