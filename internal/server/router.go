package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/regrowhq/regrow-backend/internal/handlers"
	"github.com/regrowhq/regrow-backend/internal/middleware"
)

type RouterConfig struct {
	ProfileHandler *handlers.ProfileHandler
	ChatHandler    *handlers.ChatHandler
	RequestLog     *middleware.RequestLogMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cfg.RequestLog.Handle())

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:8081",
			"capacitor://localhost",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Profile lifecycle
		api.POST("/profile", cfg.ProfileHandler.Create)
		api.GET("/profile", cfg.ProfileHandler.Get)
		api.PATCH("/profile/no-contact-date", cfg.ProfileHandler.UpdateNoContactDate)
		api.GET("/profile/export", cfg.ProfileHandler.Export)
		api.DELETE("/profile", cfg.ProfileHandler.Erase)

		// Activity tracking
		api.POST("/profile/app-open", cfg.ProfileHandler.RecordAppOpen)
		api.POST("/journal", cfg.ProfileHandler.CreateJournalEntry)
		api.DELETE("/journal", cfg.ProfileHandler.DeleteJournalEntry)

		// Derived progress
		api.GET("/progress", cfg.ProfileHandler.GetProgress)
		api.POST("/milestones/check", cfg.ProfileHandler.CheckMilestones)

		// Support assistant
		api.POST("/chat", cfg.ChatHandler.Chat)
	}

	return router
}
