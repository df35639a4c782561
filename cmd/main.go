package main

import (
	"fmt"
	"os"

	"github.com/regrowhq/regrow-backend/internal/catalog"
	"github.com/regrowhq/regrow-backend/internal/db"
	"github.com/regrowhq/regrow-backend/internal/handlers"
	"github.com/regrowhq/regrow-backend/internal/middleware"
	"github.com/regrowhq/regrow-backend/internal/platform/envutil"
	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/platform/openai"
	"github.com/regrowhq/regrow-backend/internal/repos"
	"github.com/regrowhq/regrow-backend/internal/server"
	"github.com/regrowhq/regrow-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Unlock tables
	cat, err := catalog.Load()
	if err != nil {
		log.Error("Could not load unlock catalog", "error", err)
		os.Exit(1)
	}

	// SQLite
	sqliteService, err := db.NewSQLiteService(log)
	if err != nil {
		log.Error("SQLite init failed", "error", err)
		os.Exit(1)
	}
	if err := sqliteService.AutoMigrateAll(); err != nil {
		log.Error("SQLite auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := sqliteService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	profileRepo := repos.NewProfileRepo(theDB, log)

	// Services
	log.Info("Setting up services from main...")
	milestoneEngine := services.NewMilestoneEngine(log, cat)
	achievementEngine := services.NewAchievementEngine(log, cat)
	profileService := services.NewProfileService(theDB, log, profileRepo, milestoneEngine, achievementEngine)

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	chatService := services.NewChatService(log, openaiClient)

	// Handlers
	log.Info("Setting up handlers from main...")
	profileHandler := handlers.NewProfileHandler(log, profileService)
	chatHandler := handlers.NewChatHandler(log, chatService, profileService)

	// Middleware
	requestLog := middleware.NewRequestLogMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ProfileHandler: profileHandler,
		ChatHandler:    chatHandler,
		RequestLog:     requestLog,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
