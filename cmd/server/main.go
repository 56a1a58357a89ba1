package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmines/backend/internal/api"
	"github.com/playmines/backend/internal/config"
	"github.com/playmines/backend/internal/database"
	"github.com/playmines/backend/internal/leaderboard"
	"github.com/playmines/backend/internal/match"
	"github.com/playmines/backend/internal/migrations"
	"github.com/playmines/backend/internal/profile"
	"github.com/playmines/backend/internal/redis"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis (optional; rate limiting and list caches degrade gracefully)
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Printf("[REDIS] Not available (%v); continuing without it", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// Match engine, leaderboard and profile services
	engine := match.NewEngine(db, cfg)
	boards := leaderboard.NewService(db, rdb, cfg)
	profiles := profile.NewService(db, engine)

	// Start the idle/countdown reaper (lazy evaluation still covers correctness)
	match.StartReaper(context.Background(), engine, cfg)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, rdb, cfg, engine, boards, profiles)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PlayMines server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
