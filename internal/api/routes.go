package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmines/backend/internal/api/handlers"
	"github.com/playmines/backend/internal/config"
	"github.com/playmines/backend/internal/leaderboard"
	"github.com/playmines/backend/internal/match"
	"github.com/playmines/backend/internal/middleware"
	"github.com/playmines/backend/internal/profile"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config, engine *match.Engine, boards *leaderboard.Service, profiles *profile.Service) {
	router.Use(middleware.CORSMiddleware(cfg))

	// No-cache middleware in development so clients always poll fresh state
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db, cfg))
			auth.POST("/login", handlers.Login(db, rdb, cfg))
			auth.GET("/me", handlers.AuthMiddleware(cfg), handlers.GetMe(db))
		}

		m := api.Group("/match")
		{
			// Seat-token writes; no bearer auth needed
			m.POST("/:id/ready", handlers.SetReady(engine))
			m.POST("/:id/start", handlers.StartMatch(engine))
			m.POST("/:id/step", handlers.SubmitStep(engine))
			m.POST("/:id/finish", handlers.FinishMatch(engine))
			m.POST("/:id/leave", handlers.LeaveMatch(engine))
			m.DELETE("/:id", handlers.LeaveMatch(engine))

			// Reads
			m.GET("/:id/state", handlers.GetMatchState(engine))
			m.GET("/:id/steps", handlers.GetMatchSteps(engine))
			m.GET("/recent", handlers.GetRecentMatches(engine))

			// Bearer-authenticated
			m.POST("", handlers.AuthMiddleware(cfg), handlers.CreateMatch(engine))
			m.POST("/:id/join", handlers.AuthMiddleware(cfg), handlers.JoinMatch(engine))
			m.GET("/active", handlers.AuthMiddleware(cfg), handlers.GetActiveSession(engine))
			m.GET("/history", handlers.AuthMiddleware(cfg), handlers.GetMatchHistory(engine))
		}

		lb := api.Group("/leaderboard")
		{
			lb.GET("", handlers.ListLeaderboard(boards))
			lb.GET("/replay/:entry_id", handlers.GetLeaderboardReplay(boards))
			lb.POST("", handlers.AuthMiddleware(cfg), handlers.SubmitLeaderboard(boards))
		}

		p := api.Group("/profile")
		{
			p.GET("/me", handlers.AuthMiddleware(cfg), handlers.GetProfile(profiles))
			p.GET("/rankings", handlers.OptionalAuth(cfg), handlers.GetRankings(profiles))
		}
	}
}
