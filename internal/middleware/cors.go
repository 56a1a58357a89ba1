package middleware

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playmines/backend/internal/config"
)

// CORSMiddleware returns a CORS middleware configured from CORS_ORIGINS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	log.Printf("[CORS] Environment: %s, allowed origins: %v", cfg.Environment, cfg.CORSOrigins)

	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	}

	if cfg.Environment == "development" {
		corsConfig.AllowOrigins = append([]string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}, cfg.CORSOrigins...)
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}

	return cors.New(corsConfig)
}
