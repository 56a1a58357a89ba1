package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	CORSOrigins []string

	// Security
	JWTSecret             string
	JWTExpiresMinutes     int
	LoginRateLimitSeconds int

	// Match settings
	IdleMinutes        int
	PreStartDelaySecs  int
	CountdownSecs      int
	MaxPlayersPerMatch int
	ReaperPollSecs     int

	// Leaderboard
	LeaderboardTopN int

	// Uploads (kept for the static-asset sidecar; unused by the match core)
	UploadDir string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/playmines?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		// Security
		JWTSecret:             getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiresMinutes:     getEnvInt("JWT_EXPIRES_MINUTES", 720),
		LoginRateLimitSeconds: getEnvInt("LOGIN_RATE_LIMIT_SECONDS", 2),

		// Match settings
		IdleMinutes:        getEnvInt("IDLE_MINUTES", 10),
		PreStartDelaySecs:  getEnvInt("PRE_START_DELAY_SECONDS", 3),
		CountdownSecs:      getEnvInt("COUNTDOWN_SECONDS", 300),
		MaxPlayersPerMatch: getEnvInt("MAX_PLAYERS_PER_MATCH", 2),
		ReaperPollSecs:     getEnvInt("REAPER_POLL_SECONDS", 60),

		// Leaderboard
		LeaderboardTopN: getEnvInt("LEADERBOARD_TOP_N", 10),

		// Uploads
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
