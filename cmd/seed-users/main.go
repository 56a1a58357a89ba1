package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playmines/backend/internal/config"
	"github.com/playmines/backend/internal/database"
	"golang.org/x/crypto/bcrypt"
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

	handles := strings.Split(os.Getenv("SEED_HANDLES"), ",")
	if len(handles) == 1 && handles[0] == "" {
		handles = []string{"alice", "bob"}
		log.Printf("SEED_HANDLES not set, using defaults: %v", handles)
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "change-me"
		log.Println("WARNING: Using default seed password. Set SEED_PASSWORD env var!")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	for _, h := range handles {
		handle := strings.TrimSpace(h)
		if handle == "" {
			continue
		}
		_, err := db.Exec(`
			INSERT INTO users (handle, password_hash, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (handle) DO NOTHING`, handle, string(hash))
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", handle, err)
		}
		log.Printf("✓ Seeded user %s", handle)
	}
}
