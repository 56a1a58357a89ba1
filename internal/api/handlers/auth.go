package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/playmines/backend/internal/config"
	"github.com/playmines/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var validHandle = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

// Register creates an account and issues a JWT
func Register(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Handle   string `json:"handle"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "handle and password required"})
			return
		}

		handle := strings.TrimSpace(req.Handle)
		if !validHandle.MatchString(handle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "handle must be 3-50 characters (letters, digits, _ . -)"})
			return
		}
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[AUTH] bcrypt failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var user models.User
		err = db.QueryRowx(`
			INSERT INTO users (handle, password_hash, created_at)
			VALUES ($1, $2, NOW())
			RETURNING id, handle, created_at`, handle, string(hash)).StructScan(&user)
		if err != nil {
			// Unique violation on handle is the expected failure here
			c.JSON(http.StatusBadRequest, gin.H{"error": "handle already taken"})
			return
		}

		token, err := issueToken(cfg, user.ID, user.Handle)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[AUTH] registered user=%d handle=%s", user.ID, user.Handle)
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// Login verifies credentials and issues a JWT. Attempts are rate limited per
// handle via Redis when configured.
func Login(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Handle   string `json:"handle"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "handle and password required"})
			return
		}
		handle := strings.TrimSpace(req.Handle)

		ctx := context.Background()
		// Rate limit per handle
		if rdb != nil && cfg.LoginRateLimitSeconds > 0 {
			key := fmt.Sprintf("login_rate:%s", handle)
			ok, err := rdb.SetNX(ctx, key, "1", time.Duration(cfg.LoginRateLimitSeconds)*time.Second).Result()
			if err == nil && !ok {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
				return
			}
		}

		var user models.User
		err := db.Get(&user, `SELECT * FROM users WHERE handle=$1`, handle)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err != nil {
			log.Printf("[AUTH] user lookup failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := issueToken(cfg, user.ID, user.Handle)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// GetMe returns the authenticated user's profile
func GetMe(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.Get(&user, `SELECT * FROM users WHERE id=$1`, userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// issueToken signs an HS256 JWT carrying the user identity
func issueToken(cfg *config.Config, userID int, handle string) (string, error) {
	exp := time.Now().Add(time.Duration(cfg.JWTExpiresMinutes) * time.Minute)
	claims := jwt.MapClaims{
		"user_id": userID,
		"handle":  handle,
		"exp":     exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// AuthMiddleware validates bearer JWT and sets user_id in context
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userIDf, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", int(userIDf))
		c.Next()
	}
}

// OptionalAuth sets user_id when a valid bearer token is present and always
// lets the request through. For endpoints that work anonymously but
// personalize when a caller is logged in.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token := strings.TrimPrefix(auth, "Bearer ")
			parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, fmt.Errorf("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err == nil && parsed.Valid {
				if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
					if userIDf, ok := claims["user_id"].(float64); ok {
						c.Set("user_id", int(userIDf))
					}
				}
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by AuthMiddleware, or 0
func CurrentUserID(c *gin.Context) int {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}
