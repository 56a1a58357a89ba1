package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmines/backend/internal/profile"
)

// GetProfile returns the caller's profile: best leaderboard times, match
// history and rank counts.
func GetProfile(svc *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		view, err := svc.Me(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GetRankings returns the global points rank board. Works anonymously; a
// valid bearer token adds the caller's own entry.
func GetRankings(svc *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		board, err := svc.Rankings(c.Request.Context(), CurrentUserID(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, board)
	}
}
