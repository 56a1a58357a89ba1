package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmines/backend/internal/board"
	"github.com/playmines/backend/internal/leaderboard"
)

// SubmitLeaderboard records a best time for the caller. Only a strict
// improvement over the stored best persists.
func SubmitLeaderboard(svc *leaderboard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Difficulty string              `json:"difficulty"`
			TimeMS     int                 `json:"time_ms"`
			Replay     *leaderboard.Replay `json:"replay"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "difficulty and time_ms required"})
			return
		}
		if !board.KnownDifficulty(req.Difficulty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty"})
			return
		}

		result, err := svc.Submit(c.Request.Context(), userID, req.Difficulty, req.TimeMS, req.Replay)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ListLeaderboard returns the top entries for a difficulty
func ListLeaderboard(svc *leaderboard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		difficulty := c.Query("difficulty")
		if !board.KnownDifficulty(difficulty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		entries, err := svc.List(c.Request.Context(), difficulty, limit)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// GetLeaderboardReplay returns the stored board descriptor and steps
func GetLeaderboardReplay(svc *leaderboard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		entryID, err := strconv.Atoi(c.Param("entry_id"))
		if err != nil || entryID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
			return
		}

		replay, err := svc.GetReplay(c.Request.Context(), entryID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, replay)
	}
}
