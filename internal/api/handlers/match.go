package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmines/backend/internal/match"
)

// CreateMatch opens a new pending match hosted by the caller
func CreateMatch(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Difficulty string `json:"difficulty"`
		}
		// Body is optional; difficulty defaults to beginner
		c.ShouldBindJSON(&req)

		session, err := engine.Create(c.Request.Context(), userID, req.Difficulty)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// JoinMatch seats the caller in a pending match
func JoinMatch(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}

		session, err := engine.Join(c.Request.Context(), matchID, userID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// SetReady toggles readiness for the seat identified by player_token
func SetReady(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}
		var req struct {
			PlayerToken string `json:"player_token"`
			Ready       bool   `json:"ready"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_token required"})
			return
		}

		if err := engine.SetReady(c.Request.Context(), matchID, req.PlayerToken, req.Ready); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// StartMatch begins play (host only)
func StartMatch(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}
		var req struct {
			PlayerToken string `json:"player_token"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_token required"})
			return
		}

		info, err := engine.Start(c.Request.Context(), matchID, req.PlayerToken)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// SubmitStep appends one step to the match's total order
func SubmitStep(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}
		var req struct {
			PlayerToken string `json:"player_token"`
			Action      string `json:"action"`
			X           int    `json:"x"`
			Y           int    `json:"y"`
			ElapsedMS   *int   `json:"elapsed_ms"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_token, action, x, y required"})
			return
		}

		seq, err := engine.SubmitStep(c.Request.Context(), matchID, req.PlayerToken, req.Action, req.X, req.Y, req.ElapsedMS)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"seq": seq})
	}
}

// FinishMatch records the caller's outcome for their seat
func FinishMatch(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}
		var req struct {
			PlayerToken string          `json:"player_token"`
			Outcome     string          `json:"outcome"`
			DurationMS  *int            `json:"duration_ms"`
			StepsCount  *int            `json:"steps_count"`
			Progress    json.RawMessage `json:"progress"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_token and outcome required"})
			return
		}

		result, err := engine.Finish(c.Request.Context(), matchID, req.PlayerToken, req.Outcome, req.DurationMS, req.StepsCount, req.Progress)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// LeaveMatch drops the caller's seat (or deletes a sole-player match).
// Wired to both POST /:id/leave and DELETE /:id.
func LeaveMatch(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}
		var req struct {
			PlayerToken string `json:"player_token"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_token required"})
			return
		}

		if err := engine.Leave(c.Request.Context(), matchID, req.PlayerToken); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GetMatchState returns the full match view. A seat token passed as ?pt=
// unlocks that seat's own progress while the match is running.
func GetMatchState(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}
		view, err := engine.State(c.Request.Context(), matchID, c.Query("pt"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GetMatchSteps returns the ordered step log (replay & spectating)
func GetMatchSteps(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := matchIDParam(c)
		if !ok {
			return
		}
		steps, err := engine.Steps(c.Request.Context(), matchID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, steps)
	}
}

// GetRecentMatches lists the latest matches
func GetRecentMatches(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		matches, err := engine.Recent(c.Request.Context(), limit)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, matches)
	}
}

// GetActiveSession returns the caller's unique in-flight seat, if any
func GetActiveSession(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session, err := engine.ActiveSession(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if session == nil {
			c.JSON(http.StatusOK, gin.H{"active": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"active":       true,
			"match_id":     session.MatchID,
			"player_id":    session.PlayerID,
			"player_token": session.PlayerToken,
			"board":        session.Board,
			"status":       session.Status,
			"host_id":      session.HostID,
		})
	}
}

// GetMatchHistory lists the caller's past seats with match summaries
func GetMatchHistory(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		history, err := engine.History(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, history)
	}
}
