package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmines/backend/internal/match"
)

// statusFor maps a domain error kind to its HTTP status
func statusFor(kind match.Kind) int {
	switch kind {
	case match.KindUnauthorized:
		return http.StatusForbidden
	case match.KindNotFound:
		return http.StatusNotFound
	case match.KindBadRequest:
		return http.StatusBadRequest
	case match.KindInvalidState, match.KindAlreadyInMatch:
		return http.StatusConflict
	case match.KindConflict:
		return http.StatusConflict
	case match.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes a domain error to the response
func abortWithError(c *gin.Context, err error) {
	kind := match.KindOf(err)
	msg := "internal error"
	if e, ok := err.(*match.Error); ok {
		msg = e.Message
	}
	c.JSON(statusFor(kind), gin.H{"error": msg, "kind": string(kind)})
}

// matchIDParam parses the :id path segment
func matchIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return 0, false
	}
	return id, true
}
