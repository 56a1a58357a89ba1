package handlers

import (
	"net/http"
	"testing"

	"github.com/playmines/backend/internal/match"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := map[match.Kind]int{
		match.KindUnauthorized:   http.StatusForbidden,
		match.KindNotFound:       http.StatusNotFound,
		match.KindBadRequest:     http.StatusBadRequest,
		match.KindInvalidState:   http.StatusConflict,
		match.KindAlreadyInMatch: http.StatusConflict,
		match.KindConflict:       http.StatusConflict,
		match.KindUnavailable:    http.StatusServiceUnavailable,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), "kind %s", kind)
	}
}
