package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(errNotFound("match not found")))
	assert.Equal(t, KindAlreadyInMatch, KindOf(errAlreadyInMatch("busy")))
	assert.Equal(t, KindConflict, KindOf(errConflict("seq race")))

	// Unexpected store failures surface as Unavailable
	assert.Equal(t, KindUnavailable, KindOf(errors.New("connection refused")))
}

func TestErrorMessage(t *testing.T) {
	err := errInvalidState("match is not active")
	assert.EqualError(t, err, "invalid_state: match is not active")
}
