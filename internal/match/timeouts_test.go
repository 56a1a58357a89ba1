package match

import (
	"database/sql"
	"testing"
	"time"

	"github.com/playmines/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func activeMatch(started, lastActivity time.Time, countdownSecs int) *models.Match {
	return &models.Match{
		Status:        models.MatchActive,
		CountdownSecs: countdownSecs,
		StartedAt:     sql.NullTime{Time: started, Valid: true},
		LastActivity:  lastActivity,
	}
}

func TestMatchExpiredIdleWindow(t *testing.T) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := activeMatch(started, started, 300)

	// Last activity at start of play; nothing happens for over 10 minutes
	assert.True(t, matchExpired(m, 10, started.Add(10*time.Minute+time.Second)))
	assert.False(t, matchExpired(m, 10, started.Add(9*time.Minute)))
}

func TestMatchExpiredCountdownDeadline(t *testing.T) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := activeMatch(started, started.Add(4*time.Minute), 300)

	// Steps kept the match busy, but the 300s countdown still ends it
	assert.True(t, matchExpired(m, 10, started.Add(5*time.Minute+time.Second)))
	assert.False(t, matchExpired(m, 10, started.Add(4*time.Minute+59*time.Second)))
}

func TestMatchExpiredOnlyWhenActive(t *testing.T) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	late := started.Add(24 * time.Hour)

	pending := &models.Match{Status: models.MatchPending, LastActivity: started}
	assert.False(t, matchExpired(pending, 10, late))

	finished := activeMatch(started, started, 300)
	finished.Status = models.MatchFinished
	assert.False(t, matchExpired(finished, 10, late))
}

func TestMatchExpiredWithoutStartedAt(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := &models.Match{
		Status:        models.MatchActive,
		CountdownSecs: 300,
		LastActivity:  created,
	}

	// No started_at: only the idle window applies
	assert.False(t, matchExpired(m, 10, created.Add(6*time.Minute)))
	assert.True(t, matchExpired(m, 10, created.Add(11*time.Minute)))
}

func TestSeatLockKeyStablePerUser(t *testing.T) {
	classA, keyA := seatLockKey(7)
	classB, keyB := seatLockKey(7)
	assert.Equal(t, classA, classB)
	assert.Equal(t, keyA, keyB)

	_, other := seatLockKey(8)
	assert.NotEqual(t, keyA, other)
	assert.NotZero(t, classA)
}
