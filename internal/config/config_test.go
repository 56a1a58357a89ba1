package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 10, cfg.IdleMinutes)
	assert.Equal(t, 3, cfg.PreStartDelaySecs)
	assert.Equal(t, 300, cfg.CountdownSecs)
	assert.Equal(t, 2, cfg.MaxPlayersPerMatch)
	assert.Equal(t, 10, cfg.LeaderboardTopN)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.CORSOrigins)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IDLE_MINUTES", "25")
	t.Setenv("MAX_PLAYERS_PER_MATCH", "4")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	assert.Equal(t, 25, cfg.IdleMinutes)
	assert.Equal(t, 4, cfg.MaxPlayersPerMatch)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestEnvBadIntFallsBack(t *testing.T) {
	t.Setenv("COUNTDOWN_SECONDS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 300, cfg.CountdownSecs)
}
