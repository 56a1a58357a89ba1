package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playmines_matches_created_total",
		Help: "Matches created",
	})
	MatchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playmines_matches_started_total",
		Help: "Matches that entered the active state",
	})
	MatchesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playmines_matches_finished_total",
		Help: "Matches that reached the finished state",
	})
	ForcedFinishes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playmines_matches_forced_finishes_total",
		Help: "Matches force-finished by idle or countdown timeout",
	})
	StepsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playmines_steps_recorded_total",
		Help: "Steps appended to match logs",
	})
	LeaderboardSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playmines_leaderboard_submissions_total",
		Help: "Leaderboard submissions accepted (strict improvements)",
	})
)
