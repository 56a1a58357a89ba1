package match

import (
	"testing"
	"time"

	"github.com/playmines/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRankWinnerFirst(t *testing.T) {
	base := time.Now()
	ranks := rankStandings([]standing{
		{PlayerID: 1, Result: models.ResultLose, Revealed: 70, DurationMS: 4000, FinishedAt: base},
		{PlayerID: 2, Result: models.ResultWin, Revealed: 71, DurationMS: 9000, FinishedAt: base.Add(time.Second)},
	})
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 2, ranks[1])
}

func TestRankForfeitLastRegardlessOfCells(t *testing.T) {
	base := time.Now()
	ranks := rankStandings([]standing{
		{PlayerID: 1, Result: models.ResultForfeit, Revealed: 80, DurationMS: 1000, FinishedAt: base},
		{PlayerID: 2, Result: models.ResultLose, Revealed: 5, DurationMS: 9000, FinishedAt: base},
	})
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 2, ranks[1])
}

func TestRankByRevealedThenDuration(t *testing.T) {
	base := time.Now()
	ranks := rankStandings([]standing{
		{PlayerID: 1, Result: models.ResultLose, Revealed: 30, DurationMS: 5000, FinishedAt: base},
		{PlayerID: 2, Result: models.ResultLose, Revealed: 40, DurationMS: 9000, FinishedAt: base},
		{PlayerID: 3, Result: models.ResultLose, Revealed: 40, DurationMS: 7000, FinishedAt: base},
	})
	assert.Equal(t, 1, ranks[3])
	assert.Equal(t, 2, ranks[2])
	assert.Equal(t, 3, ranks[1])
}

func TestRankTieBreakStepsThenFinish(t *testing.T) {
	base := time.Now()
	ranks := rankStandings([]standing{
		{PlayerID: 1, Result: models.ResultLose, Revealed: 10, DurationMS: 5000, StepsCount: 20, FinishedAt: base.Add(time.Second)},
		{PlayerID: 2, Result: models.ResultLose, Revealed: 10, DurationMS: 5000, StepsCount: 15, FinishedAt: base.Add(2 * time.Second)},
		{PlayerID: 3, Result: models.ResultLose, Revealed: 10, DurationMS: 5000, StepsCount: 20, FinishedAt: base},
	})
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 2, ranks[3])
	assert.Equal(t, 3, ranks[1])
}

func TestRanksAreAPermutation(t *testing.T) {
	base := time.Now()
	standings := []standing{
		{PlayerID: 10, Result: models.ResultWin, Revealed: 71, DurationMS: 4500, FinishedAt: base},
		{PlayerID: 20, Result: models.ResultLose, Revealed: 50, DurationMS: 5000, FinishedAt: base},
		{PlayerID: 30, Result: models.ResultForfeit, Revealed: 60, DurationMS: 3000, FinishedAt: base},
		{PlayerID: 40, Result: models.ResultDraw, Revealed: 50, DurationMS: 4000, FinishedAt: base},
	}
	ranks := rankStandings(standings)

	seen := map[int]bool{}
	for _, r := range ranks {
		assert.True(t, r >= 1 && r <= len(standings))
		assert.False(t, seen[r], "duplicate rank %d", r)
		seen[r] = true
	}
	assert.Equal(t, 1, ranks[10])
	assert.Equal(t, 4, ranks[30])
}

func TestBothForfeitedRankedByRevealed(t *testing.T) {
	base := time.Now()
	ranks := rankStandings([]standing{
		{PlayerID: 1, Result: models.ResultForfeit, Revealed: 12, DurationMS: 5000, FinishedAt: base},
		{PlayerID: 2, Result: models.ResultForfeit, Revealed: 30, DurationMS: 5000, FinishedAt: base},
	})
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 2, ranks[1])
}
