package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsForFixedTables(t *testing.T) {
	// Two-player matches
	assert.Equal(t, 10, pointsFor(1, 2))
	assert.Equal(t, 2, pointsFor(2, 2))

	// Three players
	assert.Equal(t, 14, pointsFor(1, 3))
	assert.Equal(t, 7, pointsFor(2, 3))
	assert.Equal(t, 2, pointsFor(3, 3))

	// Four players
	assert.Equal(t, 18, pointsFor(1, 4))
	assert.Equal(t, 10, pointsFor(2, 4))
	assert.Equal(t, 5, pointsFor(3, 4))
	assert.Equal(t, 2, pointsFor(4, 4))
}

func TestPointsForSoloScoresNothing(t *testing.T) {
	assert.Equal(t, 0, pointsFor(1, 1))
	assert.Equal(t, 0, pointsFor(1, 0))
}

func TestPointsForDecayCurve(t *testing.T) {
	// Above four players the curve takes over; winners still earn the most
	// and everyone earns at least a point.
	first := pointsFor(1, 5)
	last := pointsFor(5, 5)
	assert.Equal(t, 26, first)
	assert.Equal(t, 5, last)

	for rank := 1; rank < 5; rank++ {
		assert.Greater(t, pointsFor(rank, 5), pointsFor(rank+1, 5), "rank %d", rank)
	}
	assert.GreaterOrEqual(t, pointsFor(12, 12), 1)
}

func TestSortRankEntries(t *testing.T) {
	entries := []RankEntry{
		{Handle: "carol", Score: 12},
		{Handle: "bob", Score: 30},
		{Handle: "alice", Score: 12},
		{Handle: "dave", Score: 0},
	}
	sortRankEntries(entries)

	assert.Equal(t, []RankEntry{
		{Handle: "bob", Score: 30},
		{Handle: "alice", Score: 12},
		{Handle: "carol", Score: 12},
		{Handle: "dave", Score: 0},
	}, entries)
}
