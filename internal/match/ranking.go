package match

import (
	"sort"
	"time"

	"github.com/playmines/backend/internal/models"
)

// standing is one player's end-of-match figures fed to the ranking order
type standing struct {
	PlayerID   int
	Result     string
	Revealed   int
	DurationMS int64
	StepsCount int
	FinishedAt time.Time
}

// rankStandings orders standings best-first and returns player id -> rank
// (1..N). Order: win beats everything except that forfeits always sink to
// the bottom; among the rest, more revealed safe cells, then smaller
// duration, then fewer steps, then earlier finish.
func rankStandings(standings []standing) map[int]int {
	sorted := make([]standing, len(standings))
	copy(sorted, standings)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		aForfeit := a.Result == models.ResultForfeit
		bForfeit := b.Result == models.ResultForfeit
		if aForfeit != bForfeit {
			return bForfeit
		}

		aWin := a.Result == models.ResultWin
		bWin := b.Result == models.ResultWin
		if aWin != bWin {
			return aWin
		}

		if a.Revealed != b.Revealed {
			return a.Revealed > b.Revealed
		}
		if a.DurationMS != b.DurationMS {
			return a.DurationMS < b.DurationMS
		}
		if a.StepsCount != b.StepsCount {
			return a.StepsCount < b.StepsCount
		}
		return a.FinishedAt.Before(b.FinishedAt)
	})

	ranks := make(map[int]int, len(sorted))
	for i, s := range sorted {
		ranks[s.PlayerID] = i + 1
	}
	return ranks
}
