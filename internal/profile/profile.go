package profile

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmines/backend/internal/match"
)

// rankBoardLimit caps the rankings listing
const rankBoardLimit = 20

// Service aggregates a player's leaderboard bests, match history and rank
// counts, plus the global points-based rank board.
type Service struct {
	db     *sqlx.DB
	engine *match.Engine
}

func NewService(db *sqlx.DB, engine *match.Engine) *Service {
	return &Service{db: db, engine: engine}
}

// BestScore is the user's best leaderboard time for one difficulty
type BestScore struct {
	Difficulty string    `db:"difficulty" json:"difficulty"`
	TimeMS     int       `db:"time_ms" json:"time_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	EntryID    int       `db:"entry_id" json:"entry_id"`
	HasReplay  bool      `db:"has_replay" json:"has_replay"`
}

// RankCounts tallies the user's finishing positions across finished matches
type RankCounts struct {
	First  int `db:"first" json:"first"`
	Second int `db:"second" json:"second"`
	Third  int `db:"third" json:"third"`
	Last   int `db:"last" json:"last"`
}

// View is the full profile projection
type View struct {
	Handle       string              `json:"handle"`
	BestScores   []BestScore         `json:"best_scores"`
	MatchHistory []match.HistoryItem `json:"match_history"`
	RankCounts   RankCounts          `json:"rank_counts"`
}

// RankEntry is one row of the rank board
type RankEntry struct {
	Handle string `json:"handle"`
	Score  int    `json:"score"`
}

// RankBoard is the global points listing, with the caller's own entry when
// authenticated.
type RankBoard struct {
	Top []RankEntry `json:"top"`
	Me  *RankEntry  `json:"me,omitempty"`
}

// Me builds the caller's profile view
func (s *Service) Me(ctx context.Context, userID int) (*View, error) {
	var handle string
	err := s.db.GetContext(ctx, &handle, `SELECT handle FROM users WHERE id=$1`, userID)
	if err == sql.ErrNoRows {
		return nil, &match.Error{Kind: match.KindNotFound, Message: "user not found"}
	}
	if err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	best := []BestScore{}
	err = s.db.SelectContext(ctx, &best, `
		SELECT e.difficulty, e.time_ms, e.created_at, e.id AS entry_id,
		       (r.entry_id IS NOT NULL) AS has_replay
		FROM leaderboard_entries e
		LEFT JOIN leaderboard_replays r ON r.entry_id = e.id
		WHERE e.user_id=$1
		ORDER BY e.time_ms ASC`, userID)
	if err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	history, err := s.engine.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	var counts RankCounts
	err = s.db.GetContext(ctx, &counts, `
		SELECT
			COUNT(*) FILTER (WHERE mp.rank = 1) AS first,
			COUNT(*) FILTER (WHERE mp.rank = 2) AS second,
			COUNT(*) FILTER (WHERE mp.rank = 3) AS third,
			COUNT(*) FILTER (WHERE mp.rank = pc.total) AS last
		FROM match_players mp
		JOIN matches m ON m.id = mp.match_id AND m.status = 'finished'
		JOIN (
			SELECT match_id, COUNT(*) AS total FROM match_players GROUP BY match_id
		) pc ON pc.match_id = mp.match_id
		WHERE mp.user_id=$1`, userID)
	if err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	return &View{
		Handle:       handle,
		BestScores:   best,
		MatchHistory: history,
		RankCounts:   counts,
	}, nil
}

// pointsFor awards points for one finished match: fixed tables for the small
// player counts, a decay curve above four. Solo matches score nothing.
func pointsFor(rank, total int) int {
	if total < 2 {
		return 0
	}
	var base []int
	switch total {
	case 2:
		base = []int{10, 2}
	case 3:
		base = []int{14, 7, 2}
	case 4:
		base = []int{18, 10, 5, 2}
	default:
		v := int(math.Round(25*math.Pow(1-float64(rank-1)/float64(total), 1.1))) + 1
		if v < 1 {
			return 1
		}
		return v
	}
	if rank >= 1 && rank <= len(base) {
		return base[rank-1]
	}
	return 1
}

// sortRankEntries orders by score descending, ties by handle
func sortRankEntries(entries []RankEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Handle < entries[j].Handle
	})
}

// Rankings computes the global rank board. Every registered user appears with
// at least zero points; currentUserID (0 for anonymous callers) selects the
// "me" entry.
func (s *Service) Rankings(ctx context.Context, currentUserID int) (*RankBoard, error) {
	var users []struct {
		ID     int    `db:"id"`
		Handle string `db:"handle"`
	}
	if err := s.db.SelectContext(ctx, &users, `SELECT id, handle FROM users`); err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	var results []struct {
		UserID int `db:"user_id"`
		Rank   int `db:"rank"`
		Total  int `db:"total"`
	}
	err := s.db.SelectContext(ctx, &results, `
		SELECT mp.user_id, mp.rank, pc.total
		FROM match_players mp
		JOIN matches m ON m.id = mp.match_id AND m.status = 'finished'
		JOIN (
			SELECT match_id, COUNT(*) AS total FROM match_players GROUP BY match_id
		) pc ON pc.match_id = mp.match_id
		WHERE mp.rank IS NOT NULL`)
	if err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	scores := make(map[int]int, len(users))
	for _, u := range users {
		scores[u.ID] = 0
	}
	for _, r := range results {
		scores[r.UserID] += pointsFor(r.Rank, r.Total)
	}

	entries := make([]RankEntry, 0, len(users))
	board := &RankBoard{}
	for _, u := range users {
		entry := RankEntry{Handle: u.Handle, Score: scores[u.ID]}
		entries = append(entries, entry)
		if u.ID == currentUserID {
			me := entry
			board.Me = &me
		}
	}
	sortRankEntries(entries)
	if len(entries) > rankBoardLimit {
		entries = entries[:rankBoardLimit]
	}
	board.Top = entries
	return board, nil
}
