package leaderboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmines/backend/internal/config"
	"github.com/playmines/backend/internal/match"
	"github.com/playmines/backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds staleness of the Redis-cached listings
const cacheTTL = 30 * time.Second

// Service maintains best-time-per-user-per-difficulty entries, with replay
// blobs retained only for entries inside the top N of their difficulty.
type Service struct {
	db  *sqlx.DB
	rdb *redis.Client
	cfg *config.Config
}

func NewService(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *Service {
	return &Service{db: db, rdb: rdb, cfg: cfg}
}

// Replay is the client-supplied blob attached to a submission: a board
// descriptor plus the ordered step list, enough to re-animate the game.
type Replay struct {
	Board json.RawMessage `json:"board"`
	Steps json.RawMessage `json:"steps"`
}

// Entry is one leaderboard row as served to clients
type Entry struct {
	ID         int       `db:"id" json:"id"`
	Handle     string    `db:"handle" json:"handle"`
	Difficulty string    `db:"difficulty" json:"difficulty"`
	TimeMS     int       `db:"time_ms" json:"time_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	HasReplay  bool      `db:"has_replay" json:"has_replay"`
}

// SubmitResult reports whether the submission improved the user's best
type SubmitResult struct {
	Improved bool `json:"improved"`
	EntryID  int  `json:"entry_id,omitempty"`
	BestMS   int  `json:"best_ms"`
}

// Submit upserts the user's entry when time_ms strictly beats the stored
// best. The replay is persisted only while the entry sits inside the top N
// of its difficulty; pruning of fallen-out replays happens in the same
// transaction.
func (s *Service) Submit(ctx context.Context, userID int, difficulty string, timeMS int, replay *Replay) (*SubmitResult, error) {
	if timeMS <= 0 {
		return nil, &match.Error{Kind: match.KindBadRequest, Message: "time_ms must be positive"}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}
	defer tx.Rollback()

	var existing struct {
		ID     int `db:"id"`
		TimeMS int `db:"time_ms"`
	}
	err = tx.Get(&existing, `
		SELECT id, time_ms FROM leaderboard_entries
		WHERE user_id=$1 AND difficulty=$2 FOR UPDATE`, userID, difficulty)
	if err != nil && err != sql.ErrNoRows {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	if err == nil && existing.TimeMS <= timeMS {
		return &SubmitResult{Improved: false, BestMS: existing.TimeMS}, nil
	}

	var entryID int
	qerr := tx.QueryRowx(`
		INSERT INTO leaderboard_entries (user_id, difficulty, time_ms, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, difficulty)
		DO UPDATE SET time_ms=EXCLUDED.time_ms, created_at=NOW()
		RETURNING id`, userID, difficulty, timeMS).Scan(&entryID)
	if qerr != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	// The old best's replay is superseded either way
	if _, err := tx.Exec(`DELETE FROM leaderboard_replays WHERE entry_id=$1`, entryID); err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	if replay != nil {
		var better int
		if err := tx.Get(&better, `
			SELECT COUNT(*) FROM leaderboard_entries
			WHERE difficulty=$1 AND id != $2
			  AND (time_ms < $3 OR (time_ms = $3 AND created_at < NOW()))`,
			difficulty, entryID, timeMS); err != nil {
			return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
		}
		if better < s.cfg.LeaderboardTopN {
			boardJSON, _ := json.Marshal(replay.Board)
			stepsJSON, _ := json.Marshal(replay.Steps)
			if _, err := tx.Exec(`
				INSERT INTO leaderboard_replays (entry_id, board_json, steps_json, created_at)
				VALUES ($1, $2, $3, NOW())`, entryID, string(boardJSON), string(stepsJSON)); err != nil {
				return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
			}
		}
	}

	// Prune replays that fell out of the top N for this difficulty
	if _, err := tx.Exec(`
		DELETE FROM leaderboard_replays WHERE entry_id IN (
			SELECT id FROM leaderboard_entries
			WHERE difficulty=$1
			ORDER BY time_ms ASC, created_at ASC
			OFFSET $2
		)`, difficulty, s.cfg.LeaderboardTopN); err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	if err := tx.Commit(); err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	s.invalidateCache(ctx, difficulty)
	metrics.LeaderboardSubmissions.Inc()
	log.Printf("[LEADERBOARD] user=%d difficulty=%s new best %dms (entry=%d)", userID, difficulty, timeMS, entryID)
	return &SubmitResult{Improved: true, EntryID: entryID, BestMS: timeMS}, nil
}

// List returns entries sorted by time ascending, ties broken by earlier
// submission. Results are cached briefly in Redis when available.
func (s *Service) List(ctx context.Context, difficulty string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = s.cfg.LeaderboardTopN
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", difficulty, limit)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var entries []Entry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	var entries []Entry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT e.id, u.handle, e.difficulty, e.time_ms, e.created_at,
		       (r.entry_id IS NOT NULL) AS has_replay
		FROM leaderboard_entries e
		JOIN users u ON u.id = e.user_id
		LEFT JOIN leaderboard_replays r ON r.entry_id = e.id
		WHERE e.difficulty=$1
		ORDER BY e.time_ms ASC, e.created_at ASC
		LIMIT $2`, difficulty, limit)
	if err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(entries); err == nil {
			s.rdb.Set(ctx, cacheKey, payload, cacheTTL)
		}
	}
	return entries, nil
}

// GetReplay returns the stored board descriptor and step sequence
func (s *Service) GetReplay(ctx context.Context, entryID int) (*Replay, error) {
	var row struct {
		BoardJSON string `db:"board_json"`
		StepsJSON string `db:"steps_json"`
	}
	err := s.db.GetContext(ctx, &row, `
		SELECT board_json, steps_json FROM leaderboard_replays WHERE entry_id=$1`, entryID)
	if err == sql.ErrNoRows {
		return nil, &match.Error{Kind: match.KindNotFound, Message: "replay not found"}
	}
	if err != nil {
		return nil, &match.Error{Kind: match.KindUnavailable, Message: "store unavailable"}
	}
	return &Replay{
		Board: json.RawMessage(row.BoardJSON),
		Steps: json.RawMessage(row.StepsJSON),
	}, nil
}

func (s *Service) invalidateCache(ctx context.Context, difficulty string) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, fmt.Sprintf("leaderboard:%s:*", difficulty), 50).Iterator()
	for iter.Next(ctx) {
		s.rdb.Del(ctx, iter.Val())
	}
}
