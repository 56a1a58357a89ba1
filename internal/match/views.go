package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmines/backend/internal/board"
	"github.com/playmines/backend/internal/models"
)

// PlayerView is one seat as exposed by the state view. Progress is redacted
// for everyone but the seat's own token while the match is unfinished.
type PlayerView struct {
	PlayerID   int             `json:"player_id"`
	UserID     int             `json:"user_id"`
	Name       string          `json:"name"`
	Ready      bool            `json:"ready"`
	Result     string          `json:"result"`
	Rank       *int            `json:"rank,omitempty"`
	StepsCount int             `json:"steps_count"`
	DurationMS *int64          `json:"duration_ms,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Progress   json.RawMessage `json:"progress,omitempty"`
}

// MatchView is the full match projection
type MatchView struct {
	ID            int          `json:"id"`
	Status        string       `json:"status"`
	Board         board.Board  `json:"board"`
	HostID        int          `json:"host_id"`
	CountdownSecs int          `json:"countdown_secs"`
	CreatedAt     time.Time    `json:"created_at"`
	StartedAt     *time.Time   `json:"started_at,omitempty"`
	EndedAt       *time.Time   `json:"ended_at,omitempty"`
	Players       []PlayerView `json:"players"`
}

// StepView is one entry of the canonical replay order
type StepView struct {
	Seq        int       `json:"seq"`
	PlayerID   int       `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Action     string    `json:"action"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	ElapsedMS  *int64    `json:"elapsed_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecentMatch is the compact summary used by the recent-matches listing
type RecentMatch struct {
	ID         int        `json:"id"`
	Status     string     `json:"status"`
	Difficulty string     `json:"difficulty,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Players    []struct {
		Name   string `json:"name"`
		Result string `json:"result"`
		Rank   *int   `json:"rank,omitempty"`
	} `json:"players"`
}

// evaluateMatch applies the lazy timeout rules for a match in its own
// transaction before a read is served.
func (e *Engine) evaluateMatch(ctx context.Context, matchID int) error {
	return e.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		_, err = e.applyTimeouts(tx, m)
		return err
	})
}

// State returns the full match view. seatToken, when it identifies a seat of
// this match, unlocks that seat's own progress; opponents see progress only
// once the match is finished.
func (e *Engine) State(ctx context.Context, matchID int, seatToken string) (*MatchView, error) {
	if err := e.evaluateMatch(ctx, matchID); err != nil {
		return nil, err
	}

	var m models.Match
	err := e.db.GetContext(ctx, &m, `SELECT * FROM matches WHERE id=$1`, matchID)
	if err == sql.ErrNoRows {
		return nil, errNotFound("match not found")
	}
	if err != nil {
		return nil, errUnavailable("store unavailable")
	}

	var rows []struct {
		models.MatchPlayer
		Handle string `db:"handle"`
	}
	err = e.db.SelectContext(ctx, &rows, `
		SELECT mp.*, u.handle FROM match_players mp
		JOIN users u ON u.id = mp.user_id
		WHERE mp.match_id=$1
		ORDER BY mp.joined_at ASC, mp.id ASC`, matchID)
	if err != nil {
		return nil, errUnavailable("store unavailable")
	}

	view := &MatchView{
		ID:            m.ID,
		Status:        m.Status,
		Board:         boardOf(&m),
		HostID:        m.HostID,
		CountdownSecs: m.CountdownSecs,
		CreatedAt:     m.CreatedAt,
	}
	if m.StartedAt.Valid {
		t := m.StartedAt.Time
		view.StartedAt = &t
	}
	if m.EndedAt.Valid {
		t := m.EndedAt.Time
		view.EndedAt = &t
	}

	for _, r := range rows {
		pv := PlayerView{
			PlayerID:   r.ID,
			UserID:     r.UserID,
			Name:       r.Handle,
			Ready:      r.Ready || r.UserID == m.HostID,
			Result:     r.Result,
			StepsCount: r.StepsCount,
		}
		if r.Rank.Valid {
			rank := int(r.Rank.Int64)
			pv.Rank = &rank
		}
		if r.DurationMS.Valid {
			d := r.DurationMS.Int64
			pv.DurationMS = &d
		}
		if r.FinishedAt.Valid {
			t := r.FinishedAt.Time
			pv.FinishedAt = &t
		}
		if r.Progress.Valid && (m.Status == models.MatchFinished || (seatToken != "" && r.Token == seatToken)) {
			pv.Progress = json.RawMessage(r.Progress.String)
		}
		view.Players = append(view.Players, pv)
	}
	return view, nil
}

// Steps returns the full step log in canonical seq order, used for replays
// and spectating.
func (e *Engine) Steps(ctx context.Context, matchID int) ([]StepView, error) {
	if err := e.evaluateMatch(ctx, matchID); err != nil {
		return nil, err
	}

	var rows []struct {
		models.MatchStep
		Handle string `db:"handle"`
	}
	err := e.db.SelectContext(ctx, &rows, `
		SELECT s.*, u.handle FROM match_steps s
		JOIN match_players mp ON mp.id = s.player_id
		JOIN users u ON u.id = mp.user_id
		WHERE s.match_id=$1
		ORDER BY s.seq ASC`, matchID)
	if err != nil {
		return nil, errUnavailable("store unavailable")
	}

	steps := make([]StepView, 0, len(rows))
	for _, r := range rows {
		sv := StepView{
			Seq:        r.Seq,
			PlayerID:   r.PlayerID,
			PlayerName: r.Handle,
			Action:     r.Action,
			X:          r.X,
			Y:          r.Y,
			CreatedAt:  r.CreatedAt,
		}
		if r.ElapsedMS.Valid {
			v := r.ElapsedMS.Int64
			sv.ElapsedMS = &v
		}
		steps = append(steps, sv)
	}
	return steps, nil
}

// Recent lists the last matches by creation time with a compact per-player
// summary. Overdue actives are swept first so listed statuses are current.
func (e *Engine) Recent(ctx context.Context, limit int) ([]RecentMatch, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if _, err := e.SweepExpired(ctx); err != nil {
		return nil, errUnavailable("store unavailable")
	}

	var matches []models.Match
	err := e.db.SelectContext(ctx, &matches, `
		SELECT * FROM matches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errUnavailable("store unavailable")
	}

	out := make([]RecentMatch, 0, len(matches))
	for _, m := range matches {
		rm := RecentMatch{
			ID:         m.ID,
			Status:     m.Status,
			Difficulty: m.Difficulty.String,
			CreatedAt:  m.CreatedAt,
		}
		if m.EndedAt.Valid {
			t := m.EndedAt.Time
			rm.EndedAt = &t
		}

		var players []struct {
			Handle string        `db:"handle"`
			Result string        `db:"result"`
			Rank   sql.NullInt64 `db:"rank"`
		}
		err := e.db.SelectContext(ctx, &players, `
			SELECT u.handle, mp.result, mp.rank FROM match_players mp
			JOIN users u ON u.id = mp.user_id
			WHERE mp.match_id=$1
			ORDER BY mp.joined_at ASC, mp.id ASC`, m.ID)
		if err != nil {
			return nil, errUnavailable("store unavailable")
		}
		for _, p := range players {
			entry := struct {
				Name   string `json:"name"`
				Result string `json:"result"`
				Rank   *int   `json:"rank,omitempty"`
			}{Name: p.Handle, Result: p.Result}
			if p.Rank.Valid {
				r := int(p.Rank.Int64)
				entry.Rank = &r
			}
			rm.Players = append(rm.Players, entry)
		}
		out = append(out, rm)
	}
	return out, nil
}

// HistoryItem is one row of a player's personal match history
type HistoryItem struct {
	MatchID    int        `db:"match_id" json:"match_id"`
	Status     string     `db:"status" json:"status"`
	Difficulty string     `db:"difficulty" json:"difficulty,omitempty"`
	Width      int        `db:"width" json:"width"`
	Height     int        `db:"height" json:"height"`
	Mines      int        `db:"mines" json:"mines"`
	Result     string     `db:"result" json:"result"`
	Rank       *int       `db:"rank" json:"rank,omitempty"`
	DurationMS *int64     `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	EndedAt    *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// History lists the user's seats newest-first with a compact match summary
func (e *Engine) History(ctx context.Context, userID int) ([]HistoryItem, error) {
	var items []HistoryItem
	err := e.db.SelectContext(ctx, &items, `
		SELECT m.id AS match_id, m.status, COALESCE(m.difficulty, '') AS difficulty,
		       m.width, m.height, m.mines,
		       mp.result, mp.rank, mp.duration_ms,
		       m.created_at, m.ended_at
		FROM match_players mp
		JOIN matches m ON m.id = mp.match_id
		WHERE mp.user_id=$1
		ORDER BY m.created_at DESC
		LIMIT 50`, userID)
	if err != nil {
		return nil, errUnavailable("store unavailable")
	}
	return items, nil
}

// ActiveSession returns the user's unique in-flight seat, if any. The seat
// token is included so a refreshed client can resume its session.
func (e *Engine) ActiveSession(ctx context.Context, userID int) (*SeatSession, error) {
	seat, err := activeSeatFor(e.db, userID)
	if err != nil {
		return nil, errUnavailable("store unavailable")
	}
	if seat == nil {
		return nil, nil
	}

	// The timeout evaluation may retire the match this seat belongs to
	if err := e.evaluateMatch(ctx, seat.MatchID); err != nil {
		if KindOf(err) == KindNotFound {
			return nil, nil
		}
		return nil, err
	}

	var m models.Match
	err = e.db.GetContext(ctx, &m, `SELECT * FROM matches WHERE id=$1`, seat.MatchID)
	if err != nil {
		return nil, errUnavailable("store unavailable")
	}
	if m.Status == models.MatchFinished {
		return nil, nil
	}

	return &SeatSession{
		MatchID:       m.ID,
		PlayerID:      seat.ID,
		PlayerToken:   seat.Token,
		Board:         boardOf(&m),
		Status:        m.Status,
		HostID:        m.HostID,
		CountdownSecs: m.CountdownSecs,
	}, nil
}
