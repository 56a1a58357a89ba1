package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmines/backend/internal/board"
	"github.com/playmines/backend/internal/config"
	"github.com/playmines/backend/internal/metrics"
	"github.com/playmines/backend/internal/models"
)

// seqRetryAttempts bounds retries when concurrent steps race for the same seq
const seqRetryAttempts = 3

// seatLockClass namespaces the advisory lock that serializes seat creation
// per user. UNIQUE(match_id, user_id) cannot catch a user racing into two
// different matches, so create and join take this lock before the
// active-session check.
const seatLockClass = 4201

// Engine is the match coordination state machine. Every operation runs in a
// single transaction; the match row is locked FOR UPDATE so step sequencing
// and state transitions serialize per match. Idle and countdown timeouts are
// evaluated lazily inside every transaction that touches a match.
type Engine struct {
	db  *sqlx.DB
	cfg *config.Config
	now func() time.Time
}

func NewEngine(db *sqlx.DB, cfg *config.Config) *Engine {
	return &Engine{db: db, cfg: cfg, now: time.Now}
}

// SeatSession is the envelope returned by create/join and the active-session
// recovery lookup.
type SeatSession struct {
	MatchID       int         `json:"match_id"`
	PlayerID      int         `json:"player_id"`
	PlayerToken   string      `json:"player_token"`
	Board         board.Board `json:"board"`
	Status        string      `json:"status"`
	HostID        int         `json:"host_id"`
	CountdownSecs int         `json:"countdown_secs"`
}

// StartInfo is returned by Start
type StartInfo struct {
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	CountdownSecs int       `json:"countdown_secs"`
}

// FinishResult is returned by Finish
type FinishResult struct {
	Status string `json:"status"`
	Rank   *int   `json:"rank,omitempty"`
}

// newSeatToken issues the per-seat write credential
func newSeatToken() string {
	return uuid.NewString()
}

func boardOf(m *models.Match) board.Board {
	return board.Board{
		Width:      m.Width,
		Height:     m.Height,
		Mines:      m.Mines,
		Seed:       m.Seed,
		Difficulty: m.Difficulty.String,
		SafeStart:  board.Cell{X: m.SafeX, Y: m.SafeY},
	}
}

// withTx runs fn inside a transaction. Domain errors pass through unchanged;
// anything else surfaces as Unavailable after rollback.
func (e *Engine) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Printf("[MATCH] begin tx failed: %v", err)
		return errUnavailable("store unavailable")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		if _, ok := err.(*Error); ok {
			return err
		}
		log.Printf("[MATCH] tx failed: %v", err)
		return errUnavailable("store unavailable")
	}
	if err := tx.Commit(); err != nil {
		log.Printf("[MATCH] commit failed: %v", err)
		return errUnavailable("store unavailable")
	}
	return nil
}

// lockMatch loads the match row FOR UPDATE, serializing all writers on it
func lockMatch(tx *sqlx.Tx, matchID int) (*models.Match, error) {
	var m models.Match
	err := tx.Get(&m, `SELECT * FROM matches WHERE id=$1 FOR UPDATE`, matchID)
	if err == sql.ErrNoRows {
		return nil, errNotFound("match not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// seatByToken resolves the seat a player token authorizes within a match
func seatByToken(tx *sqlx.Tx, matchID int, token string) (*models.MatchPlayer, error) {
	if token == "" {
		return nil, errUnauthorized("player token required")
	}
	var p models.MatchPlayer
	err := tx.Get(&p, `SELECT * FROM match_players WHERE match_id=$1 AND token=$2`, matchID, token)
	if err == sql.ErrNoRows {
		return nil, errUnauthorized("invalid player token")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// seatLockKey is the two-int advisory lock key for a user's seat creation
func seatLockKey(userID int) (int, int) {
	return seatLockClass, userID
}

// lockUserSeats serializes seat creation for a user across all matches. Held
// until the transaction ends, so two concurrent creates (or a create racing a
// join) for the same user cannot both pass the active-session check.
func lockUserSeats(tx *sqlx.Tx, userID int) error {
	class, key := seatLockKey(userID)
	_, err := tx.Exec(`SELECT pg_advisory_xact_lock($1, $2)`, class, key)
	return err
}

// activeSeatFor is the Session Guard predicate: any seat of the user in a
// match whose status is not finished.
func activeSeatFor(q sqlx.Queryer, userID int) (*models.MatchPlayer, error) {
	var p models.MatchPlayer
	err := sqlx.Get(q, &p, `
		SELECT mp.* FROM match_players mp
		JOIN matches m ON m.id = mp.match_id
		WHERE mp.user_id = $1 AND m.status != 'finished'
		ORDER BY mp.joined_at ASC
		LIMIT 1`, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func matchPlayers(tx *sqlx.Tx, matchID int) ([]models.MatchPlayer, error) {
	var players []models.MatchPlayer
	err := tx.Select(&players, `SELECT * FROM match_players WHERE match_id=$1 ORDER BY joined_at ASC, id ASC`, matchID)
	return players, err
}

// Create starts a new pending match hosted by the user
func (e *Engine) Create(ctx context.Context, userID int, difficulty string) (*SeatSession, error) {
	if difficulty == "" {
		difficulty = board.Beginner
	}
	if !board.KnownDifficulty(difficulty) {
		return nil, errBadRequest("unknown difficulty")
	}

	var out *SeatSession
	err := e.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockUserSeats(tx, userID); err != nil {
			return err
		}
		if seat, err := activeSeatFor(tx, userID); err != nil {
			return err
		} else if seat != nil {
			return errAlreadyInMatch("user already in an unfinished match")
		}

		b := board.New(difficulty)
		now := e.now()

		var matchID int
		err := tx.QueryRowx(`
			INSERT INTO matches (status, width, height, mines, seed, difficulty, safe_x, safe_y, host_id, countdown_secs, created_at, last_activity)
			VALUES ('pending', $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			RETURNING id`,
			b.Width, b.Height, b.Mines, b.Seed, difficulty, b.SafeStart.X, b.SafeStart.Y, userID, e.cfg.CountdownSecs, now).Scan(&matchID)
		if err != nil {
			return err
		}

		token := newSeatToken()
		var playerID int
		err = tx.QueryRowx(`
			INSERT INTO match_players (match_id, user_id, token, joined_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, matchID, userID, token, now).Scan(&playerID)
		if err != nil {
			return err
		}

		out = &SeatSession{
			MatchID:       matchID,
			PlayerID:      playerID,
			PlayerToken:   token,
			Board:         b,
			Status:        models.MatchPending,
			HostID:        userID,
			CountdownSecs: e.cfg.CountdownSecs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.MatchesCreated.Inc()
	log.Printf("[MATCH] created match=%d host=%d difficulty=%s seed=%s", out.MatchID, userID, difficulty, out.Board.Seed)
	return out, nil
}

// Join adds the user to a pending match
func (e *Engine) Join(ctx context.Context, matchID, userID int) (*SeatSession, error) {
	var out *SeatSession
	err := e.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if _, err := e.applyTimeouts(tx, m); err != nil {
			return err
		}
		if m.Status != models.MatchPending {
			return errInvalidState("match is not open for joining")
		}

		if err := lockUserSeats(tx, userID); err != nil {
			return err
		}
		if seat, err := activeSeatFor(tx, userID); err != nil {
			return err
		} else if seat != nil {
			return errAlreadyInMatch("user already in an unfinished match")
		}

		players, err := matchPlayers(tx, matchID)
		if err != nil {
			return err
		}
		if len(players) >= e.cfg.MaxPlayersPerMatch {
			return errInvalidState("match is full")
		}

		now := e.now()
		token := newSeatToken()
		var playerID int
		err = tx.QueryRowx(`
			INSERT INTO match_players (match_id, user_id, token, joined_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, matchID, userID, token, now).Scan(&playerID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`UPDATE matches SET last_activity=$1 WHERE id=$2`, now, matchID); err != nil {
			return err
		}

		out = &SeatSession{
			MatchID:       matchID,
			PlayerID:      playerID,
			PlayerToken:   token,
			Board:         boardOf(m),
			Status:        m.Status,
			HostID:        m.HostID,
			CountdownSecs: m.CountdownSecs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[MATCH] user=%d joined match=%d", userID, matchID)
	return out, nil
}

// SetReady toggles a non-host seat's readiness while the match is pending.
// The host's readiness is implicit, so a host call is accepted and ignored.
func (e *Engine) SetReady(ctx context.Context, matchID int, token string, ready bool) error {
	return e.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if _, err := e.applyTimeouts(tx, m); err != nil {
			return err
		}
		seat, err := seatByToken(tx, matchID, token)
		if err != nil {
			return err
		}
		if m.Status != models.MatchPending {
			return errInvalidState("readiness can only change while pending")
		}
		if seat.UserID == m.HostID {
			return nil
		}
		_, err = tx.Exec(`UPDATE match_players SET ready=$1 WHERE id=$2`, ready, seat.ID)
		return err
	})
}

// Start transitions pending -> active. Host only; needs at least two players
// and every non-host ready. started_at is pushed a few seconds into the
// future so clients see the pre-start window; steps are rejected until it
// elapses. A repeated start on an already-active match is idempotent.
func (e *Engine) Start(ctx context.Context, matchID int, token string) (*StartInfo, error) {
	var out *StartInfo
	var transitioned bool
	err := e.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if _, err := e.applyTimeouts(tx, m); err != nil {
			return err
		}
		seat, err := seatByToken(tx, matchID, token)
		if err != nil {
			return err
		}
		if seat.UserID != m.HostID {
			return errUnauthorized("only the host can start the match")
		}

		if m.Status == models.MatchActive {
			out = &StartInfo{Status: m.Status, StartedAt: m.StartedAt.Time, CountdownSecs: m.CountdownSecs}
			return nil
		}
		if m.Status != models.MatchPending {
			return errInvalidState("match cannot be started")
		}

		players, err := matchPlayers(tx, matchID)
		if err != nil {
			return err
		}
		if len(players) < 2 {
			return errInvalidState("need at least two players to start")
		}
		for _, p := range players {
			if p.UserID != m.HostID && !p.Ready {
				return errInvalidState("all players must be ready")
			}
		}

		// last_activity tracks the max of created/started/step/finish times,
		// so the idle window runs from the start of play, not from the
		// pre-start announcement.
		startedAt := e.now().Add(time.Duration(e.cfg.PreStartDelaySecs) * time.Second)
		_, err = tx.Exec(`UPDATE matches SET status='active', started_at=$1, last_activity=$1 WHERE id=$2`,
			startedAt, matchID)
		if err != nil {
			return err
		}
		transitioned = true
		out = &StartInfo{Status: models.MatchActive, StartedAt: startedAt, CountdownSecs: m.CountdownSecs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		metrics.MatchesStarted.Inc()
		log.Printf("[MATCH] match=%d started, play begins at %s", matchID, out.StartedAt.Format(time.RFC3339))
	}
	return out, nil
}

// Leave removes a seat. Allowed while the match is pending or before
// started_at elapses. The sole player leaving deletes the match; a departing
// host hands off to the earliest-joined remaining player.
func (e *Engine) Leave(ctx context.Context, matchID int, token string) error {
	err := e.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if _, err := e.applyTimeouts(tx, m); err != nil {
			return err
		}
		seat, err := seatByToken(tx, matchID, token)
		if err != nil {
			return err
		}

		now := e.now()
		leavable := m.Status == models.MatchPending ||
			(m.Status == models.MatchActive && m.StartedAt.Valid && now.Before(m.StartedAt.Time))
		if !leavable {
			return errInvalidState("cannot leave after play has begun")
		}

		players, err := matchPlayers(tx, matchID)
		if err != nil {
			return err
		}
		if len(players) == 1 {
			// Sole player: the match itself goes away (steps/seats cascade)
			_, err := tx.Exec(`DELETE FROM matches WHERE id=$1`, matchID)
			return err
		}

		if _, err := tx.Exec(`DELETE FROM match_players WHERE id=$1`, seat.ID); err != nil {
			return err
		}

		if m.HostID == seat.UserID {
			// Re-elect host deterministically: earliest-joined remaining player
			for _, p := range players {
				if p.ID != seat.ID {
					if _, err := tx.Exec(`UPDATE matches SET host_id=$1 WHERE id=$2`, p.UserID, matchID); err != nil {
						return err
					}
					break
				}
			}
		}

		_, err = tx.Exec(`UPDATE matches SET last_activity=$1 WHERE id=$2`, now, matchID)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("[MATCH] seat left match=%d", matchID)
	return nil
}

// SubmitStep appends a step to the match's total order. The seq is allocated
// as max(seq)+1 under the match row lock; a unique-violation race is retried
// a bounded number of times before surfacing Conflict.
func (e *Engine) SubmitStep(ctx context.Context, matchID int, token, action string, x, y int, elapsedMS *int) (int, error) {
	switch action {
	case models.ActionReveal, models.ActionFlag, models.ActionChord:
	default:
		return 0, errBadRequest("unknown action")
	}

	var seq int
	var lastErr error
	for attempt := 0; attempt < seqRetryAttempts; attempt++ {
		seq, lastErr = e.trySubmitStep(ctx, matchID, token, action, x, y, elapsedMS)
		if lastErr == nil {
			metrics.StepsRecorded.Inc()
			return seq, nil
		}
		if KindOf(lastErr) != KindConflict {
			return 0, lastErr
		}
	}
	log.Printf("[MATCH] seq allocation exhausted retries: match=%d", matchID)
	return 0, lastErr
}

func (e *Engine) trySubmitStep(ctx context.Context, matchID int, token, action string, x, y int, elapsedMS *int) (int, error) {
	var seq int
	err := e.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if _, err := e.applyTimeouts(tx, m); err != nil {
			return err
		}

		// Resolve the seat first: a bad token is Unauthorized even when the
		// match is no longer active.
		seat, err := seatByToken(tx, matchID, token)
		if err != nil {
			return err
		}

		if m.Status != models.MatchActive {
			return errInvalidState("match is not active")
		}
		now := e.now()
		if !m.StartedAt.Valid || now.Before(m.StartedAt.Time) {
			return errInvalidState("match has not started yet")
		}
		if seat.FinishedAt.Valid {
			return errInvalidState("player already finished")
		}

		if !boardOf(m).Contains(x, y) {
			return errBadRequest("coordinate out of board")
		}

		if err := tx.Get(&seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM match_steps WHERE match_id=$1`, matchID); err != nil {
			return err
		}

		var elapsed sql.NullInt64
		if elapsedMS != nil {
			elapsed = sql.NullInt64{Int64: int64(*elapsedMS), Valid: true}
		}
		_, err = tx.Exec(`
			INSERT INTO match_steps (match_id, player_id, seq, action, x, y, elapsed_ms, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			matchID, seat.ID, seq, action, x, y, elapsed, now)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return errConflict("seq allocation conflict")
			}
			return err
		}

		if _, err := tx.Exec(`UPDATE match_players SET steps_count=steps_count+1 WHERE id=$1`, seat.ID); err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE matches SET last_activity=$1 WHERE id=$2`, now, matchID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Finish records a player's outcome. A repeated finish for an already
// finished seat is a no-op for the caller and never alters rank. A claimed
// win whose progress snapshot does not evidence a full clear is coerced to
// forfeit. When the last open seat finishes, ranks are computed and the
// match closes.
func (e *Engine) Finish(ctx context.Context, matchID int, token, outcome string, durationMS, stepsCount *int, progress json.RawMessage) (*FinishResult, error) {
	switch outcome {
	case models.ResultWin, models.ResultLose, models.ResultDraw, models.ResultForfeit:
	default:
		return nil, errBadRequest("unknown outcome")
	}

	var out *FinishResult
	err := e.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if _, err := e.applyTimeouts(tx, m); err != nil {
			return err
		}
		seat, err := seatByToken(tx, matchID, token)
		if err != nil {
			return err
		}

		if seat.FinishedAt.Valid {
			out = &FinishResult{Status: m.Status}
			if seat.Rank.Valid {
				r := int(seat.Rank.Int64)
				out.Rank = &r
			}
			return nil
		}
		if m.Status != models.MatchActive {
			return errInvalidState("match is not active")
		}

		if outcome == models.ResultWin && !evidencesFullClear(progress, m.Width, m.Height, m.Mines) {
			log.Printf("[MATCH] win without full-clear evidence coerced to forfeit: match=%d player=%d", matchID, seat.ID)
			outcome = models.ResultForfeit
		}

		now := e.now()
		var duration sql.NullInt64
		if durationMS != nil {
			duration = sql.NullInt64{Int64: int64(*durationMS), Valid: true}
		}
		steps := seat.StepsCount
		if stepsCount != nil {
			steps = *stepsCount
		}
		var progressVal sql.NullString
		if len(progress) > 0 {
			progressVal = sql.NullString{String: string(progress), Valid: true}
		}

		_, err = tx.Exec(`
			UPDATE match_players
			SET result=$1, duration_ms=$2, steps_count=$3, finished_at=$4, progress=$5
			WHERE id=$6`,
			outcome, duration, steps, now, progressVal, seat.ID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE matches SET last_activity=$1 WHERE id=$2`, now, matchID); err != nil {
			return err
		}

		players, err := matchPlayers(tx, matchID)
		if err != nil {
			return err
		}
		allDone := true
		for _, p := range players {
			if !p.FinishedAt.Valid {
				allDone = false
				break
			}
		}

		status := models.MatchActive
		if allDone {
			if err := e.finalize(tx, m); err != nil {
				return err
			}
			status = models.MatchFinished
		}

		out = &FinishResult{Status: status}
		if allDone {
			var rank int
			if err := tx.Get(&rank, `SELECT rank FROM match_players WHERE id=$1`, seat.ID); err == nil {
				out.Rank = &rank
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// finalize computes ranks and closes the match. Revealed safe cells come
// from the submitted progress snapshot when present, otherwise from the
// count of distinct revealed coordinates in the step log.
func (e *Engine) finalize(tx *sqlx.Tx, m *models.Match) error {
	players, err := matchPlayers(tx, m.ID)
	if err != nil {
		return err
	}

	revealedBySteps := map[int]int{}
	rows, err := tx.Queryx(`
		SELECT player_id, COUNT(DISTINCT (x, y)) AS revealed
		FROM match_steps
		WHERE match_id=$1 AND action IN ('reveal', 'chord')
		GROUP BY player_id`, m.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var playerID, revealed int
		if err := rows.Scan(&playerID, &revealed); err != nil {
			rows.Close()
			return err
		}
		revealedBySteps[playerID] = revealed
	}
	rows.Close()

	standings := make([]standing, 0, len(players))
	for _, p := range players {
		revealed := revealedBySteps[p.ID]
		if p.Progress.Valid {
			if fromSnapshot := revealedSafeCells([]byte(p.Progress.String)); fromSnapshot >= 0 {
				revealed = fromSnapshot
			}
		}
		duration := int64(1 << 62)
		if p.DurationMS.Valid {
			duration = p.DurationMS.Int64
		}
		finishedAt := m.LastActivity
		if p.FinishedAt.Valid {
			finishedAt = p.FinishedAt.Time
		}
		standings = append(standings, standing{
			PlayerID:   p.ID,
			Result:     p.Result,
			Revealed:   revealed,
			DurationMS: duration,
			StepsCount: p.StepsCount,
			FinishedAt: finishedAt,
		})
	}

	for playerID, rank := range rankStandings(standings) {
		if _, err := tx.Exec(`UPDATE match_players SET rank=$1 WHERE id=$2`, rank, playerID); err != nil {
			return err
		}
	}

	now := e.now()
	if _, err := tx.Exec(`UPDATE matches SET status='finished', ended_at=$1, last_activity=$1 WHERE id=$2`, now, m.ID); err != nil {
		return err
	}
	m.Status = models.MatchFinished

	metrics.MatchesFinished.Inc()
	log.Printf("[MATCH] match=%d finished with %d players", m.ID, len(players))
	return nil
}

// matchExpired reports whether an active match has lapsed its idle window
// (last_activity + idleMinutes) or its countdown (started_at +
// countdown_secs). Pending and finished matches never expire.
func matchExpired(m *models.Match, idleMinutes int, now time.Time) bool {
	if m.Status != models.MatchActive {
		return false
	}
	if now.After(m.LastActivity.Add(time.Duration(idleMinutes) * time.Minute)) {
		return true
	}
	if m.StartedAt.Valid && now.After(m.StartedAt.Time.Add(time.Duration(m.CountdownSecs)*time.Second)) {
		return true
	}
	return false
}

// applyTimeouts is the lazy timeout evaluator. Holding the match lock, it
// force-finishes an active match whose idle window or countdown has lapsed:
// every non-finished seat forfeits, then the normal finalize path runs.
// Returns true when the match transitioned to finished here.
func (e *Engine) applyTimeouts(tx *sqlx.Tx, m *models.Match) (bool, error) {
	if !matchExpired(m, e.cfg.IdleMinutes, e.now()) {
		return false, nil
	}

	if _, err := tx.Exec(`
		UPDATE match_players SET result='forfeit', finished_at=$1
		WHERE match_id=$2 AND finished_at IS NULL`, e.now(), m.ID); err != nil {
		return false, err
	}
	if err := e.finalize(tx, m); err != nil {
		return false, err
	}
	metrics.ForcedFinishes.Inc()
	log.Printf("[MATCH] match=%d force-finished (idle or countdown elapsed)", m.ID)
	return true, nil
}

// SweepExpired force-finishes every overdue active match. Used by the
// background reaper; the lazy evaluator makes this an optimization, not a
// correctness requirement.
func (e *Engine) SweepExpired(ctx context.Context) (int, error) {
	var ids []int
	err := e.db.SelectContext(ctx, &ids, `
		SELECT id FROM matches
		WHERE status = 'active'
		  AND (last_activity + make_interval(mins => $1) < NOW()
		       OR started_at + make_interval(secs => countdown_secs) < NOW())`,
		e.cfg.IdleMinutes)
	if err != nil {
		return 0, fmt.Errorf("scan for expired matches: %w", err)
	}

	swept := 0
	for _, id := range ids {
		err := e.withTx(ctx, func(tx *sqlx.Tx) error {
			m, err := lockMatch(tx, id)
			if err != nil {
				return err
			}
			_, err = e.applyTimeouts(tx, m)
			return err
		})
		if err != nil {
			// A racing request may have deleted or finished it already
			if KindOf(err) == KindNotFound {
				continue
			}
			log.Printf("[MATCH] sweep of match=%d failed: %v", id, err)
			continue
		}
		swept++
	}
	return swept, nil
}
