package models

import (
	"database/sql"
	"time"
)

// Match status values
const (
	MatchPending  = "pending"
	MatchActive   = "active"
	MatchFinished = "finished"
)

// Player result values
const (
	ResultNone    = "none"
	ResultWin     = "win"
	ResultLose    = "lose"
	ResultDraw    = "draw"
	ResultForfeit = "forfeit"
)

// Step action values
const (
	ActionReveal = "reveal"
	ActionFlag   = "flag"
	ActionChord  = "chord"
)

// User represents a registered account
type User struct {
	ID           int       `db:"id" json:"id"`
	Handle       string    `db:"handle" json:"handle"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Match represents a shared game session with a fixed board descriptor
type Match struct {
	ID            int            `db:"id" json:"id"`
	Status        string         `db:"status" json:"status"`
	Width         int            `db:"width" json:"width"`
	Height        int            `db:"height" json:"height"`
	Mines         int            `db:"mines" json:"mines"`
	Seed          string         `db:"seed" json:"seed"`
	Difficulty    sql.NullString `db:"difficulty" json:"difficulty,omitempty"`
	SafeX         int            `db:"safe_x" json:"-"`
	SafeY         int            `db:"safe_y" json:"-"`
	HostID        int            `db:"host_id" json:"host_id"`
	CountdownSecs int            `db:"countdown_secs" json:"countdown_secs"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	StartedAt     sql.NullTime   `db:"started_at" json:"started_at,omitempty"`
	EndedAt       sql.NullTime   `db:"ended_at" json:"ended_at,omitempty"`
	LastActivity  time.Time      `db:"last_activity" json:"-"`
}

// MatchPlayer represents one seat in a match, identified by a per-seat token
// issued at create/join and required on writes for that seat.
type MatchPlayer struct {
	ID         int            `db:"id" json:"id"`
	MatchID    int            `db:"match_id" json:"match_id"`
	UserID     int            `db:"user_id" json:"user_id"`
	Token      string         `db:"token" json:"-"`
	Ready      bool           `db:"ready" json:"ready"`
	Result     string         `db:"result" json:"result"`
	DurationMS sql.NullInt64  `db:"duration_ms" json:"duration_ms,omitempty"`
	StepsCount int            `db:"steps_count" json:"steps_count"`
	FinishedAt sql.NullTime   `db:"finished_at" json:"finished_at,omitempty"`
	Rank       sql.NullInt64  `db:"rank" json:"rank,omitempty"`
	Progress   sql.NullString `db:"progress" json:"-"`
	JoinedAt   time.Time      `db:"joined_at" json:"joined_at"`
}

// MatchStep is an append-only log entry in the match's total order
type MatchStep struct {
	ID        int           `db:"id" json:"id"`
	MatchID   int           `db:"match_id" json:"match_id"`
	PlayerID  int           `db:"player_id" json:"player_id"`
	Seq       int           `db:"seq" json:"seq"`
	Action    string        `db:"action" json:"action"`
	X         int           `db:"x" json:"x"`
	Y         int           `db:"y" json:"y"`
	ElapsedMS sql.NullInt64 `db:"elapsed_ms" json:"elapsed_ms,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is a user's best time for a difficulty
type LeaderboardEntry struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	Difficulty string    `db:"difficulty" json:"difficulty"`
	TimeMS     int       `db:"time_ms" json:"time_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// LeaderboardReplay holds the replay blob for a top-N entry
type LeaderboardReplay struct {
	EntryID   int       `db:"entry_id" json:"entry_id"`
	BoardJSON string    `db:"board_json" json:"board_json"`
	StepsJSON string    `db:"steps_json" json:"steps_json"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
