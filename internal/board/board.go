package board

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
)

// Difficulty names recognized by the service
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Expert       = "expert"
)

// Preset is the fixed (width, height, mines) tuple for a named difficulty
type Preset struct {
	Width  int
	Height int
	Mines  int
}

var presets = map[string]Preset{
	Beginner:     {Width: 9, Height: 9, Mines: 10},
	Intermediate: {Width: 20, Height: 20, Mines: 50},
	Expert:       {Width: 20, Height: 20, Mines: 99},
}

// PresetFor returns the preset for a difficulty name. Unknown names fall back
// to beginner so a bad client value never produces an unplayable board.
func PresetFor(difficulty string) Preset {
	if p, ok := presets[difficulty]; ok {
		return p
	}
	return presets[Beginner]
}

// KnownDifficulty reports whether the name maps to a preset.
func KnownDifficulty(difficulty string) bool {
	_, ok := presets[difficulty]
	return ok
}

// Cell is a board coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board is the descriptor both players agree on at create time. Given
// (width, height, mines, seed) any client reproduces the identical mine
// layout, with the safe-start cell and its 8-neighborhood kept clear on the
// first reveal. The server only stores and serves the tuple.
type Board struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Mines      int    `json:"mines"`
	Seed       string `json:"seed"`
	Difficulty string `json:"difficulty,omitempty"`
	SafeStart  Cell   `json:"-"`
}

// MarshalJSON emits the safe-start cell under both snake_case and camelCase
// keys so mixed-case clients round-trip it.
func (b Board) MarshalJSON() ([]byte, error) {
	type alias Board
	return json.Marshal(struct {
		alias
		SafeStart  Cell `json:"safe_start"`
		SafeStartC Cell `json:"safeStart"`
	}{alias(b), b.SafeStart, b.SafeStart})
}

// UnmarshalJSON accepts safe_start under either key name.
func (b *Board) UnmarshalJSON(data []byte) error {
	type alias Board
	var aux struct {
		alias
		SafeStart  *Cell `json:"safe_start"`
		SafeStartC *Cell `json:"safeStart"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Board(aux.alias)
	if aux.SafeStart != nil {
		b.SafeStart = *aux.SafeStart
	} else if aux.SafeStartC != nil {
		b.SafeStart = *aux.SafeStartC
	}
	return nil
}

// NewSeed generates a short opaque seed string (8 random bytes, hex encoded)
func NewSeed() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// SafeStart derives the required first-reveal cell deterministically from the
// seed. The cell is interior (not on the border) whenever the board is at
// least 3x3, so the safe 8-neighborhood fits on the board.
func SafeStart(seed string, width, height int) Cell {
	sum := sha256.Sum256([]byte(seed))
	hx := binary.BigEndian.Uint64(sum[0:8])
	hy := binary.BigEndian.Uint64(sum[8:16])

	if width >= 3 && height >= 3 {
		return Cell{
			X: 1 + int(hx%uint64(width-2)),
			Y: 1 + int(hy%uint64(height-2)),
		}
	}
	return Cell{
		X: int(hx % uint64(width)),
		Y: int(hy % uint64(height)),
	}
}

// New builds the full board descriptor for a difficulty with a fresh seed
func New(difficulty string) Board {
	p := PresetFor(difficulty)
	seed := NewSeed()
	return Board{
		Width:      p.Width,
		Height:     p.Height,
		Mines:      p.Mines,
		Seed:       seed,
		Difficulty: difficulty,
		SafeStart:  SafeStart(seed, p.Width, p.Height),
	}
}

// Contains reports whether (x, y) lies inside the board
func (b Board) Contains(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}
