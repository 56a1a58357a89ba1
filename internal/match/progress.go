package match

import "encoding/json"

// progressSnapshot is the subset of the client's opaque progress blob the
// server inspects. The blob is stored verbatim; only the win-coercion
// heuristic and ranking parse it, and both tolerate missing fields.
type progressSnapshot struct {
	Board struct {
		Status string           `json:"status"`
		Cells  [][]progressCell `json:"cells"`
	} `json:"board"`
}

type progressCell struct {
	Revealed bool `json:"revealed"`
	Mine     bool `json:"mine"`
}

// revealedSafeCells counts revealed non-mine cells in a progress snapshot.
// Returns -1 when the blob carries no usable board.
func revealedSafeCells(raw []byte) int {
	if len(raw) == 0 {
		return -1
	}
	var snap progressSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return -1
	}
	if len(snap.Board.Cells) == 0 {
		return -1
	}
	count := 0
	for _, row := range snap.Board.Cells {
		for _, cell := range row {
			if cell.Revealed && !cell.Mine {
				count++
			}
		}
	}
	return count
}

// evidencesFullClear reports whether a progress snapshot shows every safe
// cell revealed for a board of the given dimensions. The server never
// replays the game; this is a mild anti-cheat on the submitted snapshot, not
// a security boundary.
func evidencesFullClear(raw []byte, width, height, mines int) bool {
	revealed := revealedSafeCells(raw)
	if revealed < 0 {
		return false
	}
	return revealed >= width*height-mines
}
