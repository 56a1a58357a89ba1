package match

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// snapshotJSON builds a progress blob with the given counts of revealed safe
// cells, hidden safe cells and revealed mines, one cell per row.
func snapshotJSON(revealedSafe, hiddenSafe, revealedMines int) []byte {
	rows := ""
	add := func(revealed, mine bool, n int) {
		for i := 0; i < n; i++ {
			if rows != "" {
				rows += ","
			}
			rows += fmt.Sprintf(`[{"revealed":%t,"mine":%t}]`, revealed, mine)
		}
	}
	add(true, false, revealedSafe)
	add(false, false, hiddenSafe)
	add(true, true, revealedMines)
	return []byte(fmt.Sprintf(`{"board":{"status":"done","cells":[%s]}}`, rows))
}

func TestRevealedSafeCells(t *testing.T) {
	assert.Equal(t, 5, revealedSafeCells(snapshotJSON(5, 3, 1)))
	assert.Equal(t, 0, revealedSafeCells(snapshotJSON(0, 4, 0)))
}

func TestRevealedSafeCellsUnusableBlob(t *testing.T) {
	assert.Equal(t, -1, revealedSafeCells(nil))
	assert.Equal(t, -1, revealedSafeCells([]byte(`not json`)))
	assert.Equal(t, -1, revealedSafeCells([]byte(`{"board":{}}`)))
	assert.Equal(t, -1, revealedSafeCells([]byte(`{"other":true}`)))
}

func TestEvidencesFullClear(t *testing.T) {
	// 3x3 board with 2 mines: 7 safe cells
	assert.True(t, evidencesFullClear(snapshotJSON(7, 0, 0), 3, 3, 2))
	assert.False(t, evidencesFullClear(snapshotJSON(6, 1, 0), 3, 3, 2))
	assert.False(t, evidencesFullClear(nil, 3, 3, 2))
}

func TestProgressSnapshotToleratesExtraFields(t *testing.T) {
	blob := []byte(`{
		"board": {
			"status": "playing",
			"flags": 4,
			"cells": [[{"revealed":true,"mine":false,"adjacent":2}]]
		},
		"timer_ms": 1234
	}`)
	assert.Equal(t, 1, revealedSafeCells(blob))

	var check map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(blob, &check))
}
