// internal/game/types.go
//
// Core type definitions for the scoring engine.
// Defines:
//   - Tile: one grid cell (letter + decaying point value).
//   - Grid: the ordered tiles of a puzzle, position = index.
//   - Selection: tile indices assigned to the characters of one word.
//   - State: coarse lifecycle of a Game.
//   - Game: one play-out of a word combination over a private copy of the grid.

package game

import "time"

// GridColumns is the row width of the puzzle grid (12 tiles = 3 rows of 4).
const GridColumns = 4

// Tile holds one grid cell.
// Value starts at 1 and changes only through Use.
type Tile struct {
	Letter     string `json:"letter"`     // Single grapheme, upper case.
	Value      int    `json:"value"`      // Current point value (≥1).
	UsageCount int    `json:"usageCount"` // Times the tile has been used.
	ReachedMax bool   `json:"reachedMax"` // Pinned to 1 after the third use.
}

// Grid is the ordered sequence of tiles of one puzzle.
type Grid []Tile

// Selection maps each character of a word to a tile index.
type Selection []int

// State reports where a Game is in its lifecycle.
type State string

const (
	StateNotStarted State = "not_started"
	StatePlaying    State = "playing"
	StateFinished   State = "finished"
	StateFailed     State = "failed"
)

// Game plays one word combination with one concrete selection per word.
// Tiles are a private copy of the grid; a Game is meant to be played once.
type Game struct {
	Words      []string    // The combination, in play order.
	Selections []Selection // One selection per word.

	tiles       Grid
	bonus       Bonus
	bonusActive bool
	state       State
	score       int
	now         func() time.Time
}
