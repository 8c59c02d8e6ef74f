// internal/daily/daily.go
//
// Calendar helpers for the daily puzzle.
//   - DateKey: the puzzle's day, used to name a run's spill directory.
//   - MonthTileIndex: grid position consulted by the month-letter bonus rule.
package daily

import (
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MonthTileIndex returns month-1 for t (local calendar), and whether that index
// lies inside a grid of gridLen tiles.
func MonthTileIndex(t time.Time, gridLen int) (int, bool) {
	idx := int(t.Month()) - 1
	return idx, idx >= 0 && idx < gridLen
}
