package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	assert.Equal(t, "2024-03-13", DateKey(time.Date(2024, time.March, 14, 0, 30, 0, 0, loc)), "keyed in UTC")
	assert.Equal(t, "2024-03-14", DateKey(time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)))
}

func TestMonthTileIndex(t *testing.T) {
	idx, ok := MonthTileIndex(time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), 12)
	assert.Equal(t, 9, idx)
	assert.True(t, ok)

	idx, ok = MonthTileIndex(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 9)
	assert.Equal(t, 11, idx)
	assert.False(t, ok, "grid smaller than the month number")
}
