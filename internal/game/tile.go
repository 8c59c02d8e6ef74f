package game

import (
	"strconv"
	"strings"
)

// maxUses is the use after which a tile is pinned to value 1.
const maxUses = 3

// NewTile returns an unused tile with value 1.
func NewTile(letter string) Tile {
	return Tile{Letter: strings.ToUpper(letter), Value: 1}
}

// Use records one use of the tile.
// The value grows by one on each of the first two uses; the third use pins it to 1
// for good.
func (t *Tile) Use() {
	t.UsageCount++
	if t.UsageCount <= maxUses && !t.ReachedMax {
		t.Value++
	}
	if t.UsageCount == maxUses {
		t.ReachedMax = true
		t.Value = 1
	}
}

// String renders the tile as letter(value).
func (t Tile) String() string {
	var b strings.Builder
	b.WriteString(t.Letter)
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(t.Value))
	b.WriteByte(')')
	return b.String()
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	copy(out, g)
	return out
}

// Letters returns the letter of every tile in grid order.
func (g Grid) Letters() []string {
	out := make([]string, len(g))
	for i, t := range g {
		out[i] = t.Letter
	}
	return out
}

// IndicesOf returns the positions of the tiles carrying letter, ascending.
func (g Grid) IndicesOf(letter string) []int {
	var out []int
	for i, t := range g {
		if t.Letter == letter {
			out = append(out, i)
		}
	}
	return out
}

// NewGrid builds a fresh grid (every tile unused, value 1) from letters.
func NewGrid(letters ...string) Grid {
	g := make(Grid, len(letters))
	for i, l := range letters {
		g[i] = NewTile(l)
	}
	return g
}
