// internal/selection/generator.go
//
// Enumerates what the scoring engine plays.
// Responsibilities:
//   - SelectionsFor: every way a word's letters map onto distinct grid tiles,
//     computed once per word and cached.
//   - SpillCombinations: every ordered k-permutation of the word pool, written to a
//     spill stream instead of being held in memory.
//   - Games: the lazy cross-product of per-word selections for one combination.
//
// Notes:
//   - An empty selection list means the word cannot be laid on this grid. That is not
//     an error; any combination containing the word yields no games.
//   - Selection order follows the grid order of each letter's candidate tiles, the
//     last letter varying fastest.
package selection

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/robalobadob/slovosled/internal/combin"
	"github.com/robalobadob/slovosled/internal/game"
	"github.com/robalobadob/slovosled/internal/store"
)

// DefaultSize is the number of words in one combination.
const DefaultSize = 5

var (
	// ErrInvalidSize is returned for a combination size below 1.
	ErrInvalidSize = errors.New("selection: invalid combination size")
	// ErrBadCombination is returned for word indices outside the pool or repeated.
	ErrBadCombination = errors.New("selection: bad combination")
)

// Option configures a Generator.
type Option func(*Generator)

// Logger sets the logger.
func Logger(l zerolog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// Generator holds the grid, the word pool and the per-word selection cache.
// It is not safe for concurrent use.
type Generator struct {
	grid  game.Grid
	words []string
	log   zerolog.Logger
	cache map[string][]game.Selection
}

// New returns a generator for words on grid.
func New(grid game.Grid, words []string, opts ...Option) *Generator {
	g := &Generator{
		grid:  grid,
		words: words,
		log:   zerolog.Nop(),
		cache: make(map[string][]game.Selection, len(words)),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Words returns the word pool; combination indices refer to it.
func (g *Generator) Words() []string { return g.words }

// Grid returns the grid selections index into.
func (g *Generator) Grid() game.Grid { return g.grid }

// SelectionsFor returns every distinct-tile selection for word.
func (g *Generator) SelectionsFor(word string) []game.Selection {
	if sels, ok := g.cache[word]; ok {
		return sels
	}
	sels := g.selections(word)
	g.cache[word] = sels
	return sels
}

func (g *Generator) selections(word string) []game.Selection {
	var perLetter [][]int
	for _, r := range word {
		perLetter = append(perLetter, g.grid.IndicesOf(string(r)))
	}
	if len(perLetter) == 0 {
		return nil
	}

	var out []game.Selection
	candidates := func(depth int) []int { return perLetter[depth] }
	// visit never fails, so Walk cannot return an error here.
	_ = combin.Walk(len(g.grid), nil, candidates, func(p []int) (bool, error) {
		if len(p) < len(perLetter) {
			return true, nil
		}
		out = append(out, append(game.Selection(nil), p...))
		return false, nil
	})
	return out
}

// SelectionsForAll fills the cache for the whole pool and returns it.
// Unplayable words are logged and kept with an empty list.
func (g *Generator) SelectionsForAll() map[string][]game.Selection {
	out := make(map[string][]game.Selection, len(g.words))
	total := 0
	for _, w := range g.words {
		sels := g.SelectionsFor(w)
		out[w] = sels
		total += len(sels)
		if len(sels) == 0 {
			g.log.Warn().Str("word", w).Msg("word cannot be placed on the grid")
			continue
		}
		g.log.Debug().Str("word", w).Int("selections", len(sels)).Msg("word selections")
	}
	g.log.Info().Int("words", len(g.words)).Int("selections", total).Msg("generated word selections")
	return out
}

// CombinationCount returns how many ordered combinations of size words the pool has.
func (g *Generator) CombinationCount(size int) int64 {
	return combin.Permutations(len(g.words), size)
}

// SpillCombinations appends every ordered size-permutation of word indices to st
// and returns how many were written. Records are buffered by st; the caller flushes.
func (g *Generator) SpillCombinations(st *store.Stream, size int) (int64, error) {
	if size < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	all := combin.Range(len(g.words))
	var n int64
	err := combin.Walk(len(g.words), nil, func(int) []int { return all }, func(p []int) (bool, error) {
		if len(p) < size {
			return true, nil
		}
		if err := st.Append(store.EncodeIndices(p)); err != nil {
			return false, err
		}
		n++
		return false, nil
	})
	if err != nil {
		return n, fmt.Errorf("spill combinations: %w", err)
	}
	g.log.Info().
		Str("combinations", humanize.Comma(n)).
		Int("size", size).
		Int("words", len(g.words)).
		Msg("spilled word combinations")
	return n, nil
}

// Games returns the lazy cross-product of selections for the words at indices.
func (g *Generator) Games(indices []int) (*Games, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= len(g.words) {
			return nil, fmt.Errorf("%w: index %d outside %d words", ErrBadCombination, idx, len(g.words))
		}
	}
	if !combin.Distinct(indices) {
		return nil, fmt.Errorf("%w: %v repeats a word", ErrBadCombination, indices)
	}
	it := &Games{
		indices: indices,
		words:   make([]string, len(indices)),
		lists:   make([][]game.Selection, len(indices)),
		sels:    make([]game.Selection, len(indices)),
	}
	sizes := make([]int, len(indices))
	for i, idx := range indices {
		it.words[i] = g.words[idx]
		it.lists[i] = g.SelectionsFor(it.words[i])
		sizes[i] = len(it.lists[i])
	}
	it.prod = combin.NewProduct(sizes)
	return it, nil
}

// Games iterates the concrete selection assignments of one word combination.
//
//	it, _ := gen.Games([]int{0, 3, 1})
//	for it.Next() {
//		play(it.Words(), it.Selections())
//	}
type Games struct {
	indices []int
	words   []string
	lists   [][]game.Selection
	prod    *combin.Product
	sels    []game.Selection
}

// Next advances to the next assignment.
func (it *Games) Next() bool {
	if !it.prod.Next() {
		return false
	}
	for i, j := range it.prod.Indices() {
		it.sels[i] = it.lists[i][j]
	}
	return true
}

// Indices returns the word indices of the combination.
func (it *Games) Indices() []int { return it.indices }

// Words returns the words of the combination, in play order.
func (it *Games) Words() []string { return it.words }

// Selections returns the current assignment, one selection per word.
// The slice is reused by Next; copy it to retain it.
func (it *Games) Selections() []game.Selection { return it.sels }

// Size returns how many assignments the combination has.
func (it *Games) Size() int64 { return it.prod.Size() }
