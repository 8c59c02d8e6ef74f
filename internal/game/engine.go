// internal/game/engine.go
//
// Scoring engine for a single play-out of a word combination.
// Responsibilities:
//   - Create games over a private deep copy of the grid.
//   - Play each word in order: check bonus activation, sum current tile values while
//     using the tiles, multiply by word length, add the bonus score.
//   - Track state transitions: not_started → playing → finished (or failed).
//
// Notes:
//   - Bonus activation is evaluated once per word, before the word is scored, and
//     never turns off again.
//   - A Game is single-use. Playing it again replays over the tiles the first play
//     already decayed and yields a different score; Score() keeps the first result.
package game

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

var (
	// ErrSelectionMismatch signals words and selections that do not line up.
	ErrSelectionMismatch = errors.New("game: selections do not match words")
	// ErrGameFailed is returned by Play on a game whose earlier play failed.
	ErrGameFailed = errors.New("game: play failed earlier")
)

// Option configures a Game.
type Option func(*Game)

// WithClock replaces time.Now for the month-letter bonus rule.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// Board is a validated grid and bonus that games are created from.
// Validating once keeps the per-game cost to the selection checks.
type Board struct {
	grid  Grid
	bonus Bonus
}

// NewBoard validates bonus and returns a board over grid.
func NewBoard(grid Grid, bonus Bonus) (*Board, error) {
	if err := bonus.Validate(); err != nil {
		return nil, err
	}
	return &Board{grid: grid, bonus: bonus}, nil
}

// New constructs a game for words with one selection per word.
// The grid is deep-copied; the board's grid is never mutated.
func (b *Board) New(words []string, selections []Selection, opts ...Option) (*Game, error) {
	if len(words) != len(selections) {
		return nil, fmt.Errorf("%w: %d words, %d selections", ErrSelectionMismatch, len(words), len(selections))
	}
	for i, w := range words {
		if utf8.RuneCountInString(w) != len(selections[i]) {
			return nil, fmt.Errorf("%w: %q has selection %v", ErrSelectionMismatch, w, selections[i])
		}
		for _, idx := range selections[i] {
			if idx < 0 || idx >= len(b.grid) {
				return nil, fmt.Errorf("%w: %q selects tile %d of %d", ErrSelectionMismatch, w, idx, len(b.grid))
			}
		}
	}
	g := &Game{
		Words:      words,
		Selections: selections,
		tiles:      b.grid.Clone(),
		bonus:      b.bonus,
		state:      StateNotStarted,
		now:        time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// New constructs a single game; see Board.New.
func New(grid Grid, bonus Bonus, words []string, selections []Selection, opts ...Option) (*Game, error) {
	b, err := NewBoard(grid, bonus)
	if err != nil {
		return nil, err
	}
	return b.New(words, selections, opts...)
}

// Play scores every word in order and returns the total.
// The first call fixes Score(); later calls replay over the decayed tiles.
// A play that fails leaves the game failed for good.
func (g *Game) Play() (int, error) {
	if g.state == StateFailed {
		return 0, ErrGameFailed
	}
	replay := g.state == StateFinished
	g.state = StatePlaying

	total := 0
	for i, word := range g.Words {
		if !g.bonusActive {
			g.bonusActive = g.bonus.Matches(g.tiles)
		}

		sum := 0
		for _, idx := range g.Selections[i] {
			t := &g.tiles[idx]
			sum += t.Value
			t.Use()
		}

		bonusScore := 0
		if g.bonusActive {
			var err error
			if bonusScore, err = g.bonus.Score(word, g.tiles, g.now()); err != nil {
				g.state = StateFailed
				return 0, err
			}
		}

		wordScore := sum*utf8.RuneCountInString(word) + bonusScore
		log.Trace().
			Str("word", word).
			Ints("selection", g.Selections[i]).
			Int("score", wordScore).
			Bool("bonus", g.bonusActive).
			Msg("word scored")
		total += wordScore
	}

	g.state = StateFinished
	if !replay {
		g.score = total
	}
	return total, nil
}

// Score returns the result of the first Play.
func (g *Game) Score() int { return g.score }

// State reports the lifecycle state.
func (g *Game) State() State { return g.state }

// BonusActive reports whether the bonus pattern has matched.
func (g *Game) BonusActive() bool { return g.bonusActive }

// Tiles returns the game's private tiles.
func (g *Game) Tiles() Grid { return g.tiles }
