package solver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/slovosled/internal/cracker"
	"github.com/robalobadob/slovosled/internal/game"
	"github.com/robalobadob/slovosled/internal/puzzle"
	"github.com/robalobadob/slovosled/internal/store"
	"github.com/robalobadob/slovosled/internal/words"
)

var sampleWords = []string{"HUPY", "LIPA", "LUPA", "LUPY", "PILA", "PLUH", "ŠUPA"}

func clock() time.Time { return time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC) }

type fixture struct {
	puzzle  *puzzle.Puzzle
	store   *store.Store
	cracker *cracker.Cracker
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	p, err := puzzle.Load("")
	require.NoError(t, err)
	st, err := store.Open(t.TempDir(), store.Threshold(500))
	require.NoError(t, err)
	algo, err := cracker.Lookup(cracker.DefaultAlgorithm)
	require.NoError(t, err)
	return fixture{
		puzzle:  p,
		store:   st,
		cracker: cracker.New(algo, cracker.Lengths(3, 4), cracker.Workers(4)),
	}
}

func (f fixture) config() Config {
	return Config{
		Puzzle:  f.puzzle,
		Store:   f.store,
		Cracker: f.cracker,
		Clock:   clock,
		Logger:  zerolog.Nop(),
	}
}

func lastRecord(t *testing.T, st *store.Stream) string {
	t.Helper()
	r, err := st.ReadAll()
	require.NoError(t, err)
	defer r.Close()
	var last string
	for r.Next() {
		last = r.Record()
	}
	require.NoError(t, r.Err())
	return last
}

func TestRunSamplePuzzle(t *testing.T) {
	f := newFixture(t)
	var updates []Progress
	cfg := f.config()
	cfg.OnProgress = func(p Progress) { updates = append(updates, p) }
	s := New(cfg)

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	found, pool := s.Words()
	assert.Equal(t, sampleWords, found)
	assert.Len(t, pool, 7, "one 4-letter group below the minimum")

	snap := s.Snapshot()
	assert.Equal(t, PhaseDone, snap.Phase)
	assert.Equal(t, int64(7*6*5*4*3), snap.Total)
	assert.Equal(t, snap.Total, snap.Current)
	assert.Equal(t, int64(100), snap.Percent)
	assert.Positive(t, snap.Games)
	assert.Equal(t, res.Score, snap.BestScore)
	assert.Same(t, res, s.Best())
	require.NotEmpty(t, updates)
	assert.Equal(t, PhaseDone, updates[len(updates)-1].Phase)

	require.Len(t, res.Words, 5)
	require.Len(t, res.Selections, 5)
	for i, idx := range res.Indices {
		assert.Equal(t, pool[idx], res.Words[i])
	}

	// The best game replays to the same score on a fresh game.
	g, err := game.New(f.puzzle.Grid, f.puzzle.Bonus, res.Words, res.Selections, game.WithClock(clock))
	require.NoError(t, err)
	score, err := g.Play()
	require.NoError(t, err)
	assert.Equal(t, res.Score, score)

	ws, err := f.store.Stream(store.WordCombinations)
	require.NoError(t, err)
	assert.Equal(t, store.EncodeWords(res.Words), lastRecord(t, ws))

	ss, err := f.store.Stream(store.SelectionCombinations)
	require.NoError(t, err)
	idx, sels, err := store.DecodeSelectionCombination(lastRecord(t, ss))
	require.NoError(t, err)
	assert.Equal(t, res.Indices, idx)
	assert.Len(t, sels, 5)
}

func TestRunUsesWordsCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "words.txt")

	f := newFixture(t)
	cfg := f.config()
	cfg.WordsCacheFile = cache
	first, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, f.cracker.Tested())

	g := newFixture(t)
	cfg = g.config()
	cfg.WordsCacheFile = cache
	s := New(cfg)
	second, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, g.cracker.Tested(), "cached words skip cracking")
	assert.Equal(t, first.Score, second.Score)

	found, _ := s.Words()
	assert.Equal(t, sampleWords, found)
}

func TestRunIgnoresStaleWordsCache(t *testing.T) {
	for name, key := range map[string]func(f fixture) string{
		"other puzzle": func(fixture) string { return "" },
		"foreign word": func(f fixture) string {
			return cracker.Fingerprint(f.cracker.Algorithm(), f.puzzle.Targets())
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			cache := filepath.Join(t.TempDir(), "words.txt")
			require.NoError(t, words.WriteCache(cache, words.Cache{Key: key(f), Words: []string{"KOLO", "MAMA", "PES"}}))

			cfg := f.config()
			cfg.WordsCacheFile = cache
			s := New(cfg)
			res, err := s.Run(context.Background())
			require.NoError(t, err)

			assert.Positive(t, f.cracker.Tested(), "stale cache is cracked again")
			found, _ := s.Words()
			assert.Equal(t, sampleWords, found)
			assert.Positive(t, res.Score)

			rewritten, err := words.ReadCache(cache)
			require.NoError(t, err)
			assert.Equal(t, sampleWords, rewritten.Words)
			assert.Equal(t, cracker.Fingerprint(f.cracker.Algorithm(), f.puzzle.Targets()), rewritten.Key)
		})
	}
}

func TestRunSmallPoolHasNoCombinations(t *testing.T) {
	f := newFixture(t)
	cfg := f.config()
	cfg.CombinationSize = 8
	s := New(cfg)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Score)
	assert.Empty(t, res.Words)
	assert.Nil(t, s.Best())
	assert.Zero(t, s.Snapshot().Total)
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(f.config())
	_, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseFailed, s.Snapshot().Phase)
}

func TestProgressString(t *testing.T) {
	p := Progress{Phase: PhasePlaying, Current: 1250, Total: 2520, Percent: 49, Games: 12345, BestScore: 80}
	assert.Equal(t, "playing 49% (1,250/2,520 combinations, 12,345 games, best 80)", p.String())
}
