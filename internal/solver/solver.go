// internal/solver/solver.go
//
// One end-to-end solving run over a puzzle.
//
// Pipeline:
//  1. cracking   recover the words from the published digests (or reuse the words cache)
//  2. selecting  pick the word pool and compute every word's tile selections
//  3. spilling   write every ordered combination of the pool to the spill store
//  4. playing    stream the combinations back; play every selection assignment of each
//                on a fresh game and keep the best
//
// Observers poll Snapshot() or receive OnProgress callbacks; both see monotonic
// counters. Every improvement of the best score is appended to the word-combinations
// and words-selection-combinations streams.
//
// The context is checked between phases and between combinations. The cracking phase
// itself always runs to completion.
package solver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/robalobadob/slovosled/internal/cracker"
	"github.com/robalobadob/slovosled/internal/game"
	"github.com/robalobadob/slovosled/internal/puzzle"
	"github.com/robalobadob/slovosled/internal/selection"
	"github.com/robalobadob/slovosled/internal/store"
	"github.com/robalobadob/slovosled/internal/words"
)

// Phase names a pipeline stage.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseCracking  Phase = "cracking"
	PhaseSelecting Phase = "selecting"
	PhaseSpilling  Phase = "spilling"
	PhasePlaying   Phase = "playing"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

// Config wires a Solver. Puzzle, Store and Cracker are required.
type Config struct {
	Puzzle  *puzzle.Puzzle
	Store   *store.Store
	Cracker *cracker.Cracker

	PoolMinWords    int
	PoolMaxWords    int
	CombinationSize int
	WordsCacheFile  string

	Clock      func() time.Time
	Logger     zerolog.Logger
	OnProgress func(Progress)
}

// Progress is a point-in-time view of a run.
type Progress struct {
	Phase     Phase `json:"phase"`
	Current   int64 `json:"current"`
	Total     int64 `json:"total"`
	Percent   int64 `json:"percent"`
	Games     int64 `json:"games"`
	BestScore int   `json:"bestScore"`
}

// Result is the best game found.
type Result struct {
	Score      int              `json:"score"`
	Words      []string         `json:"words"`
	Indices    []int            `json:"indices"`
	Selections []game.Selection `json:"selections"`
}

// Solver runs the pipeline once.
type Solver struct {
	cfg Config
	log zerolog.Logger

	current atomic.Int64
	total   atomic.Int64
	games   atomic.Int64

	mu    sync.RWMutex // guards phase, found, pool, best
	phase Phase
	found []string
	pool  []string
	best  *Result
}

// New returns a solver for cfg, filling defaults for zero values.
func New(cfg Config) *Solver {
	if cfg.PoolMinWords <= 0 {
		cfg.PoolMinWords = words.DefaultMinWords
	}
	if cfg.PoolMaxWords <= 0 {
		cfg.PoolMaxWords = words.DefaultMaxWords
	}
	if cfg.CombinationSize <= 0 {
		cfg.CombinationSize = selection.DefaultSize
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Solver{cfg: cfg, log: cfg.Logger, phase: PhaseIdle}
}

// Run executes the pipeline and returns the best game.
// A run where no combination is playable returns a zero Result.
func (s *Solver) Run(ctx context.Context) (*Result, error) {
	res, err := s.run(ctx)
	if err != nil {
		s.setPhase(PhaseFailed)
		return nil, err
	}
	s.setPhase(PhaseDone)
	return res, nil
}

func (s *Solver) run(ctx context.Context) (*Result, error) {
	p := s.cfg.Puzzle
	start := time.Now()

	s.setPhase(PhaseCracking)
	found, err := s.crack()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.setPhase(PhaseSelecting)
	pool, groups := words.SelectPool(found, s.cfg.PoolMinWords, s.cfg.PoolMaxWords)
	for _, g := range groups {
		s.log.Info().Int("words", len(g.Words)).Int("length", g.Length).Msg("selected words")
	}
	s.log.Info().Int("words", len(pool)).Msg("selected words for games")
	s.mu.Lock()
	s.pool = pool
	s.mu.Unlock()

	gen := selection.New(p.Grid, pool, selection.Logger(s.log))
	gen.SelectionsForAll()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.setPhase(PhaseSpilling)
	combos, err := s.cfg.Store.Stream(store.WordIndexCombinations)
	if err != nil {
		return nil, err
	}
	s.total.Store(gen.CombinationCount(s.cfg.CombinationSize))
	if _, err := gen.SpillCombinations(combos, s.cfg.CombinationSize); err != nil {
		return nil, err
	}
	if err := combos.Flush(); err != nil {
		return nil, err
	}

	s.setPhase(PhasePlaying)
	res, err := s.play(ctx, gen, combos)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("score", res.Score).
		Strs("words", res.Words).
		Str("games", humanize.Comma(s.games.Load())).
		Dur("took", time.Since(start)).
		Msg("solving finished")
	return res, nil
}

// crack returns the puzzle's words, from the cache when it belongs to this puzzle.
func (s *Solver) crack() ([]string, error) {
	p := s.cfg.Puzzle
	targets := p.Targets()
	algo := s.cfg.Cracker.Algorithm()
	key := cracker.Fingerprint(algo, targets)

	var found []string
	if path := s.cfg.WordsCacheFile; path != "" {
		cached, err := words.ReadCache(path)
		if err != nil {
			return nil, err
		}
		switch stale := staleWord(algo, cached.Words, targets); {
		case len(cached.Words) == 0:
		case cached.Key != key:
			s.log.Warn().Str("file", path).Str("key", cached.Key).Msg("words cache is for another puzzle, cracking again")
		case stale != "":
			s.log.Warn().Str("file", path).Str("word", stale).Msg("words cache holds a word outside the puzzle, cracking again")
		default:
			s.log.Info().Str("file", path).Int("words", len(cached.Words)).Msg("using words cache")
			found = cached.Words
		}
	}
	if found == nil {
		found = words.Normalize(s.cfg.Cracker.Find(p.Grid.Letters(), targets))
		if path := s.cfg.WordsCacheFile; path != "" {
			if err := words.WriteCache(path, words.Cache{Key: key, Words: found}); err != nil {
				return nil, err
			}
		}
	}

	s.log.Info().Int("hashes", len(targets)).Msg("number of parsed hashes")
	s.log.Info().Int("words", len(found)).Msg("number of found words")
	for _, h := range cracker.Unmatched(algo, found, targets) {
		s.log.Info().Str("hash", h).Msg("remaining")
	}

	s.mu.Lock()
	s.found = found
	s.mu.Unlock()
	return found, nil
}

// staleWord returns the first word whose digest is not a target, or "".
func staleWord(a cracker.Algorithm, list []string, targets map[string]struct{}) string {
	for _, w := range list {
		if _, ok := targets[a.Sum(w)]; !ok {
			return w
		}
	}
	return ""
}

// play streams the spilled combinations and plays every game of each.
func (s *Solver) play(ctx context.Context, gen *selection.Generator, combos *store.Stream) (*Result, error) {
	improvedWords, err := s.cfg.Store.Stream(store.WordCombinations)
	if err != nil {
		return nil, err
	}
	improvedSels, err := s.cfg.Store.Stream(store.SelectionCombinations)
	if err != nil {
		return nil, err
	}

	p := s.cfg.Puzzle
	board, err := game.NewBoard(p.Grid, p.Bonus)
	if err != nil {
		return nil, err
	}

	r, err := combos.ReadAll()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	best := &Result{}
	total := s.total.Load()
	lastPercent := int64(-1)

	for r.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		indices, err := store.DecodeIndices(r.Record())
		if err != nil {
			return nil, err
		}
		it, err := gen.Games(indices)
		if err != nil {
			return nil, err
		}
		for it.Next() {
			g, err := board.New(it.Words(), it.Selections(), game.WithClock(s.cfg.Clock))
			if err != nil {
				return nil, err
			}
			score, err := g.Play()
			if err != nil {
				return nil, err
			}
			s.games.Add(1)
			if score <= best.Score {
				continue
			}

			best = &Result{
				Score:      score,
				Words:      append([]string(nil), it.Words()...),
				Indices:    append([]int(nil), indices...),
				Selections: cloneSelections(it.Selections()),
			}
			s.mu.Lock()
			s.best = best
			s.mu.Unlock()
			s.log.Info().
				Int("score", score).
				Str("combination", r.Record()).
				Strs("words", best.Words).
				Msg("found best score")
			if err := improvedWords.Append(store.EncodeWords(best.Words)); err != nil {
				return nil, err
			}
			if err := improvedSels.Append(store.EncodeSelectionCombination(best.Indices, best.Selections)); err != nil {
				return nil, err
			}
		}

		current := s.current.Add(1)
		if total > 0 {
			if percent := current * 100 / total; percent != lastPercent {
				lastPercent = percent
				s.log.Info().
					Int64("percent", percent).
					Str("combinations", humanize.Comma(current)).
					Str("games", humanize.Comma(s.games.Load())).
					Msg("progress")
				s.notify()
			}
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := improvedWords.Flush(); err != nil {
		return nil, err
	}
	if err := improvedSels.Flush(); err != nil {
		return nil, err
	}
	return best, nil
}

func cloneSelections(sels []game.Selection) []game.Selection {
	out := make([]game.Selection, len(sels))
	for i, sel := range sels {
		out[i] = append(game.Selection(nil), sel...)
	}
	return out
}

func (s *Solver) setPhase(ph Phase) {
	s.mu.Lock()
	s.phase = ph
	s.mu.Unlock()
	s.log.Info().Str("phase", string(ph)).Msg("phase")
	s.notify()
}

func (s *Solver) notify() {
	if s.cfg.OnProgress != nil {
		s.cfg.OnProgress(s.Snapshot())
	}
}

// Snapshot returns the current progress. Safe for concurrent use.
func (s *Solver) Snapshot() Progress {
	s.mu.RLock()
	phase := s.phase
	bestScore := 0
	if s.best != nil {
		bestScore = s.best.Score
	}
	s.mu.RUnlock()

	p := Progress{
		Phase:     phase,
		Current:   s.current.Load(),
		Total:     s.total.Load(),
		Games:     s.games.Load(),
		BestScore: bestScore,
	}
	if p.Total > 0 {
		p.Percent = p.Current * 100 / p.Total
	}
	return p
}

// Words returns the cracked words and the selected pool so far.
func (s *Solver) Words() (found, pool []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.found, s.pool
}

// Best returns the best game so far, or nil.
func (s *Solver) Best() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.best
}

// String renders a progress line for logs.
func (p Progress) String() string {
	return fmt.Sprintf("%s %d%% (%s/%s combinations, %s games, best %d)",
		p.Phase, p.Percent, humanize.Comma(p.Current), humanize.Comma(p.Total), humanize.Comma(p.Games), p.BestScore)
}
