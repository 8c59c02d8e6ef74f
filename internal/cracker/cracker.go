// internal/cracker/cracker.go
//
// Brute-force recovery of the puzzle's words from their published digests.
// Responsibilities:
//   - Generate every letter sequence over the grid alphabet, each alphabet position
//     used at most once per sequence (duplicate letters may still repeat).
//   - Digest sequences of length MinLength..MaxLength and keep those whose digest is
//     a target.
//   - Run branches on a bounded worker pool; found words flow through one channel
//     into a single aggregator that deduplicates them.
//
// Notes:
//   - New tasks are forked only at every FanOutDepth-th level; between fork points
//     the branch recurses synchronously inside its task.
//   - When the pool is saturated a forked branch runs inline in the forking task.
//   - The search always runs to completion; there is no cancellation.
package cracker

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/slovosled/internal/combin"
)

const (
	DefaultWorkers     = 100
	DefaultFanOutDepth = 6
	DefaultMinLength   = 3
	DefaultMaxLength   = 12
)

// Option configures a Cracker.
type Option func(*Cracker)

// Workers bounds the number of concurrently running search tasks.
func Workers(n int) Option {
	return func(c *Cracker) {
		if n > 0 {
			c.workers = n
		}
	}
}

// FanOutDepth sets the recursion interval at which new tasks are forked.
func FanOutDepth(d int) Option {
	return func(c *Cracker) {
		if d > 0 {
			c.fanOut = d
		}
	}
}

// Lengths sets the inclusive range of sequence lengths that are digested.
func Lengths(min, max int) Option {
	return func(c *Cracker) {
		if min > 0 && max >= min {
			c.minLen, c.maxLen = min, max
		}
	}
}

// Logger sets the logger.
func Logger(l zerolog.Logger) Option {
	return func(c *Cracker) { c.log = l }
}

// Cracker searches letter sequences whose digest is in a target set.
type Cracker struct {
	algo    Algorithm
	workers int
	fanOut  int
	minLen  int
	maxLen  int
	log     zerolog.Logger

	tested atomic.Int64
	tasks  atomic.Int64
}

// New returns a Cracker for algo.
func New(algo Algorithm, opts ...Option) *Cracker {
	c := &Cracker{
		algo:    algo,
		workers: DefaultWorkers,
		fanOut:  DefaultFanOutDepth,
		minLen:  DefaultMinLength,
		maxLen:  DefaultMaxLength,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Algorithm returns the digest algorithm in use.
func (c *Cracker) Algorithm() Algorithm { return c.algo }

// Tested returns how many sequences have been digested so far.
func (c *Cracker) Tested() int64 { return c.tested.Load() }

// Find returns the distinct sequences over alphabet whose digest is in targets,
// sorted. targets must hold lowercase hex digests.
func (c *Cracker) Find(alphabet []string, targets map[string]struct{}) []string {
	start := time.Now()
	c.log.Info().
		Strs("alphabet", alphabet).
		Int("targets", len(targets)).
		Str("algorithm", c.algo.Name).
		Int("workers", c.workers).
		Msg("finding words")

	found := make(chan string, 64)
	unique := make(map[string]struct{}, len(targets))
	var agg errgroup.Group
	agg.Go(func() error {
		for w := range found {
			unique[w] = struct{}{}
		}
		return nil
	})

	s := &search{
		c:        c,
		alphabet: alphabet,
		all:      combin.Range(len(alphabet)),
		targets:  targets,
		found:    found,
	}
	s.pool.SetLimit(c.workers)
	s.fork(nil)
	_ = s.pool.Wait()
	close(found)
	_ = agg.Wait()

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	sort.Strings(words)

	c.log.Info().
		Int("found", len(words)).
		Str("tested", humanize.Comma(c.tested.Load())).
		Int64("tasks", c.tasks.Load()).
		Dur("took", time.Since(start)).
		Msg("finding words finished")
	return words
}

// search is the state shared by the tasks of one Find call.
type search struct {
	c        *Cracker
	alphabet []string
	all      []int
	targets  map[string]struct{}
	found    chan<- string
	pool     errgroup.Group
}

// fork runs the subtree below prefix as a new task, or inline if the pool is full.
func (s *search) fork(prefix []int) {
	p := append([]int(nil), prefix...)
	task := func() error { return s.run(p) }
	if !s.pool.TryGo(task) {
		_ = task()
	}
}

// run walks the subtree below prefix with a task-local hash state.
func (s *search) run(prefix []int) error {
	c := s.c
	c.tasks.Add(1)
	h := c.algo.New()
	buf := make([]byte, 0, h.Size())
	var tested int64
	var b strings.Builder

	err := combin.Walk(len(s.alphabet), prefix, func(int) []int { return s.all }, func(p []int) (bool, error) {
		n := len(p)
		if n >= c.minLen && n <= c.maxLen {
			b.Reset()
			for _, i := range p {
				b.WriteString(s.alphabet[i])
			}
			word := b.String()
			tested++
			if _, ok := s.targets[sumWith(h, word, buf)]; ok {
				c.log.Debug().Str("word", word).Msg("found word")
				s.found <- word
			}
		}
		if n >= c.maxLen {
			return false, nil
		}
		if n%c.fanOut == 0 {
			s.fork(p)
			return false, nil
		}
		return true, nil
	})
	c.tested.Add(tested)
	return err
}
