// internal/combin/combin.go
//
// Ordered selection of indices without replacement.
// Responsibilities:
//   - Walk: depth-first enumeration of every ordered prefix that can be built by
//     repeatedly picking an index not yet used, from a per-depth candidate list.
//   - Permutations: size of the k-permutation space of n items.
//   - Product: lazy odometer over a Cartesian product.
//
// Walk is the one builder behind letters→words (cracker), word indices→combinations
// and tile indices→selections (selection generator).

package combin

import (
	"github.com/bits-and-blooms/bitset"
)

// Candidates returns the indices that may extend a prefix of length depth.
// Indices already present in the prefix are skipped by Walk.
type Candidates func(depth int) []int

// Visit is called for every prefix Walk builds. The slice is reused between calls;
// copy it to retain it. Returning descend=false prunes the subtree below prefix.
type Visit func(prefix []int) (descend bool, err error)

// Walk enumerates ordered selections without replacement, starting below prefix.
// n bounds the index universe (every candidate must be < n).
// The first error returned by visit aborts the walk and is returned unchanged.
func Walk(n int, prefix []int, candidates Candidates, visit Visit) error {
	w := &walker{
		candidates: candidates,
		visit:      visit,
		prefix:     make([]int, len(prefix), len(prefix)+8),
		used:       bitset.New(uint(n)),
	}
	copy(w.prefix, prefix)
	for _, i := range prefix {
		w.used.Set(uint(i))
	}
	return w.walk()
}

type walker struct {
	candidates Candidates
	visit      Visit
	prefix     []int
	used       *bitset.BitSet
}

func (w *walker) walk() error {
	depth := len(w.prefix)
	for _, c := range w.candidates(depth) {
		if w.used.Test(uint(c)) {
			continue
		}
		w.used.Set(uint(c))
		w.prefix = append(w.prefix, c)

		descend, err := w.visit(w.prefix)
		if err == nil && descend {
			err = w.walk()
		}

		w.prefix = w.prefix[:depth]
		w.used.Clear(uint(c))
		if err != nil {
			return err
		}
	}
	return nil
}

// Range returns [0, 1, ..., n-1].
func Range(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Distinct reports whether every index in idx appears once.
func Distinct(idx []int) bool {
	seen := bitset.New(64)
	for _, i := range idx {
		if seen.Test(uint(i)) {
			return false
		}
		seen.Set(uint(i))
	}
	return true
}

// Permutations returns n × (n-1) × ... × (n-k+1), or 0 when k > n.
func Permutations(n, k int) int64 {
	if k > n || n < 0 || k < 0 {
		return 0
	}
	total := int64(1)
	for i := 0; i < k; i++ {
		total *= int64(n - i)
	}
	return total
}
