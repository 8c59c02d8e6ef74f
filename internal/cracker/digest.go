// internal/cracker/digest.go
//
// Digest algorithms the target hashes may be computed with.
// The puzzle publishes SHA-256; sha3-256 and blake2b-256 are accepted for
// puzzles that switch algorithms. An unknown name is a startup configuration error.

package cracker

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownAlgorithm is returned by Lookup for an unregistered algorithm name.
var ErrUnknownAlgorithm = errors.New("cracker: unknown digest algorithm")

// DefaultAlgorithm is the algorithm the puzzle page uses.
const DefaultAlgorithm = "sha256"

// Algorithm creates fresh hash states for one digest algorithm.
// hash.Hash values are not safe for concurrent use; every search task takes its own.
type Algorithm struct {
	Name string
	New  func() hash.Hash
}

var algorithms = map[string]Algorithm{
	"sha256":      {Name: "sha256", New: sha256.New},
	"sha3-256":    {Name: "sha3-256", New: sha3.New256},
	"blake2b-256": {Name: "blake2b-256", New: newBlake2b256},
}

func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only fails for oversized keys
		panic(err)
	}
	return h
}

// Lookup returns the named algorithm (case-insensitive).
func Lookup(name string) (Algorithm, error) {
	a, ok := algorithms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
	}
	return a, nil
}

// Algorithms lists the registered names, sorted.
func Algorithms() []string {
	out := make([]string, 0, len(algorithms))
	for name := range algorithms {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Sum returns the lowercase hex digest of word's UTF-8 bytes.
func (a Algorithm) Sum(word string) string {
	return sumWith(a.New(), word, nil)
}

// sumWith reuses h (reset first) and buf for the hex output.
func sumWith(h hash.Hash, word string, buf []byte) string {
	h.Reset()
	h.Write([]byte(word))
	sum := h.Sum(buf[:0])
	return hex.EncodeToString(sum)
}

// Unmatched returns the targets none of words hashes to, sorted.
func Unmatched(a Algorithm, words []string, targets map[string]struct{}) []string {
	hit := make(map[string]struct{}, len(words))
	h := a.New()
	for _, w := range words {
		hit[sumWith(h, w, nil)] = struct{}{}
	}
	var out []string
	for t := range targets {
		if _, ok := hit[t]; !ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Fingerprint identifies a target set: "<algorithm>:<digest of the sorted targets>".
func Fingerprint(a Algorithm, targets map[string]struct{}) string {
	sorted := make([]string, 0, len(targets))
	for t := range targets {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)
	return a.Name + ":" + a.Sum(strings.Join(sorted, ","))
}
