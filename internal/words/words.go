// internal/words/words.go
//
// Word list handling between the cracker and the selection generator.
//
// Responsibilities:
//   - Normalize cracked words and published digests.
//   - Pick the pool of words the combinations are built from (SelectPool).
//   - Read and write the words cache so a finished crack can be reused.
//
// Pool selection:
//   Words are grouped by length (in letters, not bytes) and whole groups are taken
//   longest first. A group is added while the pool still has fewer than min words
//   and adding it keeps the pool at most max. The first group that does not fit
//   ends the selection.
//
// Cache file:
//   An optional "# key <key>" line naming the puzzle, then one upper-case word per
//   line. Other blank lines and lines starting with '#' are skipped. A missing file
//   reads as an empty cache. Writing replaces the whole file.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMinWords = 40
	DefaultMaxWords = 50
)

// Normalize trims and upper-cases every word and drops empty entries.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// NormalizeDigests returns the set of lowercase hex digests in list.
// Surrounding whitespace and quotes are removed and empty entries dropped.
func NormalizeDigests(list []string) map[string]struct{} {
	out := make(map[string]struct{}, len(list))
	for _, h := range list {
		h = strings.ToLower(strings.Trim(strings.TrimSpace(h), `"'`))
		if h != "" {
			out[h] = struct{}{}
		}
	}
	return out
}

// Group is the words of one length.
type Group struct {
	Length int
	Words  []string
}

// ByLength groups distinct words by letter count, longest group first and words
// sorted within a group.
func ByLength(list []string) []Group {
	byLen := make(map[int][]string)
	seen := make(map[string]struct{}, len(list))
	for _, w := range list {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		n := utf8.RuneCountInString(w)
		byLen[n] = append(byLen[n], w)
	}
	groups := make([]Group, 0, len(byLen))
	for n, ws := range byLen {
		sort.Strings(ws)
		groups = append(groups, Group{Length: n, Words: ws})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Length > groups[j].Length })
	return groups
}

// SelectPool picks the word pool (see package notes) and the groups it took.
func SelectPool(list []string, min, max int) ([]string, []Group) {
	var pool []string
	var taken []Group
	for _, g := range ByLength(list) {
		if len(pool) >= min || len(pool)+len(g.Words) > max {
			break
		}
		pool = append(pool, g.Words...)
		taken = append(taken, g)
	}
	return pool, taken
}

// Cache is the content of a words cache file.
type Cache struct {
	Key   string // identifies the puzzle the words were cracked for
	Words []string
}

// ReadCache loads the words cache at path.
func ReadCache(path string) (Cache, error) {
	var c Cache
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("words: open cache: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if key, ok := strings.CutPrefix(w, cacheKeyPrefix); ok {
			c.Key = strings.TrimSpace(key)
			continue
		}
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		c.Words = append(c.Words, strings.ToUpper(w))
	}
	if err := sc.Err(); err != nil {
		return Cache{}, fmt.Errorf("words: read cache: %w", err)
	}
	return c, nil
}

const cacheKeyPrefix = "# key "

// WriteCache replaces the cache at path with c, creating its directory.
func WriteCache(path string, c Cache) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("words: cache dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("words: open cache: %w", err)
	}
	w := bufio.NewWriter(f)
	if c.Key != "" {
		w.WriteString(cacheKeyPrefix)
		w.WriteString(c.Key)
		w.WriteByte('\n')
	}
	for _, word := range c.Words {
		w.WriteString(word)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("words: write cache: %w", err)
	}
	return f.Close()
}
