// internal/game/bonus.go
//
// Bonus definition and rule evaluation.
// A bonus has a 2x2 value pattern ("0111"): digit 0 is "don't care", digits 1–3
// require a tile with exactly that value that has not reached max. Once the pattern
// matches anywhere on the grid the bonus stays active for the rest of the game and
// every following word earns the rule's bonus score.

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/robalobadob/slovosled/internal/daily"
)

var (
	// ErrIllegalRule signals a bonus rule index outside 0–8.
	ErrIllegalRule = errors.New("game: illegal bonus rule")
	// ErrInvalidPattern signals a pattern that is not four digits 0–3.
	ErrInvalidPattern = errors.New("game: invalid bonus pattern")
)

// Rule selects how a word's bonus score is computed.
type Rule int

const (
	RuleLengthSix      Rule = iota // word has 6 letters
	RuleLengthSeven                // word has 7 letters
	RuleVowels                     // value × vowel count
	RuleConsonants                 // value × consonant count
	RuleFirstConsonant             // word starts with a consonant
	RuleLastConsonant              // word ends with a consonant
	RuleFirstVowel                 // word starts with a vowel
	RuleLastVowel                  // word ends with a vowel
	RuleMonthLetter                // word contains the letter at grid[month-1]
)

// vowels includes the accented Slovak variants.
const vowels = "AEIOUYÁÉÍÓÚÝÄ"

// Valid reports whether r is a known rule.
func (r Rule) Valid() bool { return r >= RuleLengthSix && r <= RuleMonthLetter }

func (r Rule) String() string {
	switch r {
	case RuleLengthSix:
		return "length-6"
	case RuleLengthSeven:
		return "length-7"
	case RuleVowels:
		return "vowels"
	case RuleConsonants:
		return "consonants"
	case RuleFirstConsonant:
		return "first-consonant"
	case RuleLastConsonant:
		return "last-consonant"
	case RuleFirstVowel:
		return "first-vowel"
	case RuleLastVowel:
		return "last-vowel"
	case RuleMonthLetter:
		return "month-letter"
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// Bonus is the puzzle's bonus definition. Immutable after load.
type Bonus struct {
	Pattern string `json:"pattern"` // 2x2 matrix, row-major, 4 digits.
	Value   int    `json:"value"`
	Text    string `json:"text"`
	Rule    Rule   `json:"index"`
}

// Validate checks the pattern and the rule index.
func (b Bonus) Validate() error {
	if !b.Rule.Valid() {
		return fmt.Errorf("%w: %d", ErrIllegalRule, int(b.Rule))
	}
	if len(b.Pattern) != 4 {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, b.Pattern)
	}
	for _, c := range b.Pattern {
		if c < '0' || c > '3' {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, b.Pattern)
		}
	}
	return nil
}

// digits returns the pattern as values; assumes Validate passed.
func (b Bonus) digits() [4]int {
	var d [4]int
	for i := 0; i < 4 && i < len(b.Pattern); i++ {
		d[i] = int(b.Pattern[i] - '0')
	}
	return d
}

// Matches reports whether the pattern matches any 2x2 block of tiles.
// Blocks start at every index i < len(tiles)-GridColumns that is not in the last
// column of its row.
func (b Bonus) Matches(tiles Grid) bool {
	pattern := b.digits()
	cols := GridColumns
	for i := 0; i < len(tiles)-cols; i++ {
		if i%cols > cols-2 || i+cols+1 >= len(tiles) {
			continue
		}
		block := [4]*Tile{&tiles[i], &tiles[i+1], &tiles[i+cols], &tiles[i+cols+1]}
		match := true
		for k, t := range block {
			want := pattern[k]
			if want == 0 {
				continue
			}
			if t.Value != want || t.ReachedMax {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Score returns the bonus score of word under the bonus rule.
// tiles and now are consulted by RuleMonthLetter only.
func (b Bonus) Score(word string, tiles Grid, now time.Time) (int, error) {
	n := utf8.RuneCountInString(word)
	if n == 0 {
		return 0, nil
	}
	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)

	switch b.Rule {
	case RuleLengthSix:
		return when(n == 6, b.Value), nil
	case RuleLengthSeven:
		return when(n == 7, b.Value), nil
	case RuleVowels:
		return countVowels(word) * b.Value, nil
	case RuleConsonants:
		return (n - countVowels(word)) * b.Value, nil
	case RuleFirstConsonant:
		return when(!isVowel(first), b.Value), nil
	case RuleLastConsonant:
		return when(!isVowel(last), b.Value), nil
	case RuleFirstVowel:
		return when(isVowel(first), b.Value), nil
	case RuleLastVowel:
		return when(isVowel(last), b.Value), nil
	case RuleMonthLetter:
		idx, ok := daily.MonthTileIndex(now, len(tiles))
		if !ok {
			return 0, nil
		}
		return when(strings.Contains(word, tiles[idx].Letter), b.Value), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrIllegalRule, int(b.Rule))
}

func isVowel(r rune) bool { return strings.ContainsRune(vowels, r) }

func countVowels(word string) int {
	n := 0
	for _, r := range word {
		if isVowel(r) {
			n++
		}
	}
	return n
}

func when(cond bool, v int) int {
	if cond {
		return v
	}
	return 0
}
