// internal/puzzle/puzzle.go
//
// Loads the day's puzzle: the letter grid, the bonus and the published word digests.
// The JSON mirrors the data the puzzle page carries:
//
//	{"date": "2024-03-14",
//	 "grid":  [{"letter": "V", "value": 1, "usageCount": 0}, ...],
//	 "bonus": {"pattern": "3301", "value": 15, "text": "...", "index": 4},
//	 "hashes": ["c3a7...", ...]}
//
// An empty path loads the sample puzzle embedded in the binary.
package puzzle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/slovosled/assets"
	"github.com/robalobadob/slovosled/internal/game"
	"github.com/robalobadob/slovosled/internal/words"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("puzzle: invalid")

// Puzzle is one day's input.
type Puzzle struct {
	Date   string     `json:"date,omitempty"`
	Grid   game.Grid  `json:"grid"`
	Bonus  game.Bonus `json:"bonus"`
	Hashes []string   `json:"hashes"`
}

// Load reads and validates the puzzle at path, or the embedded sample when path is empty.
func Load(path string) (*Puzzle, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = assets.SamplePuzzle()
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("puzzle: read: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates raw puzzle JSON. Unknown fields are rejected.
func Parse(raw []byte) (*Puzzle, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var p Puzzle
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("puzzle: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate normalizes letters to upper case and checks every field.
func (p *Puzzle) Validate() error {
	if len(p.Grid) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalid)
	}
	for i := range p.Grid {
		t := &p.Grid[i]
		t.Letter = strings.ToUpper(strings.TrimSpace(t.Letter))
		if utf8.RuneCountInString(t.Letter) != 1 {
			return fmt.Errorf("%w: tile %d letter %q", ErrInvalid, i, t.Letter)
		}
		if t.Value < 1 || t.UsageCount < 0 {
			return fmt.Errorf("%w: tile %d value %d usage %d", ErrInvalid, i, t.Value, t.UsageCount)
		}
	}
	if err := p.Bonus.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(p.Targets()) == 0 {
		return fmt.Errorf("%w: no word hashes", ErrInvalid)
	}
	return nil
}

// Targets returns the normalized digest set.
func (p *Puzzle) Targets() map[string]struct{} {
	return words.NormalizeDigests(p.Hashes)
}
