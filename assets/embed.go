// assets/embed.go
//
// Puzzle data shipped with the binary. The sample puzzle is used when no
// PUZZLE_FILE is configured.
package assets

import (
	"embed"
)

// SamplePuzzleName is the embedded sample puzzle's file name.
const SamplePuzzleName = "sample_puzzle.json"

//go:embed sample_puzzle.json
var FS embed.FS

// SamplePuzzle returns the embedded sample puzzle JSON.
func SamplePuzzle() ([]byte, error) {
	return FS.ReadFile(SamplePuzzleName)
}
