package assets

import "embed"

//go:embed puzzles.json
var FS embed.FS

// PuzzlesJSON returns the embedded default puzzle catalog.
func PuzzlesJSON() ([]byte, error) {
	return FS.ReadFile("puzzles.json")
}
