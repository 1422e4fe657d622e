// internal/puzzle/puzzle.go
//
// Core type definitions for Connections puzzles.
// Defines:
//   - SetType: the color tag of a category (green/yellow/blue/purple).
//   - WordSet: four words sharing a solution label and color.
//   - Puzzle:  an identifier plus exactly four WordSets.
//
// Puzzles are immutable once loaded; callers must not mutate the slices.

package puzzle

import "strings"

const (
	// SetSize is the number of words in every WordSet.
	SetSize = 4
	// SetCount is the number of WordSets in every Puzzle.
	SetCount = 4
	// WordCount is the number of tiles on the grid.
	WordCount = SetSize * SetCount
)

// SetType is the color tag of a category.
// Possible values, easiest to hardest:
//   - "yellow"
//   - "green"
//   - "blue"
//   - "purple"
type SetType string

const (
	Yellow SetType = "yellow"
	Green  SetType = "green"
	Blue   SetType = "blue"
	Purple SetType = "purple"
)

// setColors are the tile colors the view paints solved rows with.
var setColors = map[SetType]string{
	Green:  "#A7C268",
	Purple: "#B283C1",
	Yellow: "#F5E07E",
	Blue:   "#B4C3EB",
}

// Valid reports whether t is one of the four known color tags.
func (t SetType) Valid() bool {
	_, ok := setColors[t]
	return ok
}

// Color returns the hex color for t, or "" for unknown tags.
func (t SetType) Color() string { return setColors[t] }

// WordSet is one category of the puzzle.
type WordSet struct {
	Words    []string `json:"words"`
	Solution string   `json:"solution"`
	Type     SetType  `json:"type"`
}

// Contains reports whether w is one of the set's words.
func (s WordSet) Contains(w string) bool {
	for _, x := range s.Words {
		if x == w {
			return true
		}
	}
	return false
}

// Puzzle is a complete game definition.
type Puzzle struct {
	ID   string    `json:"id"`
	Sets []WordSet `json:"sets"`
}

// WordList returns every word of the puzzle in set order.
func (p *Puzzle) WordList() []string {
	out := make([]string, 0, WordCount)
	for _, s := range p.Sets {
		out = append(out, s.Words...)
	}
	return out
}

// SetOf returns the index of the set containing w, or -1.
func (p *Puzzle) SetOf(w string) int {
	for i, s := range p.Sets {
		if s.Contains(w) {
			return i
		}
	}
	return -1
}

// Normalize upper-cases and trims every word and solution in place.
// Catalog loaders call it before Validate so lookups are case-insensitive.
func (p *Puzzle) Normalize() {
	p.ID = strings.TrimSpace(p.ID)
	for i := range p.Sets {
		s := &p.Sets[i]
		s.Solution = strings.TrimSpace(s.Solution)
		s.Type = SetType(strings.ToLower(strings.TrimSpace(string(s.Type))))
		for j, w := range s.Words {
			s.Words[j] = strings.ToUpper(strings.TrimSpace(w))
		}
	}
}
