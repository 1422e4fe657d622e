package game

import "github.com/robalobadob/connections/internal/puzzle"

// overlap counts how many selected words belong to s.
func overlap(selection []string, s puzzle.WordSet) int {
	n := 0
	for _, w := range selection {
		if s.Contains(w) {
			n++
		}
	}
	return n
}

// Evaluate returns the index of the set the selection matches exactly,
// or -1. A match needs all SetSize selected words in one set; since both
// sides have SetSize words, the selection is then that set.
func Evaluate(selection []string, sets []puzzle.WordSet) int {
	if len(selection) != puzzle.SetSize {
		return -1
	}
	for i, s := range sets {
		if overlap(selection, s) == puzzle.SetSize {
			return i
		}
	}
	return -1
}

// OneAway reports whether some set shares exactly SetSize-1 words with
// the selection.
func OneAway(selection []string, sets []puzzle.WordSet) bool {
	if len(selection) != puzzle.SetSize {
		return false
	}
	for _, s := range sets {
		if overlap(selection, s) == puzzle.SetSize-1 {
			return true
		}
	}
	return false
}
