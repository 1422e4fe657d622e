package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownWord is wrapped by UnknownWordError.
var ErrUnknownWord = errors.New("word not on the grid")

// UnknownWordError is returned when a toggle names a word that is not
// among the unsolved tiles. Suggestion is the closest unsolved word, if
// any is close enough.
type UnknownWordError struct {
	Word       string
	Suggestion string
}

func (e *UnknownWordError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("%q is not on the grid", e.Word)
	}
	return fmt.Sprintf("%q is not on the grid, did you mean %q?", e.Word, e.Suggestion)
}

func (e *UnknownWordError) Unwrap() error { return ErrUnknownWord }

// suggestLimit is the largest edit distance still offered as a suggestion.
func suggestLimit(length int) int {
	if length/3 < 1 {
		return 1
	}
	return length / 3
}

// Suggest returns the unsolved word closest to w by edit distance, or ""
// when nothing is within suggestLimit. Comparison ignores case.
func (s State) Suggest(w string) string {
	needle := strings.ToUpper(strings.TrimSpace(w))
	best, bestDist := "", -1
	for i := len(s.lockIns) * Cols; i < len(s.grid); i++ {
		cand := s.grid[i]
		dist := levenshtein.ComputeDistance(needle, cand)
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

// Resolve maps user input to an unsolved grid word, ignoring case and
// surrounding space. Unknown input yields an *UnknownWordError.
func (s State) Resolve(w string) (string, error) {
	needle := strings.ToUpper(strings.TrimSpace(w))
	if s.unsolved(needle) {
		return needle, nil
	}
	return "", &UnknownWordError{Word: w, Suggestion: s.Suggest(needle)}
}
