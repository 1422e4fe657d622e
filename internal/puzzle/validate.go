package puzzle

import (
	"errors"
	"fmt"
)

// ErrInvalidPuzzle is wrapped by every ValidationError.
var ErrInvalidPuzzle = errors.New("invalid puzzle")

// ValidationError describes why a puzzle was rejected at load time.
type ValidationError struct {
	PuzzleID string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.PuzzleID == "" {
		return "puzzle: " + e.Reason
	}
	return fmt.Sprintf("puzzle %q: %s", e.PuzzleID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidPuzzle }

// Validate checks the shape the engine relies on:
//   - non-empty ID,
//   - exactly SetCount sets of exactly SetSize non-empty words,
//   - a non-empty solution and known color per set, each color used once,
//   - all WordCount words globally unique.
//
// Words are compared as stored, so call Normalize first for
// case-insensitive uniqueness.
func (p *Puzzle) Validate() error {
	fail := func(format string, args ...any) error {
		return &ValidationError{PuzzleID: p.ID, Reason: fmt.Sprintf(format, args...)}
	}
	if p.ID == "" {
		return fail("missing id")
	}
	if len(p.Sets) != SetCount {
		return fail("want %d sets, got %d", SetCount, len(p.Sets))
	}

	seenWords := make(map[string]int, WordCount)
	seenTypes := make(map[SetType]bool, SetCount)
	for i, s := range p.Sets {
		if len(s.Words) != SetSize {
			return fail("set %d: want %d words, got %d", i, SetSize, len(s.Words))
		}
		if s.Solution == "" {
			return fail("set %d: missing solution", i)
		}
		if !s.Type.Valid() {
			return fail("set %d: unknown type %q", i, s.Type)
		}
		if seenTypes[s.Type] {
			return fail("set %d: type %q used twice", i, s.Type)
		}
		seenTypes[s.Type] = true

		for _, w := range s.Words {
			if w == "" {
				return fail("set %d: empty word", i)
			}
			if prev, dup := seenWords[w]; dup {
				return fail("word %q appears in sets %d and %d", w, prev, i)
			}
			seenWords[w] = i
		}
	}
	return nil
}
