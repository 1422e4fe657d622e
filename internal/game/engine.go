// internal/game/engine.go
//
// Core game engine for a single Connections game.
// Responsibilities:
//   - Build the initial shuffled 4x4 grid for a puzzle.
//   - Selection handling (toggle, deselect all), capped at four words.
//   - Submission: match evaluation, swap planning and compaction of the
//     matched set into the next open row, or rejection with a mistake.
//   - Shuffle of the unsolved rows only.
//   - State transitions: playing → won (four lock-ins) / lost (no mistakes left).
//
// Notes:
//   - State is an immutable snapshot; every transition returns a new State
//     and leaves the receiver untouched.
//   - Presentation (bounce, swap, shake) is planned separately by the
//     choreography after a transition has been committed.
package game

import (
	"errors"
	"sort"
	"strings"

	"github.com/robalobadob/connections/internal/puzzle"
)

// Shuffler permutes n elements through swap. *math/rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// State is one snapshot of a game.
type State struct {
	puzzle   *puzzle.Puzzle
	grid     Grid
	selected []string
	lockIns  []int    // set indices in solve order
	mistakes int
	attempts []string // attemptKey of every rejected selection
}

// New constructs the initial state with a shuffled grid.
// The puzzle must already be validated.
func New(p *puzzle.Puzzle, rng Shuffler, mistakes int) State {
	var g Grid
	copy(g[:], p.WordList())
	rng.Shuffle(len(g), func(i, j int) { g[i], g[j] = g[j], g[i] })
	return State{puzzle: p, grid: g, mistakes: budget(mistakes)}
}

// NewWithGrid constructs the initial state with a fixed arrangement.
// Returns an error unless grid is a permutation of the puzzle's words.
func NewWithGrid(p *puzzle.Puzzle, grid Grid, mistakes int) (State, error) {
	want := make(map[string]int, puzzle.WordCount)
	for _, w := range p.WordList() {
		want[w]++
	}
	for _, w := range grid {
		if want[w] == 0 {
			return State{}, errors.New("grid is not a permutation of the puzzle words")
		}
		want[w]--
	}
	return State{puzzle: p, grid: grid, mistakes: budget(mistakes)}, nil
}

func budget(n int) int {
	if n <= 0 {
		return DefaultMistakes
	}
	return n
}

// Puzzle returns the puzzle being played.
func (s State) Puzzle() *puzzle.Puzzle { return s.puzzle }

// Grid returns the current arrangement.
func (s State) Grid() Grid { return s.grid }

// Selected returns the selection in selection order.
func (s State) Selected() []string { return append([]string(nil), s.selected...) }

// MistakesLeft returns the remaining mistake budget.
func (s State) MistakesLeft() int { return s.mistakes }

// Attempts returns the number of rejected guesses.
func (s State) Attempts() int { return len(s.attempts) }

// LockIns returns the solved sets in solve order.
func (s State) LockIns() []puzzle.WordSet {
	out := make([]puzzle.WordSet, len(s.lockIns))
	for i, idx := range s.lockIns {
		out[i] = s.puzzle.Sets[idx]
	}
	return out
}

// SolvedRows is the number of rows pinned to solved sets.
func (s State) SolvedRows() int { return len(s.lockIns) }

// Status reports whether the game is still being played.
func (s State) Status() Status {
	switch {
	case len(s.lockIns) == puzzle.SetCount:
		return StatusWon
	case s.mistakes <= 0:
		return StatusLost
	default:
		return StatusPlaying
	}
}

// Finished is true once the game is won or lost.
func (s State) Finished() bool { return s.Status() != StatusPlaying }

// IsSelected reports whether w is in the selection.
func (s State) IsSelected(w string) bool { return indexOf(s.selected, w) >= 0 }

// unsolved reports whether w sits on the grid outside the solved rows.
func (s State) unsolved(w string) bool {
	i := s.grid.IndexOf(w)
	return i >= 0 && RowOf(i) >= len(s.lockIns)
}

// Toggle removes w from the selection if present, otherwise adds it when
// fewer than four words are selected. Words that are not on the grid, or
// already solved, are ignored, as is every toggle once the game is over.
func (s State) Toggle(w string) State {
	if s.Finished() || !s.unsolved(w) {
		return s
	}
	if i := indexOf(s.selected, w); i >= 0 {
		next := make([]string, 0, len(s.selected)-1)
		next = append(next, s.selected[:i]...)
		s.selected = append(next, s.selected[i+1:]...)
		return s
	}
	if len(s.selected) >= puzzle.SetSize {
		return s
	}
	s.selected = append(append(make([]string, 0, len(s.selected)+1), s.selected...), w)
	return s
}

// DeselectAll clears the selection.
func (s State) DeselectAll() State {
	s.selected = nil
	return s
}

// Shuffle re-randomizes the unsolved positions. Solved rows never move.
func (s State) Shuffle(rng Shuffler) State {
	if s.Finished() {
		return s
	}
	start := len(s.lockIns) * Cols
	free := s.grid[start:]
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	return s
}

// CanSubmit reports whether Submit would evaluate the current selection:
// exactly four words, not a repeat of a rejected guess, game in play.
func (s State) CanSubmit() bool {
	if s.Finished() || len(s.selected) != puzzle.SetSize {
		return false
	}
	return indexOf(s.attempts, attemptKey(s.selected)) < 0
}

// Submit runs the selection through the state machine.
//
// Match: plan swaps into the next open row, apply them, lock the set in,
// clear the selection. Reject: log the guess, spend one mistake, clear the
// selection. Anything that fails CanSubmit is ignored.
func (s State) Submit() (State, Outcome) {
	if !s.CanSubmit() {
		return s, Outcome{Kind: OutcomeIgnored, Phases: []Phase{PhaseIdle}}
	}

	out := Outcome{
		Selection: s.Selected(),
		Positions: make([]int, len(s.selected)),
		TargetRow: len(s.lockIns),
		Phases:    []Phase{PhaseEvaluating},
	}
	for i, w := range s.selected {
		out.Positions[i] = s.grid.IndexOf(w)
	}

	idx := Evaluate(s.selected, s.puzzle.Sets)
	if idx < 0 {
		out.Kind = OutcomeRejected
		out.OneAway = OneAway(s.selected, s.puzzle.Sets)
		out.Phases = append(out.Phases, PhaseNoMatch, PhaseRejected, PhaseIdle)
		return s.reject(), out
	}

	set := s.puzzle.Sets[idx]
	out.Kind = OutcomeMatched
	out.Set = &set
	out.Phases = append(out.Phases, PhaseMatchFound)
	out.Plan = PlanSwaps(set, s.grid, out.TargetRow)
	if len(out.Plan) > 0 {
		out.Phases = append(out.Phases, PhaseCompacting)
	}
	out.Phases = append(out.Phases, PhaseLockedIn, PhaseIdle)

	s.grid = ApplySwaps(s.grid, out.Plan)
	s.lockIns = append(append(make([]int, 0, len(s.lockIns)+1), s.lockIns...), idx)
	s.selected = nil
	return s, out
}

// reject logs the current selection, spends a mistake, and clears it.
func (s State) reject() State {
	s.attempts = append(append(make([]string, 0, len(s.attempts)+1), s.attempts...), attemptKey(s.selected))
	if s.mistakes > 0 {
		s.mistakes--
	}
	s.selected = nil
	return s
}

// Unsolved returns the sets not yet locked in, in puzzle order.
func (s State) Unsolved() []puzzle.WordSet {
	var out []puzzle.WordSet
	for i, set := range s.puzzle.Sets {
		if indexOfInt(s.lockIns, i) < 0 {
			out = append(out, set)
		}
	}
	return out
}

// attemptKey identifies a selection regardless of order.
func attemptKey(words []string) string {
	k := append([]string(nil), words...)
	sort.Strings(k)
	return strings.Join(k, "\x1f")
}

func indexOf(list []string, w string) int {
	for i, x := range list {
		if x == w {
			return i
		}
	}
	return -1
}

func indexOfInt(list []int, v int) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
