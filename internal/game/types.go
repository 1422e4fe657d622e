// internal/game/types.go
//
// Core type definitions for the Connections game engine.
// Defines:
//   - Grid:    the 4x4 word arrangement, row-major.
//   - Swap:    one position exchange of a swap plan.
//   - Phase:   steps of the submission state machine.
//   - Status:  coarse game result (playing/won/lost).
//   - Outcome: what a submission did, for the caller to animate.

package game

import "github.com/robalobadob/connections/internal/puzzle"

const (
	// Cols is the grid width; Rows the grid height.
	Cols = puzzle.SetSize
	Rows = puzzle.SetCount

	// DefaultMistakes is the mistake budget of a new game.
	DefaultMistakes = 4
)

// Grid holds the 16 words; index i is row i/Cols, column i%Cols.
// Grid is an array so assignment copies it.
type Grid [puzzle.WordCount]string

// RowOf returns the row of grid index i.
func RowOf(i int) int { return i / Cols }

// ColRowToIdx maps a column/row pair to a grid index.
func ColRowToIdx(col, row int) int { return row*Cols + col }

// IndexOf returns the position of w, or -1.
func (g Grid) IndexOf(w string) int {
	for i, x := range g {
		if x == w {
			return i
		}
	}
	return -1
}

// Row returns a copy of the words in row r.
func (g Grid) Row(r int) []string {
	out := make([]string, Cols)
	copy(out, g[r*Cols:(r+1)*Cols])
	return out
}

// Swap exchanges the words at From and To. Indices refer to the
// arrangement the plan was computed against.
type Swap struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Phase is a step of the submission state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseEvaluating Phase = "evaluating"
	PhaseMatchFound Phase = "match_found"
	PhaseCompacting Phase = "compacting"
	PhaseLockedIn   Phase = "locked_in"
	PhaseNoMatch    Phase = "no_match"
	PhaseRejected   Phase = "rejected"
	// PhaseAnimating is reported by a Session while a choreography is
	// still waiting on view signals.
	PhaseAnimating Phase = "animating"
)

// Status is the coarse state of a game.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// OutcomeKind classifies a submission.
type OutcomeKind string

const (
	// OutcomeIgnored: selection not 4 words, a repeated guess, or the
	// game is over. Nothing changed.
	OutcomeIgnored  OutcomeKind = "ignored"
	OutcomeMatched  OutcomeKind = "matched"
	OutcomeRejected OutcomeKind = "rejected"
)

// Outcome reports what Submit did.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	Phases    []Phase     `json:"phases"`
	Selection []string    `json:"selection,omitempty"`
	// Positions holds the pre-submit grid index of each selected word,
	// in selection order.
	Positions []int           `json:"positions,omitempty"`
	Set       *puzzle.WordSet `json:"set,omitempty"`
	TargetRow int             `json:"targetRow"`
	Plan      []Swap          `json:"plan,omitempty"`
	OneAway   bool            `json:"oneAway"`
}
