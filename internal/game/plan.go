// internal/game/plan.go
//
// Swap planning for a newly matched set.
//
// PlanSwaps moves every word of the matched set into targetRow with a
// single greedy pass:
//   - scan positions in row-major order, skipping the target row itself;
//   - for each matched word found elsewhere, claim the first target-row
//     column whose word is not in the set and that no earlier swap claimed.
//
// The target row has Cols slots and the set has Cols words, so the number
// of matched words outside the row always equals the number of foreign
// words inside it and every word finds a slot.

package game

import "github.com/robalobadob/connections/internal/puzzle"

// PlanSwaps returns the swaps that compact set into targetRow of grid.
// An empty plan means the set already fills the row.
func PlanSwaps(set puzzle.WordSet, grid Grid, targetRow int) []Swap {
	var plan []Swap
	claimed := make(map[int]bool, Cols)

	for i, w := range grid {
		if !set.Contains(w) || RowOf(i) == targetRow {
			continue
		}
		for col := 0; col < Cols; col++ {
			to := ColRowToIdx(col, targetRow)
			if set.Contains(grid[to]) || claimed[to] {
				continue
			}
			plan = append(plan, Swap{From: i, To: to})
			claimed[to] = true
			break
		}
	}
	return plan
}

// ApplySwaps returns grid with every swap of plan applied. Reads come from
// the original grid, so the result does not depend on swap order.
func ApplySwaps(grid Grid, plan []Swap) Grid {
	out := grid
	for _, s := range plan {
		out[s.To] = grid[s.From]
		out[s.From] = grid[s.To]
	}
	return out
}
