package game

import "github.com/robalobadob/connections/internal/puzzle"

// Tile is one grid position as the view renders it.
type Tile struct {
	Index int    `json:"index"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Word  string `json:"word"`
	// Hidden tiles are covered by a solved row.
	Hidden   bool `json:"hidden"`
	Selected bool `json:"selected"`
	// Order is the 1-based selection order, 0 if unselected.
	Order int `json:"order,omitempty"`
}

// SolvedRow is a locked-in set drawn over its row.
type SolvedRow struct {
	Row      int            `json:"row"`
	Solution string         `json:"solution"`
	Type     puzzle.SetType `json:"type"`
	Color    string         `json:"color"`
	Words    []string       `json:"words"`
}

// View is everything a view layer needs to draw one frame.
type View struct {
	PuzzleID     string           `json:"puzzleId"`
	Tiles        []Tile           `json:"tiles"`
	Solved       []SolvedRow      `json:"solved"`
	Selected     []string         `json:"selected"`
	MistakesLeft int              `json:"mistakesLeft"`
	Status       Status           `json:"status"`
	Phase        Phase            `json:"phase"`
	CanSubmit    bool             `json:"canSubmit"`
	CanShuffle   bool             `json:"canShuffle"`
	PendingCue   *Cue             `json:"pendingCue,omitempty"`
	CueIndex     int              `json:"cueIndex"`
	// Revealed lists the unsolved sets once the game is lost.
	Revealed []puzzle.WordSet `json:"revealed,omitempty"`
}

// View renders s with no choreography pending.
func (s State) View() View {
	v := View{
		PuzzleID:     s.puzzle.ID,
		Tiles:        make([]Tile, len(s.grid)),
		Solved:       make([]SolvedRow, 0, len(s.lockIns)),
		Selected:     s.Selected(),
		MistakesLeft: s.mistakes,
		Status:       s.Status(),
		Phase:        PhaseIdle,
		CanSubmit:    s.CanSubmit(),
		CanShuffle:   !s.Finished(),
		CueIndex:     -1,
	}
	if v.Selected == nil {
		v.Selected = []string{}
	}
	solved := len(s.lockIns) * Cols
	for i, w := range s.grid {
		t := Tile{Index: i, Row: RowOf(i), Col: i % Cols, Word: w, Hidden: i < solved}
		if j := indexOf(s.selected, w); j >= 0 {
			t.Selected, t.Order = true, j+1
		}
		v.Tiles[i] = t
	}
	for row, set := range s.LockIns() {
		v.Solved = append(v.Solved, SolvedRow{
			Row:      row,
			Solution: set.Solution,
			Type:     set.Type,
			Color:    set.Type.Color(),
			Words:    append([]string(nil), set.Words...),
		})
	}
	if v.Status == StatusLost {
		v.Revealed = s.Unsolved()
	}
	return v
}
