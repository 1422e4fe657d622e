package game

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/robalobadob/connections/internal/puzzle"
)

func scenarioState(t *testing.T) State {
	t.Helper()
	st, err := NewWithGrid(letters(), scenarioGrid, 0)
	if err != nil {
		t.Fatalf("NewWithGrid() error = %v", err)
	}
	return st
}

func selectAll(s State, words ...string) State {
	for _, w := range words {
		s = s.Toggle(w)
	}
	return s
}

func TestNewShufflesAllWords(t *testing.T) {
	p := letters()
	st := New(p, rand.New(rand.NewSource(1)), 0)
	g := st.Grid()
	got := append([]string(nil), g[:]...)
	sort.Strings(got)
	want := p.WordList()
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("grid words = %v, want %v", got, want)
	}
	if st.MistakesLeft() != DefaultMistakes {
		t.Errorf("MistakesLeft() = %d, want %d", st.MistakesLeft(), DefaultMistakes)
	}
}

func TestNewWithGridRejectsForeignWords(t *testing.T) {
	g := scenarioGrid
	g[0] = "Z"
	if _, err := NewWithGrid(letters(), g, 0); err == nil {
		t.Fatal("expected error for foreign word")
	}
	g = scenarioGrid
	g[0] = "E" // E twice, A missing
	if _, err := NewWithGrid(letters(), g, 0); err == nil {
		t.Fatal("expected error for duplicate word")
	}
}

func TestToggle(t *testing.T) {
	st := scenarioState(t)

	t.Run("add and remove", func(t *testing.T) {
		s := st.Toggle("A")
		if !reflect.DeepEqual(s.Selected(), []string{"A"}) {
			t.Fatalf("Selected() = %v", s.Selected())
		}
		s = s.Toggle("A")
		if len(s.Selected()) != 0 {
			t.Errorf("toggle twice should restore empty selection, got %v", s.Selected())
		}
	})

	t.Run("cap at four", func(t *testing.T) {
		s := selectAll(st, "A", "E", "I", "M", "B")
		if got := s.Selected(); !reflect.DeepEqual(got, []string{"A", "E", "I", "M"}) {
			t.Errorf("Selected() = %v", got)
		}
		s = s.Toggle("E")
		if got := s.Selected(); !reflect.DeepEqual(got, []string{"A", "I", "M"}) {
			t.Errorf("deselect at cap: Selected() = %v", got)
		}
	})

	t.Run("unknown word ignored", func(t *testing.T) {
		if s := st.Toggle("Z"); len(s.Selected()) != 0 {
			t.Errorf("unknown word selected: %v", s.Selected())
		}
	})

	t.Run("receiver untouched", func(t *testing.T) {
		base := st.Toggle("A")
		_ = base.Toggle("B")
		if !reflect.DeepEqual(base.Selected(), []string{"A"}) {
			t.Errorf("Toggle mutated receiver: %v", base.Selected())
		}
	})
}

func TestSubmitMatchScenario(t *testing.T) {
	st := selectAll(scenarioState(t), "A", "B", "C", "D")
	next, out := st.Submit()

	if out.Kind != OutcomeMatched {
		t.Fatalf("Kind = %q, want matched", out.Kind)
	}
	if out.Set == nil || out.Set.Type != puzzle.Green {
		t.Fatalf("Set = %+v, want green", out.Set)
	}
	wantPhases := []Phase{PhaseEvaluating, PhaseMatchFound, PhaseCompacting, PhaseLockedIn, PhaseIdle}
	if !reflect.DeepEqual(out.Phases, wantPhases) {
		t.Errorf("Phases = %v, want %v", out.Phases, wantPhases)
	}
	if !reflect.DeepEqual(out.Positions, []int{0, 2, 5, 9}) {
		t.Errorf("Positions = %v", out.Positions)
	}

	g := next.Grid()
	assertRowIsSet(t, g, 0, letters().Sets[0])
	// Only the displaced E and I changed place among the other words.
	for i, w := range scenarioGrid {
		if w == "E" || w == "I" || letters().Sets[0].Contains(w) {
			continue
		}
		if g[i] != w {
			t.Errorf("word %q moved from %d", w, i)
		}
	}

	locks := next.LockIns()
	if len(locks) != 1 || locks[0].Type != puzzle.Green {
		t.Errorf("LockIns() = %v", locks)
	}
	if next.MistakesLeft() != DefaultMistakes {
		t.Errorf("MistakesLeft() = %d", next.MistakesLeft())
	}
	if len(next.Selected()) != 0 {
		t.Errorf("selection not cleared: %v", next.Selected())
	}
	if st.SolvedRows() != 0 || st.Grid() != scenarioGrid {
		t.Error("Submit mutated receiver")
	}
}

func TestSubmitMatchAlreadyInRow(t *testing.T) {
	g := Grid{
		"B", "A", "D", "C",
		"E", "F", "G", "H",
		"I", "J", "K", "L",
		"M", "N", "O", "P",
	}
	st, err := NewWithGrid(letters(), g, 0)
	if err != nil {
		t.Fatal(err)
	}
	next, out := selectAll(st, "A", "B", "C", "D").Submit()
	if out.Kind != OutcomeMatched || len(out.Plan) != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	for _, p := range out.Phases {
		if p == PhaseCompacting {
			t.Error("empty plan should skip compacting")
		}
	}
	if next.Grid() != g {
		t.Error("grid changed for empty plan")
	}
}

func TestSubmitOneAway(t *testing.T) {
	st := selectAll(scenarioState(t), "A", "B", "C", "E")
	next, out := st.Submit()

	if out.Kind != OutcomeRejected || !out.OneAway {
		t.Fatalf("outcome = %+v, want rejected one-away", out)
	}
	if next.MistakesLeft() != DefaultMistakes-1 {
		t.Errorf("MistakesLeft() = %d", next.MistakesLeft())
	}
	if next.Attempts() != 1 {
		t.Errorf("Attempts() = %d", next.Attempts())
	}
	if len(next.Selected()) != 0 || next.SolvedRows() != 0 {
		t.Errorf("selection=%v solved=%d", next.Selected(), next.SolvedRows())
	}
	if next.Grid() != scenarioGrid {
		t.Error("grid changed on reject")
	}
}

func TestResubmitSameGuessIsIgnored(t *testing.T) {
	st := selectAll(scenarioState(t), "A", "B", "C", "E")
	st, _ = st.Submit()

	// Same words, different order.
	st = selectAll(st, "E", "C", "B", "A")
	if st.CanSubmit() {
		t.Fatal("CanSubmit() should be false for a repeated guess")
	}
	next, out := st.Submit()
	if out.Kind != OutcomeIgnored {
		t.Errorf("Kind = %q, want ignored", out.Kind)
	}
	if next.MistakesLeft() != DefaultMistakes-1 {
		t.Errorf("MistakesLeft() = %d", next.MistakesLeft())
	}
	if len(next.Selected()) != 4 {
		t.Errorf("ignored submit should keep the selection, got %v", next.Selected())
	}
}

func TestSubmitNeedsFourWords(t *testing.T) {
	st := selectAll(scenarioState(t), "A", "B", "C")
	next, out := st.Submit()
	if out.Kind != OutcomeIgnored || next.MistakesLeft() != DefaultMistakes {
		t.Errorf("outcome=%+v mistakes=%d", out, next.MistakesLeft())
	}
}

func TestLoseAfterBudget(t *testing.T) {
	st := scenarioState(t)
	guesses := [][]string{
		{"A", "B", "C", "E"},
		{"A", "B", "C", "F"},
		{"A", "B", "C", "G"},
		{"A", "B", "C", "H"},
	}
	for _, g := range guesses {
		st, _ = selectAll(st, g...).Submit()
	}
	if st.Status() != StatusLost || st.MistakesLeft() != 0 {
		t.Fatalf("status=%q mistakes=%d", st.Status(), st.MistakesLeft())
	}

	if s := st.Toggle("A"); len(s.Selected()) != 0 {
		t.Error("toggle after loss should be ignored")
	}
	if s := st.Shuffle(rand.New(rand.NewSource(3))); s.Grid() != st.Grid() {
		t.Error("shuffle after loss should be ignored")
	}
	v := st.View()
	if len(v.Revealed) != puzzle.SetCount || v.CanSubmit || v.CanShuffle {
		t.Errorf("view after loss = %+v", v)
	}
}

func TestWinAfterFourMatches(t *testing.T) {
	st := scenarioState(t)
	for _, set := range letters().Sets {
		var out Outcome
		st, out = selectAll(st, set.Words...).Submit()
		if out.Kind != OutcomeMatched {
			t.Fatalf("set %s: Kind = %q", set.Solution, out.Kind)
		}
	}
	if st.Status() != StatusWon {
		t.Fatalf("Status() = %q", st.Status())
	}
	for row, set := range letters().Sets {
		assertRowIsSet(t, st.Grid(), row, set)
	}
	v := st.View()
	if len(v.Solved) != 4 || v.Solved[3].Color != puzzle.Purple.Color() {
		t.Errorf("solved rows = %+v", v.Solved)
	}
	for _, tile := range v.Tiles {
		if !tile.Hidden {
			t.Errorf("tile %d should be hidden", tile.Index)
		}
	}
}

func TestShuffleKeepsSolvedRows(t *testing.T) {
	st, _ := selectAll(scenarioState(t), "A", "B", "C", "D").Submit()
	before := st.Grid()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		st = st.Shuffle(rng)
		g := st.Grid()
		for j := 0; j < Cols; j++ {
			if g[j] != before[j] {
				t.Fatalf("solved position %d changed: %q -> %q", j, before[j], g[j])
			}
		}
		got := append([]string(nil), g[Cols:]...)
		want := append([]string(nil), before[Cols:]...)
		sort.Strings(got)
		sort.Strings(want)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle changed membership: %v vs %v", got, want)
		}
	}
}

func TestSolvedWordsCannotBeSelected(t *testing.T) {
	st, _ := selectAll(scenarioState(t), "A", "B", "C", "D").Submit()
	if s := st.Toggle("A"); len(s.Selected()) != 0 {
		t.Error("solved word was selected")
	}
}

func TestViewMarksSelection(t *testing.T) {
	st := selectAll(scenarioState(t), "E", "A")
	v := st.View()
	if !v.Tiles[1].Selected || v.Tiles[1].Order != 1 {
		t.Errorf("tile E = %+v", v.Tiles[1])
	}
	if !v.Tiles[0].Selected || v.Tiles[0].Order != 2 {
		t.Errorf("tile A = %+v", v.Tiles[0])
	}
	if v.Tiles[2].Selected || v.CanSubmit {
		t.Errorf("unexpected view %+v", v)
	}
	if v.Phase != PhaseIdle || v.Status != StatusPlaying {
		t.Errorf("phase=%q status=%q", v.Phase, v.Status)
	}
}
