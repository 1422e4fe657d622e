package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestJoinCounterFiresEachSignalOnce(t *testing.T) {
	j := NewJoinCounter(1, 2, 2, 3)
	if j.Remaining() != 3 {
		t.Fatalf("Remaining() = %d, want 3", j.Remaining())
	}
	if !j.Fire(2) {
		t.Error("first Fire(2) should count")
	}
	if j.Fire(2) {
		t.Error("second Fire(2) should be ignored")
	}
	if j.Fire(9) {
		t.Error("unknown signal should be ignored")
	}
	j.Fire(1)
	if j.Done() {
		t.Error("Done() before all signals")
	}
	j.Fire(3)
	if !j.Done() {
		t.Error("Done() should be true")
	}
}

func TestChoreographMatch(t *testing.T) {
	st := selectAll(scenarioState(t), "A", "B", "C", "D")
	_, out := st.Submit()
	c := Choreograph(out)

	cues := c.Cues()
	if len(cues) != 3 || cues[0].Kind != CueBounce || cues[1].Kind != CueSwap || cues[2].Kind != CueReveal {
		t.Fatalf("cues = %+v", cues)
	}
	if len(cues[1].Signals) != 2*len(out.Plan) {
		t.Errorf("swap cue waits on %d signals, want %d", len(cues[1].Signals), 2*len(out.Plan))
	}

	for _, id := range out.Positions {
		if !c.Signal(0, id) {
			t.Fatalf("bounce signal %d not counted", id)
		}
	}
	cue, idx, ok := c.Current()
	if !ok || idx != 1 || cue.Kind != CueSwap {
		t.Fatalf("Current() = %+v %d %v", cue, idx, ok)
	}
	if c.Signal(0, out.Positions[0]) {
		t.Error("signal for a finished cue should be ignored")
	}
	for _, id := range cue.Signals {
		c.Signal(1, id)
	}
	c.Signal(2, 0)
	if !c.Done() {
		t.Error("choreography should be done")
	}
}

func TestChoreographReject(t *testing.T) {
	_, out := selectAll(scenarioState(t), "A", "B", "C", "E").Submit()
	cues := Choreograph(out).Cues()
	if len(cues) != 3 || cues[1].Kind != CueShake || cues[2].Kind != CueOneAway {
		t.Fatalf("cues = %+v", cues)
	}

	_, out = selectAll(scenarioState(t), "A", "B", "E", "F").Submit()
	if cues := Choreograph(out).Cues(); len(cues) != 2 {
		t.Errorf("plain reject should have 2 cues, got %+v", cues)
	}
}

func TestChoreographIgnoredIsNil(t *testing.T) {
	c := Choreograph(Outcome{Kind: OutcomeIgnored})
	if c != nil || !c.Done() {
		t.Error("ignored outcome should have no choreography")
	}
}

func newScenarioSession(t *testing.T) *Session {
	t.Helper()
	g := scenarioGrid
	s, err := NewSession(letters(), Options{Grid: &g, Rand: rand.New(rand.NewSource(5))})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func TestSessionGatesInputWhileAnimating(t *testing.T) {
	s := newScenarioSession(t)
	for _, w := range []string{"a", "b", " c ", "D"} {
		if _, err := s.Toggle(w); err != nil {
			t.Fatalf("Toggle(%q) error = %v", w, err)
		}
	}
	out, v, err := s.Submit()
	if err != nil || out.Kind != OutcomeMatched {
		t.Fatalf("Submit() = %+v, %v", out, err)
	}
	if v.Phase != PhaseAnimating || v.PendingCue == nil || v.PendingCue.Kind != CueBounce {
		t.Fatalf("view after submit = %+v", v)
	}
	// State is already committed.
	if len(v.Solved) != 1 {
		t.Errorf("solved rows = %d, want 1", len(v.Solved))
	}

	if _, err := s.Toggle("E"); !errors.Is(err, ErrBusy) {
		t.Errorf("Toggle while animating: err = %v", err)
	}
	if _, err := s.Shuffle(); !errors.Is(err, ErrBusy) {
		t.Errorf("Shuffle while animating: err = %v", err)
	}
	if _, _, err := s.Submit(); !errors.Is(err, ErrBusy) {
		t.Errorf("Submit while animating: err = %v", err)
	}

	v = s.Settle()
	if v.Phase != PhaseIdle || v.PendingCue != nil {
		t.Errorf("view after settle = %+v", v)
	}
	if _, err := s.Toggle("E"); err != nil {
		t.Errorf("Toggle after settle: %v", err)
	}
}

func TestSessionSignalsDriveCues(t *testing.T) {
	s := newScenarioSession(t)
	for _, w := range []string{"A", "B", "C", "E"} {
		s.Toggle(w)
	}
	out, _, _ := s.Submit()
	if out.Kind != OutcomeRejected {
		t.Fatalf("Kind = %q", out.Kind)
	}

	for cue := 0; cue < 2; cue++ {
		for _, id := range out.Positions {
			if _, ok := s.Signal(cue, id); !ok {
				t.Fatalf("Signal(%d, %d) not counted", cue, id)
			}
		}
	}
	v, ok := s.Signal(2, 0)
	if !ok || v.Phase != PhaseIdle {
		t.Errorf("after one-away signal: ok=%v phase=%q", ok, v.Phase)
	}
	if v.MistakesLeft != DefaultMistakes-1 {
		t.Errorf("MistakesLeft = %d", v.MistakesLeft)
	}
	if _, ok := s.Signal(0, 0); ok {
		t.Error("signal without pending choreography should be ignored")
	}
}

func TestSessionUnknownWord(t *testing.T) {
	s := newScenarioSession(t)
	_, err := s.Toggle("Q")
	var uw *UnknownWordError
	if !errors.As(err, &uw) || !errors.Is(err, ErrUnknownWord) {
		t.Fatalf("err = %v, want UnknownWordError", err)
	}
}

func TestSuggest(t *testing.T) {
	p := letters()
	p.Sets[0].Words = []string{"DRAGON", "HORSE", "RABBIT", "TIGER"}
	g := Grid{
		"DRAGON", "HORSE", "RABBIT", "TIGER",
		"E", "F", "G", "H",
		"I", "J", "K", "L",
		"M", "N", "O", "P",
	}
	st, err := NewWithGrid(p, g, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := st.Suggest("dargon"); got != "DRAGON" {
		t.Errorf("Suggest(dargon) = %q", got)
	}
	if got := st.Suggest("elephant"); got != "" {
		t.Errorf("Suggest(elephant) = %q, want none", got)
	}

	st, _ = selectAll(st, "DRAGON", "HORSE", "RABBIT", "TIGER").Submit()
	if got := st.Suggest("dragon"); got != "" {
		t.Errorf("solved words should not be suggested, got %q", got)
	}
	if _, err := st.Resolve("dragon"); err == nil {
		t.Error("Resolve should reject solved words")
	}
}
