// internal/game/choreo.go
//
// Animation choreography that follows a committed submission.
//
// A Choreography is an ordered list of cues. Each cue waits on a
// JoinCounter: it completes only after every one of its signals has fired
// exactly once, and only then does the next cue start. The engine state is
// already final when a choreography is built, so a view that never signals
// (or a caller that settles early) cannot corrupt the grid.
//
// Cues per outcome:
//   - matched:  bounce (selected tiles, selection order) → swap (both
//     tiles of each planned swap, skipped for an empty plan) → reveal (row).
//   - rejected: bounce → shake (selected tiles) → one_away (only if near miss).

package game

// CueKind names a presentation step.
type CueKind string

const (
	CueBounce  CueKind = "bounce"
	CueSwap    CueKind = "swap"
	CueReveal  CueKind = "reveal"
	CueShake   CueKind = "shake"
	CueOneAway CueKind = "one_away"
)

// Cue is one presentation step. Signals lists the ids the view must
// report before the cue completes: grid indices for tile cues, the row
// for reveal, 0 for the one-away notice.
type Cue struct {
	Kind    CueKind `json:"kind"`
	Signals []int   `json:"signals"`
	Swaps   []Swap  `json:"swaps,omitempty"`
	Row     int     `json:"row,omitempty"`
}

// JoinCounter completes after a fixed set of signals each fired once.
type JoinCounter struct {
	pending map[int]bool
}

// NewJoinCounter waits on the given ids. Duplicate ids count once.
func NewJoinCounter(ids ...int) *JoinCounter {
	j := &JoinCounter{pending: make(map[int]bool, len(ids))}
	for _, id := range ids {
		j.pending[id] = true
	}
	return j
}

// Fire records id. It returns false when id was unknown or already fired.
func (j *JoinCounter) Fire(id int) bool {
	if !j.pending[id] {
		return false
	}
	delete(j.pending, id)
	return true
}

// Remaining is the number of signals still outstanding.
func (j *JoinCounter) Remaining() int { return len(j.pending) }

// Done reports whether every signal fired.
func (j *JoinCounter) Done() bool { return len(j.pending) == 0 }

// Choreography sequences cues.
type Choreography struct {
	cues    []Cue
	current int
	join    *JoinCounter
}

// Choreograph builds the cues for an outcome. Ignored submissions have
// nothing to animate and return nil.
func Choreograph(o Outcome) *Choreography {
	var cues []Cue
	switch o.Kind {
	case OutcomeMatched:
		cues = append(cues, Cue{Kind: CueBounce, Signals: append([]int(nil), o.Positions...)})
		if len(o.Plan) > 0 {
			swap := Cue{Kind: CueSwap, Swaps: append([]Swap(nil), o.Plan...)}
			for _, s := range o.Plan {
				swap.Signals = append(swap.Signals, s.From, s.To)
			}
			cues = append(cues, swap)
		}
		cues = append(cues, Cue{Kind: CueReveal, Signals: []int{o.TargetRow}, Row: o.TargetRow})
	case OutcomeRejected:
		cues = append(cues,
			Cue{Kind: CueBounce, Signals: append([]int(nil), o.Positions...)},
			Cue{Kind: CueShake, Signals: append([]int(nil), o.Positions...)},
		)
		if o.OneAway {
			cues = append(cues, Cue{Kind: CueOneAway, Signals: []int{0}})
		}
	default:
		return nil
	}
	c := &Choreography{cues: cues}
	c.start()
	return c
}

func (c *Choreography) start() {
	if c.current < len(c.cues) {
		c.join = NewJoinCounter(c.cues[c.current].Signals...)
	} else {
		c.join = nil
	}
}

// Cues returns every cue in order.
func (c *Choreography) Cues() []Cue { return append([]Cue(nil), c.cues...) }

// Current returns the cue in progress and its index.
func (c *Choreography) Current() (Cue, int, bool) {
	if c.Done() {
		return Cue{}, -1, false
	}
	return c.cues[c.current], c.current, true
}

// Signal reports completion of signal id for cue index cue. Signals for
// any cue other than the current one are ignored. It returns true when the
// signal was counted.
func (c *Choreography) Signal(cue, id int) bool {
	if c.Done() || cue != c.current {
		return false
	}
	if !c.join.Fire(id) {
		return false
	}
	if c.join.Done() {
		c.current++
		c.start()
	}
	return true
}

// Settle completes every remaining cue.
func (c *Choreography) Settle() {
	c.current = len(c.cues)
	c.join = nil
}

// Done reports whether every cue completed.
func (c *Choreography) Done() bool { return c == nil || c.current >= len(c.cues) }
