// internal/game/session.go
//
// Session wraps a State for concurrent callers (HTTP handlers, feed
// broadcasts) and gates input on the choreography of the last submission.
//
// While a choreography is pending the session is "animating": toggle,
// deselect, shuffle and submit return ErrBusy until the view has signalled
// every cue or the caller settles.

package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/robalobadob/connections/internal/puzzle"
)

// ErrBusy is returned for input received while a choreography is pending.
var ErrBusy = errors.New("animation in progress")

// Mode distinguishes free play from the daily puzzle.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// Session is one game in progress.
type Session struct {
	ID        string
	Mode      Mode
	Date      string // daily date key, empty in normal mode
	Player    string // user or anonymous id of the creator
	StartedAt time.Time

	mu     sync.Mutex
	state  State
	choreo *Choreography
	rng    *rand.Rand
}

// Options tunes NewSession. Zero values pick defaults.
type Options struct {
	Mode     Mode
	Date     string
	Player   string
	Mistakes int
	// Rand seeds the shuffles; nil seeds from crypto/rand.
	Rand *rand.Rand
	// Grid fixes the initial arrangement instead of shuffling.
	Grid *Grid
}

// NewSession starts a game on p, which must already be validated.
func NewSession(p *puzzle.Puzzle, opts Options) (*Session, error) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(randomSeed()))
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeNormal
	}

	var st State
	if opts.Grid != nil {
		var err error
		if st, err = NewWithGrid(p, *opts.Grid, opts.Mistakes); err != nil {
			return nil, err
		}
	} else {
		st = New(p, rng, opts.Mistakes)
	}

	return &Session{
		ID:        randomID(),
		Mode:      mode,
		Date:      opts.Date,
		Player:    opts.Player,
		StartedAt: time.Now().UTC(),
		state:     st,
		rng:       rng,
	}, nil
}

// PuzzleID returns the id of the puzzle being played.
func (s *Session) PuzzleID() string { return s.state.puzzle.ID }

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current snapshot plus any pending cue.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	v := s.state.View()
	if cue, idx, ok := s.choreo.Current(); ok {
		v.Phase = PhaseAnimating
		v.PendingCue = &cue
		v.CueIndex = idx
		v.CanSubmit = false
		v.CanShuffle = false
	}
	return v
}

// busy reports whether a choreography is pending. Callers hold mu.
func (s *Session) busy() bool { return !s.choreo.Done() }

// Toggle selects or deselects word. Input is matched case-insensitively;
// unknown words return an *UnknownWordError.
func (s *Session) Toggle(word string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return s.view(), ErrBusy
	}
	w, err := s.state.Resolve(word)
	if err != nil {
		return s.view(), err
	}
	s.state = s.state.Toggle(w)
	return s.view(), nil
}

// DeselectAll clears the selection.
func (s *Session) DeselectAll() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return s.view(), ErrBusy
	}
	s.state = s.state.DeselectAll()
	return s.view(), nil
}

// Shuffle re-randomizes the unsolved rows.
func (s *Session) Shuffle() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return s.view(), ErrBusy
	}
	s.state = s.state.Shuffle(s.rng)
	return s.view(), nil
}

// Submit evaluates the selection and commits the result before building
// the choreography for it.
func (s *Session) Submit() (Outcome, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return Outcome{Kind: OutcomeIgnored, Phases: []Phase{PhaseAnimating}}, s.view(), ErrBusy
	}
	next, out := s.state.Submit()
	s.state = next
	s.choreo = Choreograph(out)
	return out, s.view(), nil
}

// Signal records one animation completion for cue. It reports whether
// the signal was counted; stale or repeated signals are ignored.
func (s *Session) Signal(cue, id int) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.choreo == nil {
		return s.view(), false
	}
	ok := s.choreo.Signal(cue, id)
	return s.view(), ok
}

// Settle finishes any pending choreography.
func (s *Session) Settle() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.choreo != nil {
		s.choreo.Settle()
	}
	return s.view()
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
