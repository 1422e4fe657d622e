// internal/httpserver/routes_game.go
//
// Game endpoints (optional auth, guests can play):
//   - POST /game/new             → start a session on a random or named puzzle
//   - GET  /game/{id}            → current view
//   - POST /game/{id}/toggle     → select/deselect a word
//   - POST /game/{id}/deselect   → clear the selection
//   - POST /game/{id}/shuffle    → re-randomize unsolved rows
//   - POST /game/{id}/submit     → evaluate the selection
//   - POST /game/{id}/signal     → report one finished animation
//   - POST /game/{id}/settle     → skip the remaining animations
//   - GET  /game/{id}/ws         → websocket feed of views
//
// Every change is published to the feed. Progress is written to the DB
// after each submission (best effort).

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/connections/internal/auth"
	"github.com/robalobadob/connections/internal/catalog"
	"github.com/robalobadob/connections/internal/game"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/storage"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.handleView)
		r.Post("/toggle", s.handleToggle)
		r.Post("/deselect", s.handleDeselect)
		r.Post("/shuffle", s.handleShuffle)
		r.Post("/submit", s.handleSubmit)
		r.Post("/signal", s.handleSignal)
		r.Post("/settle", s.handleSettle)
	})
}

type newGameReq struct {
	PuzzleID string `json:"puzzleId"` // optional, random when empty
}

type gameRes struct {
	GameID string    `json:"gameId"`
	Mode   game.Mode `json:"mode"`
	View   game.View `json:"view"`
}

// handleNewGame creates a session and persists an owner row for
// history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var p *puzzle.Puzzle
	if req.PuzzleID == "" {
		p = s.cat.Random()
	} else {
		var err error
		if p, err = s.cat.ByID(req.PuzzleID); errors.Is(err, catalog.ErrNotFound) {
			httpError(w, http.StatusNotFound, "unknown_puzzle")
			return
		}
	}

	sess, err := s.startSession(r, s.owner(w, r), p, game.Options{Mode: game.ModeNormal})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start game")
		httpError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, gameRes{GameID: sess.ID, Mode: sess.Mode, View: sess.View()})
}

// startSession creates, stores and records a session owned by o.
func (s *Server) startSession(r *http.Request, o storage.Owner, p *puzzle.Puzzle, opts game.Options) (*game.Session, error) {
	opts.Player = o.ID()
	opts.Mistakes = s.cfg.MistakeBudget
	sess, err := game.NewSession(p, opts)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		return nil, err
	}
	if err := s.db.InsertGame(r.Context(), o, sess.ID, p.ID, string(sess.Mode), sess.StartedAt); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}
	return sess, nil
}

// session loads the {id} session if the caller may play it.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || !mayPlay(r, sess) {
		httpError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

// mayPlay reports whether the request comes from the session's creator,
// either by account or by the anonymous cookie it started with.
func mayPlay(r *http.Request, sess *game.Session) bool {
	if me := auth.UserFrom(r.Context()); me != nil && me.ID == sess.Player {
		return true
	}
	a := anonID(r)
	return a != "" && a == sess.Player
}

// inputError maps session errors to responses.
func inputError(w http.ResponseWriter, err error, v game.View) {
	var unknown *game.UnknownWordError
	switch {
	case errors.Is(err, game.ErrBusy):
		writeStatus(w, http.StatusConflict, map[string]any{"error": "busy", "view": v})
	case errors.As(err, &unknown):
		writeStatus(w, http.StatusBadRequest, map[string]any{
			"error":      "unknown_word",
			"word":       unknown.Word,
			"suggestion": unknown.Suggestion,
		})
	default:
		httpError(w, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, gameRes{GameID: sess.ID, Mode: sess.Mode, View: sess.View()})
}

type toggleReq struct {
	Word string `json:"word"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req toggleReq
	if err := decodeBody(r, &req); err != nil || req.Word == "" {
		httpError(w, http.StatusBadRequest, "bad_json")
		return
	}
	v, err := sess.Toggle(req.Word)
	if err != nil {
		inputError(w, err, v)
		return
	}
	s.hub.Publish(sess.ID, "toggle", v)
	writeJSON(w, v)
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := sess.DeselectAll()
	if err != nil {
		inputError(w, err, v)
		return
	}
	s.hub.Publish(sess.ID, "deselect", v)
	writeJSON(w, v)
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := sess.Shuffle()
	if err != nil {
		inputError(w, err, v)
		return
	}
	s.hub.Publish(sess.ID, "shuffle", v)
	writeJSON(w, v)
}

type submitRes struct {
	Outcome game.Outcome `json:"outcome"`
	Cues    []game.Cue   `json:"cues"`
	View    game.View    `json:"view"`
}

// handleSubmit evaluates the selection, then records progress and, for a
// finished daily game, the daily result.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	out, v, err := sess.Submit()
	if err != nil {
		inputError(w, err, v)
		return
	}

	cues := []game.Cue{}
	if c := game.Choreograph(out); c != nil {
		cues = c.Cues()
	}
	if out.Kind != game.OutcomeIgnored {
		s.recordProgress(w, r, sess)
	}
	s.hub.Publish(sess.ID, "submit", v)
	writeJSON(w, submitRes{Outcome: out, Cues: cues, View: v})
}

// recordProgress writes the session's progress; failures are logged only.
func (s *Server) recordProgress(w http.ResponseWriter, r *http.Request, sess *game.Session) {
	st := sess.State()
	o := s.owner(w, r)
	err := s.db.UpdateGame(r.Context(), o, sess.ID, storage.Progress{
		Status:   string(st.Status()),
		Mistakes: s.mistakesMade(st),
		Solved:   st.SolvedRows(),
	})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("update game progress")
	}

	if sess.Mode == game.ModeDaily && st.Status() == game.StatusWon {
		res := storage.DailyResult{
			UserID:    sess.Player,
			Date:      sess.Date,
			PuzzleID:  sess.PuzzleID(),
			Mistakes:  s.mistakesMade(st),
			ElapsedMs: int(time.Since(sess.StartedAt).Milliseconds()),
		}
		if err := s.db.InsertDailyResult(r.Context(), res); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("insert daily result")
		}
	}
}

func (s *Server) mistakesMade(st game.State) int {
	budget := s.cfg.MistakeBudget
	if budget <= 0 {
		budget = game.DefaultMistakes
	}
	return budget - st.MistakesLeft()
}

type signalReq struct {
	Cue    int `json:"cue"`
	Signal int `json:"signal"`
}

type signalRes struct {
	Counted bool      `json:"counted"`
	View    game.View `json:"view"`
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req signalReq
	if err := decodeBody(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "bad_json")
		return
	}
	v, counted := sess.Signal(req.Cue, req.Signal)
	if counted {
		s.hub.Publish(sess.ID, "signal", v)
	}
	writeJSON(w, signalRes{Counted: counted, View: v})
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v := sess.Settle()
	s.hub.Publish(sess.ID, "settle", v)
	writeJSON(w, v)
}

// handleFeed upgrades to a websocket that receives every view of the game.
// Anyone holding the game id may watch.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found")
		return
	}
	s.hub.ServeWS(w, r, sess.ID, sess.View())
}
