// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Puzzle" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's daily game (creates or reuses session)
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Play then goes through the regular /game/{id}/* routes. Each player can
// play once per day (enforced by DB + in-memory session). Results are
// persisted on a win. Puzzle selection is deterministic on date + salt.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/connections/internal/daily"
	"github.com/robalobadob/connections/internal/game"
	"github.com/robalobadob/connections/internal/storage"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	salt     string
	now      func() time.Time
	sessions map[string]*game.Session // active sessions keyed by playerID|date
	mu       sync.Mutex               // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]*game.Session),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// today returns today's date key and puzzle index.
func (d *dailyServer) today() (date string, idx int) {
	now := d.now().UTC()
	return daily.DateKey(now), daily.PuzzleIndex(now, d.salt, d.srv.cat.Len())
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID   string     `json:"gameId,omitempty"`
	Date     string     `json:"date"`
	PuzzleID string     `json:"puzzleId"`
	Played   bool       `json:"played"`
	View     *game.View `json:"view,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a result for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its id.
//
// A signed-in player is also matched by the anonymous cookie they played
// with as a guest, so logging in does not grant a second attempt.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	o := d.srv.owner(w, r)
	ids := []string{o.ID()}
	if a := anonID(r); o.UserID != "" && a != "" {
		ids = append(ids, a)
	}
	date, idx := d.today()
	p := d.srv.cat.At(idx)

	for _, id := range ids {
		played, err := d.srv.db.DailyAlreadyPlayed(r.Context(), id, date)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("daily already played")
			httpError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeJSON(w, dailyNewRes{Date: date, PuzzleID: p.ID, Played: true})
			return
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		sess, ok := d.sessions[id+"|"+date]
		if !ok {
			continue
		}
		// keep it reachable through /game/{id} even after an idle sweep
		if err := d.srv.store.Save(r.Context(), sess); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("resave daily session")
		}
		v := sess.View()
		writeJSON(w, dailyNewRes{GameID: sess.ID, Date: date, PuzzleID: p.ID, View: &v})
		return
	}

	sess, err := d.srv.startSession(r, o, p, game.Options{Mode: game.ModeDaily, Date: date})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start daily game")
		httpError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[o.ID()+"|"+date] = sess
	d.prune(date)

	v := sess.View()
	writeJSON(w, dailyNewRes{GameID: sess.ID, Date: date, PuzzleID: p.ID, View: &v})
}

// prune forgets sessions from earlier days. Callers hold mu.
func (d *dailyServer) prune(today string) {
	for key, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, key)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string          `json:"date"`
	Top  []storage.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	} else if _, err := daily.ParseDateKey(date); err != nil {
		httpError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.srv.db.DailyLeaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily leaderboard")
		httpError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, lbRes{Date: date, Top: rows})
}
