// internal/httpserver/server.go
//
// HTTP server wiring for the Connections backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     zerolog access log).
//   - Public endpoints: "/", "/health", "/puzzles".
//   - Game endpoints (optional auth): mounted under /game (routes_game.go).
//   - Daily puzzle endpoints (optional auth): mounted under /daily (routes_daily.go).
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (routes_auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the user when a valid token is
//     present; guests are identified by an anonymous cookie.
//   - The websocket feed is mounted outside the handler timeout.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/auth"
	"github.com/robalobadob/connections/internal/catalog"
	"github.com/robalobadob/connections/internal/config"
	"github.com/robalobadob/connections/internal/feed"
	"github.com/robalobadob/connections/internal/storage"
	"github.com/robalobadob/connections/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config  config.Config
	Catalog *catalog.Catalog
	Store   store.Store
	DB      *storage.DB
	Hub     *feed.Hub
}

// Server bundles router and dependencies.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	cat   *catalog.Catalog
	store store.Store
	db    *storage.DB
	auth  *auth.Manager
	hub   *feed.Hub
	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   d.Config,
		cat:   d.Catalog,
		store: d.Store,
		db:    d.DB,
		auth:  auth.NewManager(d.Config.JWTSecret, d.Config.JWTExpiresDays, d.Config.CookieName, d.Config.Production()),
		hub:   d.Hub,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(accessLog())                 // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(jsonContentType)             // default JSON responses
	s.r.Use(cors(d.Config.ClientOrigin)) // credentials-friendly CORS
	s.r.Use(s.withOptionalAuth)          // user context when token present

	// websocket feed, no handler timeout
	s.r.Get("/game/{id}/ws", s.handleFeed)

	timeout := d.Config.HandlerTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"connections-go","endpoints":["/health","/puzzles","POST /game/new","/game/{id}/*","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/puzzles", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"puzzles": s.cat.IDs()})
		})

		s.mountGame(r)
		s.mountDaily(r)
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeStatus encodes v as the response body with an explicit status.
func writeStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	writeJSON(w, v)
}

// httpError writes a JSON error body with code.
func httpError(w http.ResponseWriter, code int, msg string) {
	writeStatus(w, code, map[string]string{"error": msg})
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}
