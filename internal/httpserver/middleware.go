package httpserver

import (
	"errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/connections/internal/auth"
	"github.com/robalobadob/connections/internal/storage"
)

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs one line per request with the chi request id.
func accessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("took", d).
			Msg("request")
	})
}

// withOptionalAuth decorates requests with user context if a valid JWT is
// present and the user still exists. It never 401s.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.auth.TokenFrom(r); tok != "" {
			if claimed, err := s.auth.ParseToken(tok); err == nil {
				if u, err := s.db.UserByID(r.Context(), claimed.ID); err == nil {
					r = r.WithContext(auth.WithUser(r.Context(), &auth.User{ID: u.ID, Username: u.Username}))
				} else if !errors.Is(err, storage.ErrNotFound) {
					hlog.FromRequest(r).Warn().Err(err).Msg("load token user")
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests that withOptionalAuth did not decorate.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFrom(r.Context()) == nil {
			httpError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// owner returns the storage owner for the current request: the signed-in
// user, or the anonymous cookie id (set when missing). Call it once per
// request; a guest without a cookie gets a fresh id on every call.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) storage.Owner {
	if me := auth.UserFrom(r.Context()); me != nil {
		return storage.Owner{UserID: me.ID}
	}
	return storage.Owner{AnonymousID: s.auth.EnsureAnonID(w, r)}
}

// anonID returns the anonymous cookie id without setting one.
func anonID(r *http.Request) string {
	if c, err := r.Cookie(auth.AnonCookieName); err == nil {
		return c.Value
	}
	return ""
}
