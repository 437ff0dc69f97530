package server

import (
	"context"
	"net/http"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the session copy for downstream handlers
const ContextKeySession ContextKey = "session"

// RequireAuthenticated gates a route on an active, unexpired session.
// Requests without one are redirected to the login entry point. Ambiguity
// fails closed: a session that does not satisfy the all-or-nothing
// invariant counts as not authenticated.
func (s *Server) RequireAuthenticated() func(http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		panic("RequireAuthenticated installed without an auth manager")
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess, ok := s.auth.Session()
			if !ok || !sess.Valid() || s.auth.IsTokenExpired() {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAnonymous is the inverse guard: it keeps a signed-in operator out
// of the login and password-reset flows by redirecting to the dashboard.
func (s *Server) RequireAnonymous() func(http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		panic("RequireAnonymous installed without an auth manager")
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.auth.Authenticated() && !s.auth.IsTokenExpired() {
				http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}

// RequireRole checks the denormalized session role. Chained after
// RequireAuthenticated so the session is already established.
func (s *Server) RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		panic("RequireRole installed without an auth manager")
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess, ok := s.auth.Session()
			if !ok {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}
			for _, role := range roles {
				if sess.Role == role {
					next(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, "insufficient role")
		}
	}
}
