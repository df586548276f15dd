package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// SessionCookie is the cookie carrying the opaque gateway session ID.
const SessionCookie = "stride_session"

// Identity describes the authenticated caller resolved from a gateway session.
type Identity struct {
	SessionID string
	UserID    string
	CompanyID string
	Role      string
}

// SessionResolver validates an opaque session ID against the session registry.
// Error Contract: returns a domain error with code unauthorized or not_found
// when the session is missing, expired, or signed out.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*Identity, error)
}

type identityKey struct{}

// GetIdentity retrieves the authenticated identity from the context.
// Returns nil on anonymous requests.
func GetIdentity(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return id
	}
	return nil
}

// RequireSession is the route guard: it re-evaluates the gateway session on
// every request, so a sign-out takes effect immediately on the next call
// without any client-side navigation. Unauthenticated requests get a 401 with
// a redirect hint to the login route.
func RequireSession(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromRequest(r)
			if sessionID == "" {
				unauthorized(w)
				return
			}

			identity, err := resolver.Resolve(r.Context(), sessionID)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - session rejected",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates an endpoint on the resolved identity's role. Must be
// mounted inside RequireSession.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				unauthorized(w)
				return
			}
			if identity.Role != role {
				logger.WarnContext(r.Context(), "forbidden - role mismatch",
					"required_role", role,
					"user_id", identity.UserID,
					"request_id", GetRequestID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"Insufficient role"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	// Bearer fallback for non-browser clients.
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Sign in required","redirect":"/auth/login"}`))
}
