package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "stride/pkg/domain-errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type staticResolver struct {
	identity *Identity
	err      error
}

func (s *staticResolver) Resolve(ctx context.Context, sessionID string) (*Identity, error) {
	return s.identity, s.err
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	guard := RequireSession(&staticResolver{}, discardLogger())
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/auth/login"`)
}

func TestRequireSessionAcceptsBearerFallback(t *testing.T) {
	resolver := &staticResolver{identity: &Identity{SessionID: "gws_x", UserID: "u", Role: "Employee"}}
	guard := RequireSession(resolver, discardLogger())

	var seen *Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetIdentity(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer gws_x")
	rec := httptest.NewRecorder()
	guard(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "gws_x", seen.SessionID)
}

func TestRequireSessionRejectsResolverError(t *testing.T) {
	resolver := &staticResolver{err: dErrors.New(dErrors.CodeUnauthorized, "session expired")}
	guard := RequireSession(resolver, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "gws_stale"})
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	gate := RequireRole("HR Admin", discardLogger())

	employee := &Identity{SessionID: "gws_a", Role: "Employee"}
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(context.WithValue(req.Context(), identityKey{}, employee))
	rec := httptest.NewRecorder()
	gate(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &Identity{SessionID: "gws_b", Role: "HR Admin"}
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(context.WithValue(req.Context(), identityKey{}, admin))
	rec = httptest.NewRecorder()
	gate(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterThrottlesPerClient(t *testing.T) {
	rl := NewRateLimiter(2, discardLogger())
	limited := rl.Limit(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:3333"))

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111"))
}

func TestContentTypeJSON(t *testing.T) {
	wrapped := ContentTypeJSON(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// GET requests are never content-type checked.
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDPropagates(t *testing.T) {
	var got string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	RequestID(inner).ServeHTTP(rec, req)

	assert.Equal(t, "req-123", got)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
