package http_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stride/internal/platform/metrics"
	"stride/internal/session"
	"stride/internal/session/registry"
	transport "stride/internal/transport/http"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

type stubRefresher struct {
	creds *session.Credentials
	err   error
	calls int
}

func (s *stubRefresher) RefreshSession(ctx context.Context, refreshToken string) (*session.Credentials, error) {
	s.calls++
	return s.creds, s.err
}

func newRecord(expiresAt time.Time) *registry.Record {
	now := time.Now()
	return &registry.Record{
		ID:           id.NewSessionID(),
		UserID:       id.NewUserID(),
		CompanyID:    id.NewCompanyID(),
		Role:         session.RoleEmployee,
		Email:        "taylor@acme.test",
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
		LastSeenAt:   now,
	}
}

func TestResolveRefreshesNearExpirySession(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemoryStore()
	record := newRecord(time.Now().Add(time.Minute))
	require.NoError(t, reg.Save(ctx, record))

	refresher := &stubRefresher{creds: &session.Credentials{
		UserID:       record.UserID,
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}}
	resolver := transport.NewRegistryResolver(reg, refresher, nil, discardLogger(), nil)

	identity, err := resolver.Resolve(ctx, string(record.ID))
	require.NoError(t, err)
	assert.Equal(t, record.UserID.String(), identity.UserID)
	assert.Equal(t, 1, refresher.calls)

	stored, err := reg.Find(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-access", stored.AccessToken)
	assert.Equal(t, "new-refresh", stored.RefreshToken)
	assert.True(t, stored.ExpiresAt.After(time.Now().Add(30*time.Minute)))
}

func TestResolveLeavesFreshSessionAlone(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemoryStore()
	record := newRecord(time.Now().Add(time.Hour))
	require.NoError(t, reg.Save(ctx, record))

	refresher := &stubRefresher{err: dErrors.New(dErrors.CodeUnauthorized, "refresh token revoked")}
	resolver := transport.NewRegistryResolver(reg, refresher, nil, discardLogger(), nil)

	_, err := resolver.Resolve(ctx, string(record.ID))
	require.NoError(t, err)
	assert.Zero(t, refresher.calls)
}

func TestResolveExpiredSessionWithFailedRefresh(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemoryStore()
	record := newRecord(time.Now().Add(-time.Minute))
	require.NoError(t, reg.Save(ctx, record))

	refresher := &stubRefresher{err: dErrors.New(dErrors.CodeUnauthorized, "refresh token revoked")}
	resolver := transport.NewRegistryResolver(reg, refresher, nil, discardLogger(), nil)

	_, err := resolver.Resolve(ctx, string(record.ID))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	// The expired record is gone; the next request cannot resolve at all.
	_, err = reg.Find(ctx, record.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestResolveExpiredSessionRevivedByRefresh(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemoryStore()
	record := newRecord(time.Now().Add(-time.Minute))
	require.NoError(t, reg.Save(ctx, record))

	refresher := &stubRefresher{creds: &session.Credentials{
		UserID:      record.UserID,
		AccessToken: "new-access",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	resolver := transport.NewRegistryResolver(reg, refresher, nil, discardLogger(), nil)

	identity, err := resolver.Resolve(ctx, string(record.ID))
	require.NoError(t, err)
	assert.Equal(t, string(session.RoleEmployee), identity.Role)
}

func TestResolveExpiredSessionReleasesActiveSessionGauge(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemoryStore()
	record := newRecord(time.Now().Add(-time.Minute))
	require.NoError(t, reg.Save(ctx, record))

	// Registration is global, so this is the only test in the package that
	// constructs the metrics set.
	m := metrics.New()
	m.IncrementActiveSessions(1)
	resolver := transport.NewRegistryResolver(reg, nil, m, discardLogger(), nil)

	_, err := resolver.Resolve(ctx, string(record.ID))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	// The lapsed session left the registry through the resolver, not through
	// sign-out, and the gauge must fall with it.
	assert.Equal(t, float64(0), promtest.ToFloat64(m.ActiveSessions))
}

func TestResolveUnknownSession(t *testing.T) {
	resolver := transport.NewRegistryResolver(registry.NewMemoryStore(), nil, nil, discardLogger(), nil)
	_, err := resolver.Resolve(context.Background(), string(id.NewSessionID()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
