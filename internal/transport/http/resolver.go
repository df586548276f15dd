package http

import (
	"context"
	"log/slog"
	"time"

	"stride/internal/platform/audit"
	"stride/internal/platform/metrics"
	"stride/internal/platform/middleware"
	"stride/internal/session"
	"stride/internal/session/registry"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// refreshWindow is how close to credential expiry the resolver starts trying
// to exchange the refresh token for a new pair.
const refreshWindow = 5 * time.Minute

// SessionRefresher exchanges a refresh token for fresh credentials.
//
// Error Contract: implementations return domain errors; unauthorized means
// the refresh token itself was rejected.
type SessionRefresher interface {
	RefreshSession(ctx context.Context, refreshToken string) (*session.Credentials, error)
}

// RegistryResolver resolves session cookies against the registry. It is the
// authority RequireSession consults on every request, which is what makes the
// route guard reactive: the moment a record is deleted or expires, the next
// request is anonymous.
type RegistryResolver struct {
	registry  registry.Store
	refresher SessionRefresher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	audit     *audit.Logger
}

// NewRegistryResolver creates a resolver over the registry. refresher may be
// nil, in which case sessions simply lapse at credential expiry.
func NewRegistryResolver(reg registry.Store, refresher SessionRefresher, m *metrics.Metrics, logger *slog.Logger, auditLogger *audit.Logger) *RegistryResolver {
	return &RegistryResolver{registry: reg, refresher: refresher, metrics: m, logger: logger, audit: auditLogger}
}

// Resolve implements middleware.SessionResolver.
func (rr *RegistryResolver) Resolve(ctx context.Context, sessionID string) (*middleware.Identity, error) {
	sid, err := id.ParseSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	record, err := rr.registry.Find(ctx, sid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.After(record.ExpiresAt.Add(-refreshWindow)) {
		rr.tryRefresh(ctx, record)
	}

	if record.Expired(now) {
		if derr := rr.registry.Delete(ctx, sid); derr != nil {
			rr.logger.WarnContext(ctx, "failed to delete expired session", "error", derr)
		} else if rr.metrics != nil {
			rr.metrics.DecrementActiveSessions(1)
		}
		if rr.audit != nil {
			rr.audit.Log(ctx, audit.EventSessionExpired,
				"user_id", record.UserID.String(),
				"email", record.Email,
			)
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session expired")
	}

	// Best effort; a missed touch only skews last-seen bookkeeping.
	if terr := rr.registry.Touch(ctx, sid, now); terr != nil {
		rr.logger.DebugContext(ctx, "failed to touch session", "error", terr)
	}

	return &middleware.Identity{
		SessionID: string(record.ID),
		UserID:    record.UserID.String(),
		CompanyID: record.CompanyID.String(),
		Role:      string(record.Role),
	}, nil
}

// tryRefresh rotates the record's token pair in place. A failed refresh is
// not fatal here: an expired record still falls out on the expiry check, and
// one that is merely close to expiry keeps working until it lapses.
func (rr *RegistryResolver) tryRefresh(ctx context.Context, record *registry.Record) {
	if rr.refresher == nil || record.RefreshToken == "" {
		return
	}

	creds, err := rr.refresher.RefreshSession(ctx, record.RefreshToken)
	if err != nil {
		rr.logger.DebugContext(ctx, "session refresh failed", "error", err)
		return
	}

	record.AccessToken = creds.AccessToken
	if creds.RefreshToken != "" {
		record.RefreshToken = creds.RefreshToken
	}
	record.ExpiresAt = creds.ExpiresAt
	if err := rr.registry.Save(ctx, record); err != nil {
		rr.logger.WarnContext(ctx, "failed to persist refreshed session", "error", err)
	}
}
