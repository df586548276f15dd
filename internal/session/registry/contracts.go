// Package registry persists gateway session records so an authenticated
// session survives page reloads and is shared across tabs. The record is the
// durable shadow of a session store's credentials; the opaque session ID
// travels in a cookie and is the only thing the browser holds.
package registry

import (
	"context"
	"time"

	"stride/internal/session"
	id "stride/pkg/domain"
)

// Record is one gateway session.
type Record struct {
	ID                id.SessionID `json:"id"`
	UserID            id.UserID    `json:"user_id"`
	CompanyID         id.CompanyID `json:"company_id"`
	Role              session.Role `json:"role"`
	Email             string       `json:"email"`
	AccessToken       string       `json:"access_token"`
	RefreshToken      string       `json:"refresh_token"`
	DeviceDisplayName string       `json:"device_display_name"`
	CreatedAt         time.Time    `json:"created_at"`
	ExpiresAt         time.Time    `json:"expires_at"`
	LastSeenAt        time.Time    `json:"last_seen_at"`
}

// Expired reports whether the record's backend credentials have lapsed.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// Store persists session records.
// Error Contract: Find returns a not_found domain error for unknown IDs.
type Store interface {
	Save(ctx context.Context, record *Record) error
	Find(ctx context.Context, sessionID id.SessionID) (*Record, error)
	Touch(ctx context.Context, sessionID id.SessionID, lastSeen time.Time) error
	Delete(ctx context.Context, sessionID id.SessionID) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
