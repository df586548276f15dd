// Package audit records security-relevant gateway events (sign-ins, sign-ups,
// sign-outs, redemptions) to structured logs and a pluggable event sink.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event actions emitted by the gateway.
const (
	EventUserSignedIn    = "user_signed_in"
	EventUserSignedUp    = "user_signed_up"
	EventUserSignedOut   = "user_signed_out"
	EventCompanyCreated  = "company_created"
	EventRewardRedeemed  = "reward_redeemed"
	EventAuthFailed      = "auth_failed"
	EventSessionExpired  = "session_expired"
)

// Event is a single audit record.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id,omitempty"`
	CompanyID string    `json:"company_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Sink persists audit events. Implementations: in-memory store (default),
// Kafka producer (when brokers are configured).
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is the interface services depend on. Satisfied by *Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger pairs structured audit logging with optional event emission so
// services standardize on one call.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. emitter may be nil for log-only mode.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{textLogger: textLogger, emitter: emitter}
}

// Log writes the event to the text log and emits it to the sink, enriching
// with well-known fields pulled from the attribute list.
func (l *Logger) Log(ctx context.Context, action string, attributes ...any) {
	if l.textLogger != nil {
		args := append(attributes, "event", action, "log_type", "audit")
		l.textLogger.InfoContext(ctx, action, args...)
	}
	if l.emitter == nil {
		return
	}
	err := l.emitter.Emit(ctx, Event{
		Action:    action,
		UserID:    extractString(attributes, "user_id"),
		CompanyID: extractString(attributes, "company_id"),
		Email:     extractString(attributes, "email"),
		RequestID: extractString(attributes, "request_id"),
		Detail:    extractString(attributes, "detail"),
	})
	if err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event", "error", err, "action", action)
	}
}

// extractString scans a slog-style key/value list for the given key.
func extractString(attributes []any, key string) string {
	for i := 0; i+1 < len(attributes); i += 2 {
		k, ok := attributes[i].(string)
		if !ok || k != key {
			continue
		}
		if v, ok := attributes[i+1].(string); ok {
			return v
		}
	}
	return ""
}
