package registry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	platformredis "stride/internal/platform/redis"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

const keyPrefix = "session:"

// RedisStore persists session records in Redis with a TTL, so multiple
// gateway instances share one registry and expired records vanish without a
// sweeper.
type RedisStore struct {
	client *platformredis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed registry. ttl caps record lifetime;
// a record whose credentials expire sooner gets the shorter TTL.
func NewRedisStore(client *platformredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, record *Record) error {
	if record == nil || record.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "record requires a session id")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal session record")
	}

	ttl := r.ttl
	if !record.ExpiresAt.IsZero() {
		if until := time.Until(record.ExpiresAt); until > 0 && until < ttl {
			ttl = until
		}
	}

	if err := r.client.Set(ctx, keyPrefix+string(record.ID), data, ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "save session record")
	}
	return nil
}

func (r *RedisStore) Find(ctx context.Context, sessionID id.SessionID) (*Record, error) {
	data, err := r.client.Get(ctx, keyPrefix+string(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "find session record")
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unmarshal session record")
	}
	return &record, nil
}

func (r *RedisStore) Touch(ctx context.Context, sessionID id.SessionID, lastSeen time.Time) error {
	record, err := r.Find(ctx, sessionID)
	if err != nil {
		return err
	}
	record.LastSeenAt = lastSeen
	return r.Save(ctx, record)
}

func (r *RedisStore) Delete(ctx context.Context, sessionID id.SessionID) error {
	if err := r.client.Del(ctx, keyPrefix+string(sessionID)).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "delete session record")
	}
	return nil
}

// DeleteExpired is a no-op for Redis: the per-record TTL already evicts.
func (r *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
