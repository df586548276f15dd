package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures gateway-level configuration.
type Server struct {
	Addr string

	// Remote backend (hosted auth + row API + redemption procedure).
	BackendURL    string
	BackendAPIKey string

	// Gateway session lifetime when the backend token carries no expiry claim.
	SessionTTL time.Duration

	// Optional Redis URL for the shared session registry. Empty means the
	// in-memory registry (single instance, sessions lost on restart).
	RedisURL string

	// Optional Kafka brokers (comma-separated) for the audit sink.
	KafkaBrokers    string
	AuditTopic      string
	AuditBufferSize int

	// Sign-in attempts allowed per client per minute.
	SignInRatePerMinute int
}

const (
	defaultAddr       = ":8080"
	defaultSessionTTL = 24 * time.Hour
	defaultAuditTopic = "stride.audit"
	defaultSignInRate = 10
	defaultAuditBuf   = 256
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                envOr("STRIDE_ADDR", defaultAddr),
		BackendURL:          os.Getenv("STRIDE_BACKEND_URL"),
		BackendAPIKey:       os.Getenv("STRIDE_BACKEND_API_KEY"),
		SessionTTL:          defaultSessionTTL,
		RedisURL:            os.Getenv("STRIDE_REDIS_URL"),
		KafkaBrokers:        os.Getenv("STRIDE_KAFKA_BROKERS"),
		AuditTopic:          envOr("STRIDE_AUDIT_TOPIC", defaultAuditTopic),
		AuditBufferSize:     envIntOr("STRIDE_AUDIT_BUFFER", defaultAuditBuf),
		SignInRatePerMinute: envIntOr("STRIDE_SIGNIN_RATE", defaultSignInRate),
	}

	if ttl := os.Getenv("STRIDE_SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
