// Command server runs the stride gateway: the HTTP front for the wellness
// app's session, habit, leaderboard, and reward stores, backed by the hosted
// backend service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stride/internal/backend"
	"stride/internal/habits"
	"stride/internal/leaderboard"
	"stride/internal/platform/audit"
	"stride/internal/platform/config"
	"stride/internal/platform/httpserver"
	"stride/internal/platform/logger"
	"stride/internal/platform/metrics"
	"stride/internal/platform/middleware"
	platformredis "stride/internal/platform/redis"
	"stride/internal/rewards"
	"stride/internal/session"
	"stride/internal/session/registry"
	"stride/internal/state"
	transport "stride/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := backend.New(backend.Config{URL: cfg.BackendURL, APIKey: cfg.BackendAPIKey})
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	authClient := backend.NewAuthClient(client, cfg.SessionTTL)
	directory := backend.NewDirectoryStore(client)
	habitRepo := backend.NewHabitStore(client)
	boardRepo := backend.NewLeaderboardStore(client)
	rewardRepo := backend.NewRewardStore(client)

	// Audit pipeline: Kafka when brokers are configured, in-memory otherwise.
	var sink audit.Sink
	var sinkCloser func()
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := audit.NewKafkaSink(audit.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.AuditTopic})
		if err != nil {
			return fmt.Errorf("kafka audit sink: %w", err)
		}
		sink = kafkaSink
		sinkCloser = kafkaSink.Close
		log.Info("audit sink: kafka", "topic", cfg.AuditTopic)
	} else {
		sink = audit.NewMemorySink()
		log.Info("audit sink: memory")
	}
	publisher := audit.NewPublisher(sink,
		audit.WithAsyncBuffer(cfg.AuditBufferSize),
		audit.WithPublisherLogger(log),
	)
	auditLogger := audit.NewLogger(log, publisher)
	defer func() {
		publisher.Close()
		if sinkCloser != nil {
			sinkCloser()
		}
	}()

	// Session registry: Redis when configured, in-memory otherwise.
	var reg registry.Store
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if redisClient != nil {
		reg = registry.NewRedisStore(redisClient, cfg.SessionTTL)
		log.Info("session registry: redis")
	} else {
		reg = registry.NewMemoryStore()
		log.Info("session registry: memory")
	}

	manager := state.NewManager(func() *state.Container {
		return &state.Container{
			Session: session.New(authClient, directory,
				session.WithLogger(log),
				session.WithMetrics(m),
				session.WithAuditLogger(auditLogger),
			),
			Habits: habits.New(habitRepo,
				habits.WithLogger(log),
				habits.WithMetrics(m),
			),
			Leaderboard: leaderboard.New(boardRepo,
				leaderboard.WithLogger(log),
			),
			Rewards: rewards.New(rewardRepo,
				rewards.WithLogger(log),
				rewards.WithMetrics(m),
				rewards.WithAuditLogger(auditLogger),
			),
		}
	})

	router := transport.NewRouter(transport.Config{
		Logger:      log,
		Metrics:     m,
		Registry:    reg,
		Manager:     manager,
		Auth:        authClient,
		Directory:   directory,
		Refresher:   authClient,
		AuditLogger: auditLogger,
		RateLimiter: middleware.NewRateLimiter(cfg.SignInRatePerMinute, log),
		Health: func() error {
			if redisClient != nil {
				hctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return redisClient.Health(hctx)
			}
			return nil
		},
	})

	// Expired in-memory sessions need an explicit sweep; Redis evicts by TTL.
	if redisClient == nil {
		go sweepSessions(ctx, reg, m, log)
	}

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// sweepSessions periodically drops expired registry records. A swept
// session's requests stop resolving immediately; its state container, if any,
// goes with the next sign-out or process restart.
func sweepSessions(ctx context.Context, reg registry.Store, m *metrics.Metrics, log *slog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := reg.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.Warn("session sweep failed", "error", err)
				continue
			}
			if swept > 0 {
				m.DecrementActiveSessions(swept)
				log.Debug("swept expired sessions", "count", swept)
			}
		}
	}
}
