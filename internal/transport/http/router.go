package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stride/internal/platform/audit"
	"stride/internal/platform/metrics"
	"stride/internal/platform/middleware"
	"stride/internal/session"
	"stride/internal/session/registry"
	"stride/internal/state"
)

// Handlers carries the dependencies shared by all endpoint handlers.
type Handlers struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	registry  registry.Store
	manager   *state.Manager
	auth      session.Authenticator
	directory session.Directory
}

// Config wires the router.
type Config struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Registry    registry.Store
	Manager     *state.Manager
	Auth        session.Authenticator
	Directory   session.Directory
	Refresher   SessionRefresher
	AuditLogger *audit.Logger
	RateLimiter *middleware.RateLimiter
	Health      func() error
}

// NewRouter builds the gateway's route tree: open auth endpoints behind the
// credential rate limiter, everything else behind the session guard, and the
// admin group additionally role-gated.
func NewRouter(cfg Config) http.Handler {
	h := &Handlers{
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		registry:  cfg.Registry,
		manager:   cfg.Manager,
		auth:      cfg.Auth,
		directory: cfg.Directory,
	}
	resolver := NewRegistryResolver(cfg.Registry, cfg.Refresher, cfg.Metrics, cfg.Logger, cfg.AuditLogger)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	if cfg.Metrics != nil {
		r.Use(latency(cfg.Metrics))
	}

	r.Get("/healthz", h.handleHealth(cfg.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		r.Post("/signup", h.handleSignUp)
		r.Post("/signin", h.handleSignIn)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(resolver, cfg.Logger))

		r.Post("/auth/signout", h.handleSignOut)
		r.Get("/me", h.handleMe)
		r.Put("/me/theme", h.handleSetTheme)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", h.handleListHabits)
			r.Post("/", h.handleLogHabit)
			r.Get("/types", h.handleListHabitTypes)
		})

		r.Route("/leaderboards", func(r chi.Router) {
			r.Get("/", h.handleLeaderboards)
			r.Get("/companies", h.handleCompanyLeaderboard)
			r.Get("/individuals", h.handleIndividualLeaderboard)
			r.Put("/period", h.handleSetPeriod)
		})

		r.Route("/rewards", func(r chi.Router) {
			r.Get("/", h.handleListRewards)
			r.Get("/redemptions", h.handleListRedemptions)
			r.Post("/redeem", h.handleRedeem)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(session.RoleHRAdmin), cfg.Logger))
			r.Get("/habit-types", h.handleListHabitTypes)
		})
	})

	return r
}

// latency observes per-endpoint request duration, labeled by the matched
// route pattern so path parameters do not explode the label set.
func latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}
			m.ObserveEndpointLatency(endpoint, time.Since(start).Seconds())
		})
	}
}

func (h *Handlers) handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
