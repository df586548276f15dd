package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	SignIns          prometheus.Counter
	SignUps          *prometheus.CounterVec
	AuthFailures     prometheus.Counter
	ActiveSessions   prometheus.Gauge
	HabitsLogged     prometheus.Counter
	Redemptions      *prometheus.CounterVec
	CompaniesCreated prometheus.Counter
	EndpointLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stride_sign_ins_total",
			Help: "Total number of successful sign-ins",
		}),
		SignUps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stride_sign_ups_total",
			Help: "Total number of successful sign-ups, labeled by role",
		}, []string{"role"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stride_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stride_active_sessions",
			Help: "Current number of active gateway sessions",
		}),
		HabitsLogged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stride_habits_logged_total",
			Help: "Total number of habits logged",
		}),
		Redemptions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stride_redemptions_total",
			Help: "Total number of reward redemption attempts, labeled by outcome",
		}, []string{"outcome"}),
		CompaniesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stride_companies_created_total",
			Help: "Total number of companies created at sign-up",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stride_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementSignIns() {
	m.SignIns.Inc()
}

func (m *Metrics) IncrementSignUps(role string) {
	m.SignUps.WithLabelValues(role).Inc()
}

func (m *Metrics) IncrementAuthFailures() {
	m.AuthFailures.Inc()
}

func (m *Metrics) IncrementActiveSessions(count int) {
	m.ActiveSessions.Add(float64(count))
}

func (m *Metrics) DecrementActiveSessions(count int) {
	m.ActiveSessions.Sub(float64(count))
}

func (m *Metrics) IncrementHabitsLogged() {
	m.HabitsLogged.Inc()
}

func (m *Metrics) IncrementRedemptions(outcome string) {
	m.Redemptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementCompaniesCreated() {
	m.CompaniesCreated.Inc()
}

func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}
