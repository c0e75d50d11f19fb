package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	MagicLinksRequestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "magic_links_requested_total",
		Help:      "Total magic-link requests accepted.",
	})

	MagicLinkVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "magic_link_verifications_total",
		Help:      "Magic-link verification attempts, by outcome.",
	}, []string{"outcome"})

	SessionValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "session_validations_total",
		Help:      "Session validations at the gateway, by outcome.",
	}, []string{"outcome"})

	// Content metrics

	ContentDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "content_decisions_total",
		Help:      "Access-policy decisions for content operations.",
	}, []string{"operation", "decision"})

	DownloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "downloads_total",
		Help:      "Resource downloads served, by outcome.",
	}, []string{"outcome"})

	// Webhook metrics

	WebhookEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "webhook_events_total",
		Help:      "Webhook deliveries, by provider and outcome.",
	}, []string{"provider", "outcome"})

	// Maintenance metrics

	SweepDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "sweep_deleted_total",
		Help:      "Expired records reclaimed by the sweeper.",
	}, []string{"kind"})

	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portal",
		Name:      "sweep_duration_seconds",
		Help:      "Time taken for one sweep cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		MagicLinksRequestedTotal,
		MagicLinkVerificationsTotal,
		SessionValidationsTotal,
		ContentDecisionsTotal,
		DownloadsTotal,
		WebhookEventsTotal,
		SweepDeletedTotal,
		SweepDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

type healthChecker interface {
	LivenessHandler() http.Handler
	ReadinessHandler() http.Handler
}

func NewServer(addr string, checker healthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health/live", checker.LivenessHandler())
	mux.Handle("/health/ready", checker.ReadinessHandler())
	return &http.Server{Addr: addr, Handler: mux}
}
