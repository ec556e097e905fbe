package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkendd", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parkendd", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkendd", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parkendd", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkendd", Name: "fetch_failures_total", Help: "Classified fetch failures."},
		[]string{"operation", "kind"}, // kind: request|server|incompatible_api
	)
	LotsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkendd", Name: "lots_parsed_total", Help: "Parsed lots by outcome."},
		[]string{"outcome"}, // outcome: kept|skipped
	)
	NotificationEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkendd", Name: "notification_events_total", Help: "Notification gate decisions."},
		[]string{"event"}, // event: surfaced|hidden|seen|error
	)
	StateEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkendd", Name: "state_events_total", Help: "State store reads/writes."},
		[]string{"store", "event"}, // event: read|add|dup|set
	)
)

// Serve exposes reg on addr/metrics in the background.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		FetchFailures, LotsParsed, NotificationEvents, StateEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call; status 0 means no response.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveFailure(operation, kind string) {
	FetchFailures.WithLabelValues(operation, kind).Inc()
}

func ObserveLots(kept, skipped int) {
	LotsParsed.WithLabelValues("kept").Add(float64(kept))
	LotsParsed.WithLabelValues("skipped").Add(float64(skipped))
}

func ObserveNotification(event string) {
	NotificationEvents.WithLabelValues(event).Inc()
}

func ObserveState(store, event string) {
	StateEvents.WithLabelValues(store, event).Inc()
}
