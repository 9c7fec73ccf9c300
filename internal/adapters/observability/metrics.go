package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "playstore", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "playstore", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "playstore", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|error
	)
	IngestRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "playstore", Name: "ingest_rows_total", Help: "Ingested rows by outcome."},
		[]string{"dataset", "outcome"}, // outcome: inserted|existing|skipped|failed
	)
	IngestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "playstore", Name: "ingest_duration_seconds",
			Help:    "Ingestion run duration seconds.",
			Buckets: []float64{.1, .5, 1, 5, 15, 60, 300},
		},
		[]string{"dataset"},
	)
)

// Serve exposes reg on addr/metrics in the background. An empty addr disables
// it.
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
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents, IngestRows, IngestLatency)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// IngestCounts is the per-outcome tally of one ingestion run.
type IngestCounts struct {
	Inserted, Existing, Skipped, Failed int
}

func ObserveIngest(dataset string, c IngestCounts, dur time.Duration) {
	IngestRows.WithLabelValues(dataset, "inserted").Add(float64(c.Inserted))
	IngestRows.WithLabelValues(dataset, "existing").Add(float64(c.Existing))
	IngestRows.WithLabelValues(dataset, "skipped").Add(float64(c.Skipped))
	IngestRows.WithLabelValues(dataset, "failed").Add(float64(c.Failed))
	IngestLatency.WithLabelValues(dataset).Observe(dur.Seconds())
}
