package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// RedisErrorRate counts Redis errors by command.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialnet_redis_error_rate_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheRequests counts cache lookups by key kind and result (hit or miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialnet_cache_requests_total",
		Help: "Total number of cache lookups by kind and result",
	}, []string{"kind", "result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialnet_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	if table == "" {
		table = "unknown"
	}
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}

// MetricsExport says where a finished command leaves its metrics. Both
// targets are optional; with neither set ExportMetrics does nothing.
type MetricsExport struct {
	PushgatewayURL string
	Job            string
	// Textfile is a path for the node_exporter textfile collector.
	Textfile string
	// Gatherer defaults to the registry the metrics above register with.
	Gatherer prometheus.Gatherer
}

// ExportMetrics pushes the registry to a Pushgateway and writes it to a
// textfile, as configured.
func ExportMetrics(ctx context.Context, opts MetricsExport) error {
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	var errs []error
	if opts.PushgatewayURL != "" {
		job := opts.Job
		if job == "" {
			job = "socialnet"
		}
		if err := push.New(opts.PushgatewayURL, job).Gatherer(gatherer).PushContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("push metrics: %w", err))
		}
	}
	if opts.Textfile != "" {
		if err := prometheus.WriteToTextfile(opts.Textfile, gatherer); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		}
	}
	return errors.Join(errs...)
}
