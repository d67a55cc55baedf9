package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aleph-Alpha/storemanager/v1/observability"
)

// Metrics encapsulates the Prometheus registry, the store operation metrics
// and the optional HTTP server exposing them.
type Metrics struct {
	// Server serves /metrics. It is nil when Config.Address is empty.
	Server *http.Server

	// Registry is the isolated Prometheus registry all metrics are registered on.
	Registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	recordsTotal      *prometheus.CounterVec
}

var _ observability.Observer = (*Metrics)(nil)

// NewMetrics initializes the registry and the store metrics:
//   - store_operations_total{component,operation,status}
//   - store_operation_duration_seconds{component,operation}
//   - store_records_total{component,operation}
//
// All metrics carry a constant service label. When cfg.Address is set an HTTP
// server is prepared; starting it is left to the fx lifecycle.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "storemanager"})
//	dao := productstore.New(cfg, productstore.WithObserver(m))
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.operationsTotal = createCounterVec("store_operations_total",
		"Total number of store operations by outcome", []string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec("store_operation_duration_seconds",
		"Duration of store operations in seconds", []string{"component", "operation"}, prometheus.DefBuckets)
	m.recordsTotal = createCounterVec("store_records_total",
		"Total number of records returned or affected by store operations", []string{"component", "operation"})

	wrappedRegistry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.recordsTotal,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		m.Server = &http.Server{
			Addr:              cfg.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return m
}
