package metrics

// Config holds the metrics settings.
type Config struct {
	// Address is the listen address of the /metrics endpoint, e.g. ":9090".
	// Empty disables the HTTP server; metrics are still collected in the registry.
	Address string

	// ServiceName is added as a constant "service" label to every metric.
	ServiceName string

	// EnableDefaultCollectors registers the Go runtime, process and build info collectors.
	EnableDefaultCollectors bool
}
