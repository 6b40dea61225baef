// Package metrics holds shared Prometheus conventions for the backend.
package metrics

// DefaultBuckets provides a common set of histogram buckets in seconds that
// can be reused across the application for latency metrics. The upper range
// is generous because engine calculations can run for minutes.
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120} //nolint: gochecknoglobals
