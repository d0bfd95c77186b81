// Package metric provides Prometheus metrics for tokauth.
//
//   - prometheus.go: the application Registry and the /metrics handler
//   - collector.go: a collector that reports store sizes at scrape time
//
// Metrics include per-operation authentication outcomes, HTTP request
// counts and latency histograms, and Go runtime/process statistics.
package metric
