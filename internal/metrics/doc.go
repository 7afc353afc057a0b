// Package metrics collects run-level Prometheus metrics and runtime memory
// snapshots for the detailed report.
package metrics
