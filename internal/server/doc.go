// Package server exposes the simulator's Prometheus metrics over HTTP while a
// run is in progress.
package server
