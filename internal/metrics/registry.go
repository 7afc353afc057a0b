package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace prefixes every metric exported by the simulator.
const Namespace = "montyhall"

// NewRegistry returns a private registry preloaded with the Go runtime
// collector. A private registry lets tests and repeated runs in one process
// register the same metric names without colliding.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return reg
}
