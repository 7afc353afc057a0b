// Package orchestration runs a Monty Hall simulation across concurrent
// workers. It owns work partitioning, the diagnostic sinks and the run
// driver, and stays decoupled from presentation through the
// ProgressReporter interface.
package orchestration
