// Package format holds the pure formatting helpers shared by the CLI layer:
// durations, ETAs, progress bars and digit grouping for trial counts.
package format
