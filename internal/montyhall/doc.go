// Package montyhall holds the probability core of the simulator: the three
// slots, the per-trial evaluator, the per-worker random draw source and the
// win tallies.
//
// Nothing in this package shares state between goroutines. A worker owns one
// TrialSource and one Tally; trials are plain values.
package montyhall
