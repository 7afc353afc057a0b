// Package logging defines the Logger contract used across the simulator and
// its zerolog-backed implementation. The run driver attaches the run ID with
// WithFields; the application builds a console logger on stderr whose level
// follows --log-level.
package logging
