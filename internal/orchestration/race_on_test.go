//go:build race

package orchestration

// sync.Pool drops items at random under the race detector.
const raceEnabled = true
