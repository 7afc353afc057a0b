package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates so a stalled rate does not print absurd values.
const maxETA = 24 * time.Hour

// ProgressState aggregates per-worker completed trial counts into a single
// completion fraction. It is owned by one goroutine.
type ProgressState struct {
	done       []uint64
	numWorkers int
	total      uint64
}

// NewProgressState tracks numWorkers counters towards total trials.
func NewProgressState(numWorkers int, total uint64) *ProgressState {
	if numWorkers < 0 {
		numWorkers = 0
	}
	return &ProgressState{
		done:       make([]uint64, numWorkers),
		numWorkers: numWorkers,
		total:      total,
	}
}

// Update records the completed count reported by a worker. Out-of-range
// indices are ignored.
func (ps *ProgressState) Update(worker int, done uint64) {
	if worker >= 0 && worker < len(ps.done) {
		ps.done[worker] = done
	}
}

// Completed returns the number of trials finished across all workers.
func (ps *ProgressState) Completed() uint64 {
	var sum uint64
	for _, d := range ps.done {
		sum += d
	}
	return sum
}

// Fraction returns completed/total clamped to [0, 1].
func (ps *ProgressState) Fraction() float64 {
	if ps.total == 0 || ps.numWorkers == 0 {
		return 0
	}
	f := float64(ps.Completed()) / float64(ps.total)
	if f > 1 {
		return 1
	}
	return f
}

// ProgressWithETA extends ProgressState with a smoothed completion rate.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	lastFraction float64
	// progressRate is the fraction completed per second.
	progressRate float64
}

// NewProgressWithETA returns a tracker whose clock starts now.
func NewProgressWithETA(numWorkers int, total uint64) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numWorkers, total),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a worker count and returns the overall fraction and
// the current remaining-time estimate.
func (p *ProgressWithETA) UpdateWithETA(worker int, done uint64) (float64, time.Duration) {
	p.Update(worker, done)
	now := time.Now()
	fraction := p.Fraction()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && fraction > p.lastFraction {
		instant := (fraction - p.lastFraction) / dt
		if p.progressRate == 0 {
			p.progressRate = instant
		} else {
			p.progressRate = 0.3*instant + 0.7*p.progressRate
		}
		p.lastUpdate = now
		p.lastFraction = fraction
	}
	return fraction, p.GetETA()
}

// GetETA returns the estimated time remaining, 0 while the rate is unknown.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.Fraction()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// ProgressBar renders progress in [0, 1] as a bar of length runes.
func ProgressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar]  42.00% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s", ProgressBar(progress, width), progress*100, FormatETA(eta))
}
