// Package ratelimit implements per-subject sliding-window admission control
// for the AI analysis operation. A denial is a routine outcome, surfaced as a
// boolean, never an error.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Defaults per subject: 5 admissions per rolling hour.
const (
	DefaultQuota  = 5
	DefaultWindow = time.Hour
)

// Gate keeps an ordered sequence of admitted-request timestamps per subject
// and admits a new request only while the pruned sequence is below quota.
// The check-then-append sequence is serialized so that concurrent attempts
// for one subject can never overshoot the quota.
type Gate struct {
	mu      sync.Mutex
	quota   int
	window  time.Duration
	now     func() time.Time
	windows map[uuid.UUID][]time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(g *Gate) {
		if fn != nil {
			g.now = fn
		}
	}
}

// NewGate constructs a Gate. Non-positive quota or window fall back to the
// defaults.
func NewGate(quota int, window time.Duration, opts ...Option) *Gate {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if window <= 0 {
		window = DefaultWindow
	}
	g := &Gate{
		quota:   quota,
		window:  window,
		now:     time.Now,
		windows: make(map[uuid.UUID][]time.Time),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryAdmit records and admits a request for the subject unless its quota
// within the trailing window is already spent. A denied request is not
// recorded.
func (g *Gate) TryAdmit(subject uuid.UUID) bool {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	recent := prune(g.windows[subject], now, g.window)
	if len(recent) >= g.quota {
		g.windows[subject] = recent
		return false
	}
	g.windows[subject] = append(recent, now)
	return true
}

// Sweep drops subjects whose every recorded timestamp has left the window,
// bounding memory for subjects that stopped requesting.
func (g *Gate) Sweep() {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	for subject, stamps := range g.windows {
		if recent := prune(stamps, now, g.window); len(recent) == 0 {
			delete(g.windows, subject)
		} else {
			g.windows[subject] = recent
		}
	}
}

// Run sweeps on the given interval until the context is cancelled. Sweeping
// is off the admission path; admission stays correct without it.
func (g *Gate) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = g.window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Sweep()
		}
	}
}

// prune retains timestamps still inside the trailing window, preserving order.
func prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	recent := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < window {
			recent = append(recent, ts)
		}
	}
	return recent
}
