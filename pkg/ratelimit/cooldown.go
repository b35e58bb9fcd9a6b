package ratelimit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for throttling-window tracking.
var (
	throttleCooldownsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plenty_throttle_cooldowns_total",
		Help: "Number of times a near-exhausted budget scheduled a cooldown",
	})

	throttleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plenty_throttle_wait_seconds",
		Help:    "Time actually slept before a call due to a pending cooldown",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120},
	})

	throttleGlobalStopsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plenty_throttle_global_stops_total",
		Help: "Number of responses reporting the long global budget as exhausted",
	})
)

// Cooldown holds the pending wait recorded from a near-exhausted
// budget. It belongs to the client session; there is exactly one owner
// and no concurrent access.
type Cooldown struct {
	waitSeconds int
	startedAt   time.Time
	pending     bool
}

// Observe inspects a response window and records a cooldown when the
// route or short global budget is about to run out. It reports whether
// the long global budget is exhausted, in which case the caller must
// abort instead of scheduling a wait.
func (c *Cooldown) Observe(w Window, now time.Time) (globalLimitReached bool) {
	if w.GlobalLimitReached() {
		throttleGlobalStopsTotal.Inc()
		return true
	}
	if wait, near := w.NearLimit(); near {
		c.waitSeconds = wait
		c.startedAt = now
		c.pending = true
		throttleCooldownsTotal.Inc()
	}
	return false
}

// Pending reports whether a cooldown wait is scheduled.
func (c *Cooldown) Pending() bool {
	return c.pending
}

// WaitDuration returns how long to sleep before the next call. The
// advertised wait time is reduced by the time already spent processing
// since the cooldown was recorded, plus one second of margin, and never
// goes negative. Calling it clears the pending cooldown.
func (c *Cooldown) WaitDuration(now time.Time) time.Duration {
	if !c.pending {
		return 0
	}
	elapsed := now.Sub(c.startedAt)
	remaining := time.Duration(c.waitSeconds)*time.Second - elapsed + time.Second
	c.Clear()
	if remaining < 0 {
		return 0
	}
	throttleWaitSeconds.Observe(remaining.Seconds())
	return remaining
}

// Clear drops any pending cooldown.
func (c *Cooldown) Clear() {
	c.waitSeconds = 0
	c.startedAt = time.Time{}
	c.pending = false
}
