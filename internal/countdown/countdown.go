// Package countdown derives the remaining exam time from a wall-clock start
// instant. The remaining time is never decremented in place: every reading
// recomputes it from the clock, so late or coalesced ticks cannot drift.
package countdown

import (
	"fmt"
	"time"
)

// DefaultLimit is the reference exam duration.
const DefaultLimit = 30 * time.Minute

// Band is the urgency class of the remaining time.
type Band int

const (
	BandNormal Band = iota
	BandWarning
	BandCritical
)

func (b Band) String() string {
	switch b {
	case BandWarning:
		return "warning"
	case BandCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Thresholds are the inclusive upper bounds of the warning and critical
// bands.
type Thresholds struct {
	Warning  time.Duration
	Critical time.Duration
}

// DefaultThresholds returns warning at 5 minutes and critical at 1 minute.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 5 * time.Minute, Critical: time.Minute}
}

// Classify returns the band for a remaining duration.
func (t Thresholds) Classify(remaining time.Duration) Band {
	switch {
	case remaining <= t.Critical:
		return BandCritical
	case remaining <= t.Warning:
		return BandWarning
	default:
		return BandNormal
	}
}

// Tick is one observation of the countdown.
type Tick struct {
	Remaining time.Duration
	Band      Band
	// Expired is true on the first observation at or past the limit and
	// false on every observation after it.
	Expired bool
}

// Countdown tracks one timed attempt. It is not safe for concurrent use;
// the owning session serializes access.
type Countdown struct {
	start   time.Time
	limit   time.Duration
	th      Thresholds
	expired bool
}

// New starts a countdown of limit measured from start.
func New(start time.Time, limit time.Duration, th Thresholds) *Countdown {
	return &Countdown{start: start, limit: limit, th: th}
}

// Remaining returns max(0, limit - (now - start)).
func (c *Countdown) Remaining(now time.Time) time.Duration {
	r := c.limit - now.Sub(c.start)
	if r < 0 {
		return 0
	}
	return r
}

// Elapsed returns the whole seconds since start, floored.
func (c *Countdown) Elapsed(now time.Time) int {
	d := now.Sub(c.start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// Observe reads the countdown at now. Expiry is latched: it is reported
// once, no matter how many observations follow.
func (c *Countdown) Observe(now time.Time) Tick {
	r := c.Remaining(now)
	t := Tick{Remaining: r, Band: c.th.Classify(r)}
	if r == 0 && !c.expired {
		c.expired = true
		t.Expired = true
	}
	return t
}

// HasExpired reports whether expiry has already been observed.
func (c *Countdown) HasExpired() bool { return c.expired }

// FormatRemaining renders d as mm:ss, rounding partial seconds up so that
// 00:00 is shown only once time is really out.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatElapsed renders whole seconds as mm:ss.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
