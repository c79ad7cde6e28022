package haptics

import (
	"math"
	"time"
)

// ReleaseMargin is subtracted from every pulse's duration when scheduling the
// next eligible time, so a follow-up pulse may be queued on the device
// shortly before the current one ends.
const ReleaseMargin = 50 * time.Millisecond

// CooldownTable records, for one hand, the earliest time each location may
// fire again. A location with no entry may fire immediately.
type CooldownTable map[FeedbackLocation]time.Time

// NewCooldownTable returns a table with every location primed to now.
func NewCooldownTable(now time.Time) CooldownTable {
	t := make(CooldownTable, len(locationNames))
	t.Reset(now)
	return t
}

// Reset primes all five locations to now, so nothing is in cooldown.
func (t CooldownTable) Reset(now time.Time) {
	for _, loc := range Locations() {
		t[loc] = now
	}
}

// Ready reports whether loc may fire at now. Only a stored time strictly
// after now blocks the pulse.
func (t CooldownTable) Ready(loc FeedbackLocation, now time.Time) bool {
	next, ok := t[loc]
	return !ok || !next.After(now)
}

// Schedule records that loc fired at now for duration seconds.
func (t CooldownTable) Schedule(loc FeedbackLocation, now time.Time, duration float32) time.Time {
	next := now.Add(secondsToDuration(duration) - ReleaseMargin)
	t[loc] = next
	return next
}

// maxPulseSeconds bounds conversions so the nanosecond count cannot
// overflow; roughly 292 years either way.
const maxPulseSeconds = float64(math.MaxInt64/int64(time.Second)) - 1

func secondsToDuration(s float32) time.Duration {
	f := float64(s)
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxPulseSeconds:
		f = maxPulseSeconds
	case f < -maxPulseSeconds:
		f = -maxPulseSeconds
	}
	return time.Duration(f * float64(time.Second))
}
