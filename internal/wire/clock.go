package wire

import "time"

// Clock is the free-running microsecond timer driving an engine. SpinUntil
// busy-waits and is only legal inside a real-time section; Idle yields the
// processor and is only legal outside of one.
type Clock interface {
	// Now returns microseconds since an arbitrary epoch, monotonic.
	Now() int64
	// SpinUntil busy-waits until Now() >= deadline.
	SpinUntil(deadline int64)
	// Idle sleeps for roughly d between polls of the transmit queue.
	Idle(d time.Duration)
}

type monotonicClock struct {
	epoch time.Time
}

// NewClock returns a Clock backed by the runtime monotonic clock.
func NewClock() Clock {
	return &monotonicClock{epoch: time.Now()}
}

func (c *monotonicClock) Now() int64 {
	return time.Since(c.epoch).Microseconds()
}

func (c *monotonicClock) SpinUntil(deadline int64) {
	for c.Now() < deadline {
	}
}

func (c *monotonicClock) Idle(d time.Duration) {
	time.Sleep(d)
}
