package wire

import "time"

// Test doubles: a virtual microsecond clock, a line recorder and a counting
// section. SpinUntil jumps virtual time forward, so a whole frame runs
// instantly while preserving every edge timestamp.

type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 {
	return c.now
}

func (c *fakeClock) SpinUntil(deadline int64) {
	if deadline > c.now {
		c.now = deadline
	}
}

func (c *fakeClock) Idle(d time.Duration) {
	c.now += d.Microseconds()
}

type edge struct {
	at   int64
	high bool
}

type recorderLine struct {
	clock *fakeClock
	edges []edge
}

func (r *recorderLine) Set(high bool) {
	if n := len(r.edges); n > 0 && r.edges[n-1].high == high {
		return // level unchanged, not an edge
	}
	r.edges = append(r.edges, edge{at: r.clock.Now(), high: high})
}

// levelAt replays the recording and returns the line level at time t.
func (r *recorderLine) levelAt(t int64) bool {
	level := true // both links idle high
	for _, e := range r.edges {
		if e.at > t {
			break
		}
		level = e.high
	}
	return level
}

// pulsePair is one (low, high) duration pair of the pulse link.
type pulsePair struct {
	low  int64
	high int64
}

// pairs decodes the recording into pulse pairs. The recording must end with
// a rising edge; the final high phase is unbounded and reported as -1.
func (r *recorderLine) pairs() []pulsePair {
	var out []pulsePair
	for i := 0; i < len(r.edges); i++ {
		if r.edges[i].high {
			continue
		}
		p := pulsePair{low: -1, high: -1}
		if i+1 < len(r.edges) {
			p.low = r.edges[i+1].at - r.edges[i].at
			if i+2 < len(r.edges) {
				p.high = r.edges[i+2].at - r.edges[i+1].at
			}
		}
		out = append(out, p)
	}
	return out
}

func (r *recorderLine) reset() {
	r.edges = nil
}

type countingSection struct {
	enters int
	exits  int
}

func (s *countingSection) Enter() { s.enters++ }
func (s *countingSection) Exit()  { s.exits++ }
