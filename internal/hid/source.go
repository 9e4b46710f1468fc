package hid

import (
	"context"
	"sync"
)

// Source is the collaborator boundary to an input backend. Read is
// non-blocking: a zero ScanCode means no event is pending. Mouse reports are
// pushed through the callback registered with OnMouse because pointer events
// arrive on the backend's own cadence, not the bridge's poll loop.
type Source interface {
	Read() ScanCode
	OnMouse(fn func(MouseReport))
}

// ChanSource adapts a channel-fed backend (the bus subscriber in pkg/bridge,
// or a test feeding events directly) to the Source contract.
type ChanSource struct {
	ch chan ScanCode

	mu      sync.Mutex
	onMouse func(MouseReport)
}

func NewChanSource(buffer int) *ChanSource {
	return &ChanSource{
		ch: make(chan ScanCode, buffer),
	}
}

func (s *ChanSource) Read() ScanCode {
	select {
	case sc := <-s.ch:
		return sc
	default:
		return ScanCode{}
	}
}

// Push feeds one event. A full buffer drops the event; input responsiveness
// over guaranteed delivery, same policy as the transmit queue.
func (s *ChanSource) Push(sc ScanCode) bool {
	select {
	case s.ch <- sc:
		return true
	default:
		return false
	}
}

func (s *ChanSource) OnMouse(fn func(MouseReport)) {
	s.mu.Lock()
	s.onMouse = fn
	s.mu.Unlock()
}

func (s *ChanSource) PushMouse(r MouseReport) {
	s.mu.Lock()
	fn := s.onMouse
	s.mu.Unlock()
	if fn != nil {
		fn(r)
	}
}

// ReadBlocking waits for the next event or context cancellation. The capture
// loop uses this to sleep between events instead of spinning on Read.
func (s *ChanSource) ReadBlocking(ctx context.Context) (ScanCode, bool) {
	select {
	case sc := <-s.ch:
		return sc, true
	case <-ctx.Done():
		return ScanCode{}, false
	}
}
