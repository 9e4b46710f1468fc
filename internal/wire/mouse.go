package wire

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/txqueue"
)

// MouseTiming is the contract of the asynchronous mouse link: conventional
// start bit + 8 data bits LSB first + stop bits, at roughly 4800 bit/s.
type MouseTiming struct {
	BitTime  int64 // microseconds per bit, ~208 at 4800 bit/s
	StopBits int
	IdlePoll time.Duration
}

func DefaultMouseTiming() MouseTiming {
	return MouseTiming{
		BitTime:  208,
		StopBits: 2,
		IdlePoll: 500 * time.Microsecond,
	}
}

// MouseEngine serializes 3-byte mouse frames onto the async link. A frame is
// only started on a rising edge of the host-driven gate; if no movement is
// pending at that point an all-zero keep-alive frame is sent instead, because
// hosts expect a steady cadence of frames regardless of motion.
type MouseEngine struct {
	log    *zap.Logger
	clock  Clock
	line   Line
	gate   Gate
	rt     Section
	timing MouseTiming

	state    ProtocolState
	frame    MouseFrame
	byteIdx  int
	cur      uint8
	bitsLeft int
	prevGate bool
}

func NewMouseEngine(log *zap.Logger, clock Clock, line Line, gate Gate, rt Section, timing MouseTiming) *MouseEngine {
	return &MouseEngine{
		log:    log,
		clock:  clock,
		line:   line,
		gate:   gate,
		rt:     rt,
		timing: timing,
		state:  StateIdle,
	}
}

// Run never returns until the context is cancelled; cancellation is only
// observed between frames.
func (e *MouseEngine) Run(ctx context.Context, q *txqueue.Queue[MouseFrame]) error {
	e.line.Set(true)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !e.RunOnce(q) {
			e.clock.Idle(e.timing.IdlePoll)
		}
	}
}

// RunOnce checks the gate and, on a rising edge, transmits one complete
// 3-byte frame. Returns whether a frame was sent.
func (e *MouseEngine) RunOnce(q *txqueue.Queue[MouseFrame]) bool {
	for {
		switch e.state {
		case StateIdle:
			active := e.gate.Active()
			edge := active && !e.prevGate
			e.prevGate = active
			if !edge {
				return false
			}
			frame, ok := q.Poll()
			if !ok {
				frame = MouseFrame{} // keep-alive
			}
			e.frame = frame
			e.byteIdx = 0
			e.rt.Enter()
			e.state = StateStartTransmit

		case StateStartTransmit:
			e.cur = e.frame[e.byteIdx]
			e.bitsLeft = 8
			e.state = StateHeader

		case StateHeader:
			e.hold(false, e.timing.BitTime)
			e.state = StateData

		case StateData:
			e.hold(e.cur&1 == 1, e.timing.BitTime)
			e.cur >>= 1
			e.bitsLeft--
			if e.bitsLeft == 0 {
				e.state = StateStop
			}

		case StateStop:
			e.hold(true, int64(e.timing.StopBits)*e.timing.BitTime)
			e.state = StateEndTransmit

		case StateEndTransmit:
			e.byteIdx++
			if e.byteIdx < len(e.frame) {
				e.state = StateStartTransmit
				continue
			}
			e.rt.Exit()
			e.state = StateIdle
			e.log.Debug("mouse frame sent",
				zap.Uint8("buttons", e.frame[0]),
				zap.Int8("dx", int8(e.frame[1])),
				zap.Int8("dy", int8(e.frame[2])))
			return true
		}
	}
}

func (e *MouseEngine) hold(high bool, us int64) {
	start := e.clock.Now()
	e.line.Set(high)
	e.clock.SpinUntil(start + us)
}

func (e *MouseEngine) State() ProtocolState {
	return e.state
}
