package wire

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/txqueue"
)

// PulseTiming is the contract of the one-wire keyboard link, in microseconds.
// A "1" bit is distinguished from a "0" bit by the length of its high phase.
type PulseTiming struct {
	HeaderLow   int64
	HeaderHigh  int64
	BitLow      int64
	BitHighOne  int64
	BitHighZero int64
	StopLow     int64
	IdlePoll    time.Duration
}

func DefaultPulseTiming() PulseTiming {
	return PulseTiming{
		HeaderLow:   1000,
		HeaderHigh:  700,
		BitLow:      250,
		BitHighOne:  1750,
		BitHighZero: 750,
		StopLow:     250,
		IdlePoll:    500 * time.Microsecond,
	}
}

// PulseEngine serializes keyboard frames onto the one-wire link. One frame is
// 16 bits (mode A) or 24 bits (mode B direct), MSB first, each bit a
// (low, high) pulse pair. The whole frame runs inside one real-time section.
type PulseEngine struct {
	log    *zap.Logger
	clock  Clock
	line   Line
	rt     Section
	timing PulseTiming

	state     ProtocolState
	msg       Message
	remaining int
}

func NewPulseEngine(log *zap.Logger, clock Clock, line Line, rt Section, timing PulseTiming) *PulseEngine {
	return &PulseEngine{
		log:    log,
		clock:  clock,
		line:   line,
		rt:     rt,
		timing: timing,
		state:  StateIdle,
	}
}

// Run never returns until the context is cancelled. Cancellation is only
// observed in the Idle state: a frame that has begun always completes,
// because the host has no way to resynchronize a truncated frame.
func (e *PulseEngine) Run(ctx context.Context, q *txqueue.Queue[Message]) error {
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

// RunOnce polls the queue once and, if a message is pending, drives the state
// machine through one complete frame. Returns whether a frame was sent.
func (e *PulseEngine) RunOnce(q *txqueue.Queue[Message]) bool {
	for {
		switch e.state {
		case StateIdle:
			msg, ok := q.Poll()
			if !ok {
				return false
			}
			e.msg = msg
			e.rt.Enter()
			e.state = StateStartTransmit

		case StateStartTransmit:
			e.remaining = e.msg.Mode.Bits()
			e.state = StateHeader

		case StateHeader:
			e.pulse(e.timing.HeaderLow, e.timing.HeaderHigh)
			e.state = StateData

		case StateData:
			bit := (e.msg.Value >> uint(e.remaining-1)) & 1
			high := e.timing.BitHighZero
			if bit == 1 {
				high = e.timing.BitHighOne
			}
			e.pulse(e.timing.BitLow, high)
			e.remaining--
			if e.remaining == 0 {
				e.state = StateStop
			}

		case StateStop:
			// Final low pulse, then release the line to its idle level.
			now := e.clock.Now()
			e.line.Set(false)
			e.clock.SpinUntil(now + e.timing.StopLow)
			e.line.Set(true)
			e.state = StateEndTransmit

		case StateEndTransmit:
			e.rt.Exit()
			e.state = StateIdle
			e.log.Debug("frame sent",
				zap.String("mode", e.msg.Mode.String()),
				zap.Uint32("value", e.msg.Value))
			return true
		}
	}
}

func (e *PulseEngine) pulse(lowUs, highUs int64) {
	start := e.clock.Now()
	e.line.Set(false)
	e.clock.SpinUntil(start + lowUs)
	e.line.Set(true)
	e.clock.SpinUntil(start + lowUs + highUs)
}

// State exposes the current protocol state for diagnostics.
func (e *PulseEngine) State() ProtocolState {
	return e.state
}
