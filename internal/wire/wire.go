// Package wire implements the serial transmission engines: one finite state
// machine per host electrical protocol, driven by a free-running microsecond
// clock, serializing mapped key/mouse values onto output lines.
package wire

import "fmt"

// FrameMode selects the keyboard link framing.
type FrameMode uint8

const (
	// FrameModeA is the standard 16-bit frame: control byte then key byte.
	FrameModeA FrameMode = iota
	// FrameModeB is the faster 24-bit direct frame.
	FrameModeB
)

func (m FrameMode) Bits() int {
	if m == FrameModeB {
		return 24
	}
	return 16
}

func (m FrameMode) String() string {
	switch m {
	case FrameModeA:
		return "A"
	case FrameModeB:
		return "B"
	}
	return fmt.Sprintf("FrameMode(%d)", uint8(m))
}

// Message is one fully mapped output value handed over the transmit queue.
// Ownership transfers from the mapping loop to the engine on enqueue.
type Message struct {
	Value uint32
	Mode  FrameMode
}

// MouseFrame is the 3-byte payload of one mouse link frame: button bits,
// X delta, Y delta. The zero value is the keep-alive frame.
type MouseFrame [3]byte

// ProtocolState is the engine state, advanced once per timer expiry. Owned
// exclusively by the engine goroutine.
type ProtocolState uint8

const (
	StateIdle ProtocolState = iota
	StateStartTransmit
	StateHeader
	StateData
	StateStop
	StateEndTransmit
)

func (s ProtocolState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStartTransmit:
		return "start"
	case StateHeader:
		return "header"
	case StateData:
		return "data"
	case StateStop:
		return "stop"
	case StateEndTransmit:
		return "end"
	}
	return fmt.Sprintf("ProtocolState(%d)", uint8(s))
}
