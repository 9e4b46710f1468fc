package wire

// Line is one GPIO-equivalent output. The keyboard link idles high and is
// driven low for the active phase of each pulse; the mouse link idles at the
// mark level.
type Line interface {
	Set(high bool)
}

// Gate is the host-driven enable input gating mouse link transmission. The
// engine observes it going active before starting a frame.
type Gate interface {
	Active() bool
}

// NopLine discards writes. Used when a host interface runs keyboard-only.
type NopLine struct{}

func (NopLine) Set(bool) {}

// StaticGate is always in the given state. Useful for bench runs without a
// host attached.
type StaticGate bool

func (g StaticGate) Active() bool { return bool(g) }
