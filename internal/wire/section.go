package wire

import "runtime"

// Section is the real-time region covering one frame. Enter is called after
// a message is dequeued and Exit at EndTransmit; the engine's state machine
// guarantees no branch between the two can loop unbounded, so the section
// duration is bounded by one frame length.
type Section interface {
	Enter()
	Exit()
}

// ThreadSection pins the goroutine to its OS thread for the frame so the
// scheduler cannot migrate it mid-pulse. This is the Go rendition of the
// core-exclusive critical section the pulse widths depend on.
type ThreadSection struct{}

func (ThreadSection) Enter() { runtime.LockOSThread() }
func (ThreadSection) Exit()  { runtime.UnlockOSThread() }
