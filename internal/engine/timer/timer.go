// Package timer tracks frame timing for the render loop.
package timer

import "time"

// MaxDelta caps a single frame step after a stall (window drag, breakpoint).
const MaxDelta = 100 * time.Millisecond

// StepTimer measures variable-length frames.
type StepTimer struct {
	now func() time.Time

	last    time.Time
	elapsed time.Duration
	total   time.Duration
	frames  uint64

	// FPS bookkeeping
	secondStart time.Time
	secondCount int
	fps         int
}

// New returns a timer reading the wall clock.
func New() *StepTimer {
	return NewWithClock(time.Now)
}

// NewWithClock returns a timer reading the given clock.
func NewWithClock(now func() time.Time) *StepTimer {
	t := &StepTimer{now: now}
	t.Reset()
	return t
}

// Reset restarts timing from now, discarding accumulated totals.
func (t *StepTimer) Reset() {
	start := t.now()
	t.last = start
	t.secondStart = start
	t.elapsed, t.total = 0, 0
	t.frames, t.secondCount, t.fps = 0, 0, 0
}

// Tick advances one frame. It reports true when a new FPS sample is ready.
func (t *StepTimer) Tick() bool {
	now := t.now()
	delta := now.Sub(t.last)
	t.last = now

	delta = min(max(delta, 0), MaxDelta)
	t.elapsed = delta
	t.total += delta
	t.frames++

	t.secondCount++
	if span := now.Sub(t.secondStart); span >= time.Second {
		t.fps = int(float64(t.secondCount) / span.Seconds())
		t.secondCount = 0
		t.secondStart = now
		return true
	}
	return false
}

// ElapsedSeconds returns the length of the last frame.
func (t *StepTimer) ElapsedSeconds() float32 {
	return float32(t.elapsed.Seconds())
}

// TotalSeconds returns the summed frame time since Reset.
func (t *StepTimer) TotalSeconds() float32 {
	return float32(t.total.Seconds())
}

// FrameCount returns the number of ticks since Reset.
func (t *StepTimer) FrameCount() uint64 {
	return t.frames
}

// FPS returns frames counted over the last full second.
func (t *StepTimer) FPS() int {
	return t.fps
}
