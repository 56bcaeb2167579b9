package tessera

// Timer measures elapsed time in frame-rate independent steps. It is ticked
// once per frame by the Form that owns it and only while that Form has focus.
type Timer struct {
	interval float64 // milliseconds
	progress float64 // milliseconds since the last completed cycle
	paused   bool

	cycleComplete Handlers[*Timer]
}

// NewTimer creates a running timer that completes a cycle every
// intervalMS milliseconds.
func NewTimer(intervalMS int) *Timer {
	return &Timer{interval: float64(intervalMS)}
}

// Tick advances the timer by one frame at frameRate frames per second and
// raises the cycle-complete handlers once for every interval crossed.
func (t *Timer) Tick(frameRate int) {
	if t.paused || frameRate <= 0 {
		return
	}
	t.progress += 1000 / float64(frameRate)
	if t.interval <= 0 {
		return
	}
	for t.progress >= t.interval && !t.paused {
		t.progress -= t.interval
		t.cycleComplete.RaiseEvents(t)
	}
}

// Interval returns the cycle length in milliseconds.
func (t *Timer) Interval() int { return int(t.interval) }

// SetInterval changes the cycle length. Progress toward the next cycle is kept.
func (t *Timer) SetInterval(intervalMS int) { t.interval = float64(intervalMS) }

// Pause stops the timer from advancing.
func (t *Timer) Pause() { t.paused = true }

// Continue resumes a paused timer.
func (t *Timer) Continue() { t.paused = false }

// Paused reports whether the timer is paused.
func (t *Timer) Paused() bool { return t.paused }

// Reset discards progress toward the current cycle.
func (t *Timer) Reset() { t.progress = 0 }

// CycleCompleteHandlers returns the handlers raised when an interval elapses.
func (t *Timer) CycleCompleteHandlers() *Handlers[*Timer] { return &t.cycleComplete }
