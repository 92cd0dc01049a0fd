package ui

import "time"

// ReadyGate decides when the controls become usable: once every expected
// load has finished (successfully or not), or once the fallback delay has
// passed, whichever comes first.
type ReadyGate struct {
	expected int
	fallback time.Duration
	start    time.Time

	ready    bool
	timedOut bool
}

// NewReadyGate starts the fallback clock at start. A non-positive fallback
// disables the timeout.
func NewReadyGate(expected int, fallback time.Duration, start time.Time) *ReadyGate {
	return &ReadyGate{expected: expected, fallback: fallback, start: start}
}

// Update evaluates the gate with the number of loads still outstanding. It
// returns true exactly once, on the transition to ready.
func (g *ReadyGate) Update(now time.Time, pending int) bool {
	if g.ready {
		return false
	}
	switch {
	case pending <= 0:
		g.ready = true
	case g.fallback > 0 && now.Sub(g.start) >= g.fallback:
		g.ready = true
		g.timedOut = true
	}
	return g.ready
}

// Ready reports whether the gate has opened.
func (g *ReadyGate) Ready() bool { return g.ready }

// TimedOut reports whether the gate opened on the fallback delay.
func (g *ReadyGate) TimedOut() bool { return g.timedOut }

// Expected returns the number of loads the gate was created for.
func (g *ReadyGate) Expected() int { return g.expected }
