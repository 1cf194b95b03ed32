// Package frame drives one game from the shell event stream.
//
// A shell feeds the loop three kinds of events: PointerDown, Tick and Quit.
// Each Apply first checks the pending resolution deadline, so a pair is
// adjudicated as soon as its 500ms have passed, whichever event arrives
// next. Shells then read Snapshot to redraw and Done to stop.
package frame

import (
	"sync"
	"time"

	"github.com/robalobadob/memorygame/internal/game"
)

// Event is one input delivered by a shell.
type Event interface{ isEvent() }

// PointerDown is a primary-button press at screen coordinates.
type PointerDown struct{ X, Y int }

// Tick advances the frame by Delta of wall-clock time and one animation step.
type Tick struct{ Delta time.Duration }

// Quit ends the loop.
type Quit struct{}

func (PointerDown) isEvent() {}
func (Tick) isEvent()        {}
func (Quit) isEvent()        {}

// stepper is implemented by simulated clocks such as game.ManualClock.
type stepper interface {
	Advance(time.Duration)
}

// Result reports what one event changed.
type Result struct {
	Revealed bool // a card started flipping
	Resolved bool // a pending pair was adjudicated
}

// Loop owns a game and serializes access to it.
type Loop struct {
	mu    sync.Mutex
	state *game.State
	clock game.Clock
	quit  bool
}

// New wraps st. clk must be the clock st was built with; if it is a
// simulated clock, Tick events advance it.
func New(st *game.State, clk game.Clock) *Loop {
	return &Loop{state: st, clock: clk}
}

// Apply handles a single event.
func (l *Loop) Apply(ev Event) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res Result
	if l.quit {
		return res
	}
	res.Resolved = l.state.Poll()

	switch e := ev.(type) {
	case PointerDown:
		res.Revealed = l.state.HandleClick(game.Point{X: e.X, Y: e.Y})
	case Tick:
		if st, ok := l.clock.(stepper); ok {
			st.Advance(e.Delta)
		}
		l.state.AdvanceAnimation(1)
		if l.state.Poll() {
			res.Resolved = true
		}
	case Quit:
		l.quit = true
	}
	return res
}

// Drain applies events in order and returns the combined result.
func (l *Loop) Drain(events []Event) Result {
	var out Result
	for _, ev := range events {
		r := l.Apply(ev)
		out.Revealed = out.Revealed || r.Revealed
		out.Resolved = out.Resolved || r.Resolved
	}
	return out
}

// Snapshot returns the current frame after resolving an expired deadline.
func (l *Loop) Snapshot() game.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.quit {
		l.state.Poll()
	}
	return l.state.Snapshot()
}

// Summary returns the end-of-game counters.
func (l *Loop) Summary() game.Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Summary()
}

// Quitting reports whether a Quit event was received.
func (l *Loop) Quitting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quit
}

// Done reports whether the shell should stop: quit or all pairs matched.
func (l *Loop) Done() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quit || l.state.IsComplete()
}
