// internal/game/engine.go
//
// Core game engine for a single memory-game session.
// Responsibilities:
//   - Deal a 4x4 board from a validated deck.
//   - Hit-test pointer clicks and start card flips.
//   - Advance the flip animation one tick at a time.
//   - Hold a pending resolution (deadline) after the second reveal, then
//     apply the match rule: equal faces -> matched, otherwise -> hidden.
//   - Track attempts and elapsed time; report completion.
//
// Notes:
//   - Every operation is total. Out-of-context input is a no-op that
//     returns false, never an error.
//   - The resolution delay is a deadline compared against the injected
//     Clock. Nothing here sleeps or owns a timer.
//   - State is not safe for concurrent use; shells serialize access.
package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Board geometry, in screen pixels.
const (
	CardWidth    = 150
	CardHeight   = 150
	CardMargin   = 10
	BoardOriginX = 100
	BoardOriginY = 100
	ScreenWidth  = 1000
	ScreenHeight = 800
)

const (
	// FlipStep is the angle added per animation tick.
	FlipStep = 15
	// FlipDone is the angle at which a flipping card counts as revealed.
	FlipDone = 90
	// ResolveDelay is how long two revealed cards stay up before the match rule runs.
	ResolveDelay = 500 * time.Millisecond
)

// DefaultFaces is the built-in christmas theme.
var DefaultFaces = []Face{"santa", "reindeer", "snowman", "tree", "gift", "bell", "star", "candy"}

// State is the authoritative state of one game.
type State struct {
	cards    [CardCount]Card
	revealed []int // indices awaiting resolution, at most 2

	pending  bool
	deadline time.Time

	attempts int
	start    time.Time
	finished time.Time // zero until the last pair matches

	clock Clock
}

type options struct {
	clock Clock
}

// Option configures a State.
type Option func(*options)

// WithClock injects the time source. Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// New deals deck onto the board and starts the game clock.
// The deck is validated; an invalid deck is the only error New returns.
func New(deck Deck, opts ...Option) (*State, error) {
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	o := options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &State{
		revealed: make([]int, 0, 2),
		clock:    o.clock,
	}
	for i, f := range deck {
		row, col := i/Cols, i%Cols
		s.cards[i] = Card{
			Index:  i,
			Row:    row,
			Col:    col,
			Rect:   cardRect(row, col),
			Face:   f,
			Status: Hidden,
		}
	}
	s.start = s.clock.Now()
	return s, nil
}

// NewRandom starts a game with the default theme and a crypto-seeded shuffle.
func NewRandom(opts ...Option) *State {
	deck, err := NewDeck(DefaultFaces, rand.New(rand.NewSource(RandomSeed())))
	if err != nil {
		panic(err) // DefaultFaces is a valid theme
	}
	s, err := New(deck, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// cardRect returns the hit region of the card at (row, col).
func cardRect(row, col int) Rect {
	return Rect{
		X: BoardOriginX + col*(CardWidth+CardMargin),
		Y: BoardOriginY + row*(CardHeight+CardMargin),
		W: CardWidth,
		H: CardHeight,
	}
}

// HandleClick reveals the hidden card under p.
// It is a no-op (false) when two cards are already up, a resolution is
// pending, or no hidden card contains p. Revealed, flipping and matched
// cards are skipped by hit-testing, so the same card cannot be picked twice.
func (s *State) HandleClick(p Point) bool {
	if s.pending || len(s.revealed) >= 2 {
		return false
	}
	i := s.hitTest(p)
	if i < 0 {
		return false
	}

	c := &s.cards[i]
	c.Status = Flipping
	c.FlipAngle = 0
	s.revealed = append(s.revealed, i)

	if len(s.revealed) == 2 {
		s.attempts++
		s.pending = true
		s.deadline = s.clock.Now().Add(ResolveDelay)
	}
	return true
}

// hitTest returns the index of the first hidden card containing p, or -1.
func (s *State) hitTest(p Point) int {
	for i := range s.cards {
		if s.cards[i].Status == Hidden && s.cards[i].Rect.Contains(p) {
			return i
		}
	}
	return -1
}

// AdvanceAnimation moves every flipping card forward by ticks steps.
// A card reaching FlipDone becomes Revealed. Matching state is untouched.
func (s *State) AdvanceAnimation(ticks int) {
	if ticks <= 0 {
		return
	}
	for i := range s.cards {
		c := &s.cards[i]
		if c.Status != Flipping {
			continue
		}
		c.FlipAngle += FlipStep * ticks
		if c.FlipAngle >= FlipDone {
			c.FlipAngle = FlipDone
			c.Status = Revealed
		}
	}
}

// ResolvePending applies the match rule to the two revealed cards.
// Equal faces become Matched; different faces go back to Hidden.
// Reports false when nothing was pending.
func (s *State) ResolvePending() bool {
	if !s.pending {
		return false
	}
	a, b := &s.cards[s.revealed[0]], &s.cards[s.revealed[1]]
	if a.Face == b.Face {
		a.Status, b.Status = Matched, Matched
		a.FlipAngle, b.FlipAngle = FlipDone, FlipDone
	} else {
		a.Status, b.Status = Hidden, Hidden
		a.FlipAngle, b.FlipAngle = 0, 0
	}
	s.revealed = s.revealed[:0]
	s.pending = false
	s.deadline = time.Time{}

	if s.finished.IsZero() && s.IsComplete() {
		s.finished = s.clock.Now()
	}
	return true
}

// Poll resolves the pending pair once the clock has reached its deadline.
func (s *State) Poll() bool {
	if !s.pending || s.clock.Now().Before(s.deadline) {
		return false
	}
	return s.ResolvePending()
}

// IsComplete reports whether every card is matched.
func (s *State) IsComplete() bool {
	for i := range s.cards {
		if s.cards[i].Status != Matched {
			return false
		}
	}
	return true
}

// Elapsed is the time since the game started, never negative.
func (s *State) Elapsed() time.Duration {
	d := s.clock.Now().Sub(s.start)
	if d < 0 {
		return 0
	}
	return d
}

// Attempts is the number of completed pairs of reveals.
func (s *State) Attempts() int { return s.attempts }

// Pending reports whether a resolution is outstanding, and its deadline.
func (s *State) Pending() (time.Time, bool) { return s.deadline, s.pending }

// Revealed returns the indices currently awaiting resolution.
func (s *State) Revealed() []int { return append([]int(nil), s.revealed...) }

// Card returns a copy of card i. It panics if i is out of range.
func (s *State) Card(i int) Card { return s.cards[i] }

// Cards returns a copy of all 16 cards, matched ones included.
func (s *State) Cards() []Card { return append([]Card(nil), s.cards[:]...) }

// MatchedPairs counts pairs already removed from the board.
func (s *State) MatchedPairs() int {
	n := 0
	for i := range s.cards {
		if s.cards[i].Status == Matched {
			n++
		}
	}
	return n / 2
}

// Board returns the views of all cards still in play.
// Hidden cards do not expose their face.
func (s *State) Board() []CardView {
	out := make([]CardView, 0, CardCount)
	for _, c := range s.cards {
		if c.Status == Matched {
			continue
		}
		v := CardView{Index: c.Index, Rect: c.Rect, Status: c.Status}
		if c.Status == Flipping || c.Status == Revealed {
			v.Face = c.Face
			v.FlipAngle = c.FlipAngle
		}
		out = append(out, v)
	}
	return out
}

// Snapshot bundles the board with the counters shown on screen.
func (s *State) Snapshot() Snapshot {
	elapsed := s.Elapsed()
	return Snapshot{
		Cards:        s.Board(),
		Attempts:     s.attempts,
		Elapsed:      elapsed,
		ElapsedMs:    elapsed.Milliseconds(),
		Pending:      s.pending,
		MatchedPairs: s.MatchedPairs(),
		Complete:     s.IsComplete(),
	}
}

// Summary reports the final counters. Total stops at the moment the last
// pair matched; before that it equals Elapsed.
func (s *State) Summary() Summary {
	total := s.Elapsed()
	if !s.finished.IsZero() {
		total = s.finished.Sub(s.start)
	}
	return Summary{Attempts: s.attempts, Total: total, TotalMs: total.Milliseconds()}
}
