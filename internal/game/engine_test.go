package game

import (
	"testing"
	"time"
)

var scenarioOrder = []Face{"A", "B", "A", "C", "B", "D", "C", "D", "E", "F", "E", "G", "F", "H", "G", "H"}

// scenarioPairs lists the slot pairs of scenarioOrder.
var scenarioPairs = [][2]int{{0, 2}, {1, 4}, {3, 6}, {5, 7}, {8, 10}, {9, 12}, {11, 14}, {13, 15}}

func newScenario(t *testing.T) (*State, *ManualClock) {
	t.Helper()
	deck, err := DeckFromOrder(scenarioOrder)
	if err != nil {
		t.Fatalf("DeckFromOrder: %v", err)
	}
	clk := NewManualClock(time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC))
	s, err := New(deck, WithClock(clk))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, clk
}

// center returns a point in the middle of slot i.
func center(i int) Point {
	r := cardRect(i/Cols, i%Cols)
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func statuses(s *State) []Status {
	out := make([]Status, CardCount)
	for i, c := range s.Cards() {
		out[i] = c.Status
	}
	return out
}

func TestNewGameStartsHidden(t *testing.T) {
	s, _ := newScenario(t)

	if s.Attempts() != 0 {
		t.Errorf("expected 0 attempts, got %d", s.Attempts())
	}
	if _, pending := s.Pending(); pending {
		t.Error("new game should not have a pending resolution")
	}
	if len(s.Revealed()) != 0 {
		t.Errorf("expected empty revealed set, got %v", s.Revealed())
	}
	for i, c := range s.Cards() {
		if c.Status != Hidden {
			t.Errorf("card[%d] expected Hidden, got %v", i, c.Status)
		}
		if c.Index != i || c.Row != i/Cols || c.Col != i%Cols {
			t.Errorf("card[%d] has position (%d, r%d c%d)", i, c.Index, c.Row, c.Col)
		}
		if c.Face != scenarioOrder[i] {
			t.Errorf("card[%d] face %q, want %q", i, c.Face, scenarioOrder[i])
		}
	}
}

func TestNewRejectsInvalidDeck(t *testing.T) {
	if _, err := New(Deck{"A", "A"}); err == nil {
		t.Fatal("expected error for short deck")
	}
}

func TestClickOutsideCardsIsNoop(t *testing.T) {
	s, _ := newScenario(t)
	before := statuses(s)

	outside := []Point{
		{0, 0},
		{BoardOriginX - 1, BoardOriginY - 1},
		{BoardOriginX + CardWidth + CardMargin/2, BoardOriginY + 10}, // gap between columns
		{BoardOriginX + 10, BoardOriginY + CardHeight + CardMargin/2}, // gap between rows
		{ScreenWidth + 50, ScreenHeight + 50},
		{-20, 300},
	}
	for round := 0; round < 3; round++ {
		for _, p := range outside {
			if s.HandleClick(p) {
				t.Errorf("click at %+v should be ignored", p)
			}
		}
	}

	after := statuses(s)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("card[%d] changed from %v to %v", i, before[i], after[i])
		}
	}
	if s.Attempts() != 0 {
		t.Errorf("expected 0 attempts, got %d", s.Attempts())
	}
}

func TestScenarioMismatchThenMatch(t *testing.T) {
	s, clk := newScenario(t)

	// Slot 0 (A) flips and becomes revealed.
	if !s.HandleClick(center(0)) {
		t.Fatal("click on slot 0 ignored")
	}
	if got := s.Card(0).Status; got != Flipping {
		t.Fatalf("slot 0: expected Flipping, got %v", got)
	}
	s.AdvanceAnimation(FlipDone / FlipStep)
	if got := s.Card(0).Status; got != Revealed {
		t.Fatalf("slot 0: expected Revealed, got %v", got)
	}

	// Slot 1 (B) completes the pair.
	if !s.HandleClick(center(1)) {
		t.Fatal("click on slot 1 ignored")
	}
	if s.Attempts() != 1 {
		t.Fatalf("expected 1 attempt, got %d", s.Attempts())
	}
	deadline, pending := s.Pending()
	if !pending {
		t.Fatal("expected pending resolution after second reveal")
	}
	if want := clk.Now().Add(ResolveDelay); !deadline.Equal(want) {
		t.Errorf("deadline %v, want %v", deadline, want)
	}

	clk.Advance(ResolveDelay)
	if !s.Poll() {
		t.Fatal("Poll should resolve once the delay elapsed")
	}
	if s.Card(0).Status != Hidden || s.Card(1).Status != Hidden {
		t.Fatalf("A != B should hide both, got %v / %v", s.Card(0).Status, s.Card(1).Status)
	}

	// Slot 0 (A) and slot 2 (A) match.
	s.HandleClick(center(0))
	s.HandleClick(center(2))
	if s.Attempts() != 2 {
		t.Fatalf("expected 2 attempts, got %d", s.Attempts())
	}
	clk.Advance(ResolveDelay)
	s.Poll()
	if s.Card(0).Status != Matched || s.Card(2).Status != Matched {
		t.Fatalf("A == A should match both, got %v / %v", s.Card(0).Status, s.Card(2).Status)
	}
	if s.Attempts() != 2 {
		t.Errorf("resolution must not change attempts, got %d", s.Attempts())
	}
	if s.MatchedPairs() != 1 {
		t.Errorf("expected 1 matched pair, got %d", s.MatchedPairs())
	}
}

func TestResolveMatchKeepsAttempts(t *testing.T) {
	s, _ := newScenario(t)
	s.HandleClick(center(5))
	s.HandleClick(center(7))
	if !s.ResolvePending() {
		t.Fatal("ResolvePending should report a resolution")
	}
	if s.Card(5).Status != Matched || s.Card(7).Status != Matched {
		t.Errorf("D/D should be matched, got %v / %v", s.Card(5).Status, s.Card(7).Status)
	}
	if s.Attempts() != 1 {
		t.Errorf("expected 1 attempt, got %d", s.Attempts())
	}
	if len(s.Revealed()) != 0 {
		t.Errorf("revealed set should be cleared, got %v", s.Revealed())
	}
	if s.ResolvePending() {
		t.Error("second ResolvePending should be a no-op")
	}
}

func TestPendingLockRejectsClicks(t *testing.T) {
	s, clk := newScenario(t)
	s.HandleClick(center(0))
	s.HandleClick(center(1))
	before := statuses(s)

	for i := 0; i < CardCount; i++ {
		if s.HandleClick(center(i)) {
			t.Errorf("click on slot %d accepted while pending", i)
		}
	}
	// Still locked after the animation finishes but before the deadline.
	s.AdvanceAnimation(10)
	clk.Advance(ResolveDelay - time.Millisecond)
	if s.Poll() {
		t.Fatal("Poll resolved before the deadline")
	}
	if s.HandleClick(center(3)) {
		t.Error("click accepted before the deadline")
	}

	after := statuses(s)
	for i := range before {
		if i == 0 || i == 1 {
			continue // animation moved these to Revealed
		}
		if before[i] != after[i] {
			t.Errorf("card[%d] changed from %v to %v", i, before[i], after[i])
		}
	}
	if s.Attempts() != 1 {
		t.Errorf("expected 1 attempt, got %d", s.Attempts())
	}

	clk.Advance(time.Millisecond)
	if !s.Poll() {
		t.Fatal("Poll should resolve at the deadline")
	}
	if !s.HandleClick(center(3)) {
		t.Error("click should be accepted after resolution")
	}
}

func TestSameCardTwiceDoesNotCountAttempt(t *testing.T) {
	s, _ := newScenario(t)
	if !s.HandleClick(center(4)) {
		t.Fatal("first click ignored")
	}
	if s.HandleClick(center(4)) {
		t.Error("second click on the same flipping card should be ignored")
	}
	s.AdvanceAnimation(6)
	if s.HandleClick(center(4)) {
		t.Error("click on the same revealed card should be ignored")
	}
	if s.Attempts() != 0 {
		t.Errorf("expected 0 attempts, got %d", s.Attempts())
	}
	if got := s.Revealed(); len(got) != 1 || got[0] != 4 {
		t.Errorf("expected revealed [4], got %v", got)
	}
	if _, pending := s.Pending(); pending {
		t.Error("a single card must not start a resolution")
	}
}

func TestClickOnMatchedCardIsNoop(t *testing.T) {
	s, _ := newScenario(t)
	s.HandleClick(center(0))
	s.HandleClick(center(2))
	s.ResolvePending()

	if s.HandleClick(center(0)) || s.HandleClick(center(2)) {
		t.Error("matched cards must be excluded from hit-testing")
	}
	if len(s.Revealed()) != 0 || s.Attempts() != 1 {
		t.Errorf("matched click changed state: revealed=%v attempts=%d", s.Revealed(), s.Attempts())
	}
}

func TestAdvanceAnimation(t *testing.T) {
	s, _ := newScenario(t)
	s.HandleClick(center(9))

	for tick := 1; tick < FlipDone/FlipStep; tick++ {
		s.AdvanceAnimation(1)
		c := s.Card(9)
		if c.Status != Flipping {
			t.Fatalf("tick %d: expected Flipping, got %v", tick, c.Status)
		}
		if c.FlipAngle != tick*FlipStep {
			t.Fatalf("tick %d: angle %d, want %d", tick, c.FlipAngle, tick*FlipStep)
		}
	}
	s.AdvanceAnimation(1)
	if c := s.Card(9); c.Status != Revealed || c.FlipAngle != FlipDone {
		t.Fatalf("expected Revealed at %d, got %v at %d", FlipDone, c.Status, c.FlipAngle)
	}

	// Further ticks and non-positive deltas leave revealed cards alone.
	s.AdvanceAnimation(3)
	s.AdvanceAnimation(0)
	s.AdvanceAnimation(-2)
	if c := s.Card(9); c.Status != Revealed || c.FlipAngle != FlipDone {
		t.Errorf("revealed card changed: %v at %d", c.Status, c.FlipAngle)
	}
	for i, c := range s.Cards() {
		if i != 9 && c.Status != Hidden {
			t.Errorf("card[%d] should stay Hidden, got %v", i, c.Status)
		}
	}
}

func TestResolveWhileStillFlipping(t *testing.T) {
	s, clk := newScenario(t)
	s.HandleClick(center(8))
	s.HandleClick(center(10))
	clk.Advance(ResolveDelay)
	s.Poll()
	if s.Card(8).Status != Matched || s.Card(10).Status != Matched {
		t.Errorf("flipping pair should still resolve, got %v / %v", s.Card(8).Status, s.Card(10).Status)
	}
}

func TestMismatchResetsFlipAngle(t *testing.T) {
	s, _ := newScenario(t)
	s.HandleClick(center(0))
	s.HandleClick(center(1))
	s.AdvanceAnimation(6)
	s.ResolvePending()
	for _, i := range []int{0, 1} {
		if c := s.Card(i); c.Status != Hidden || c.FlipAngle != 0 {
			t.Errorf("card[%d]: expected Hidden at 0, got %v at %d", i, c.Status, c.FlipAngle)
		}
	}
}

func TestFullPlaythrough(t *testing.T) {
	s, clk := newScenario(t)

	for n, pair := range scenarioPairs {
		if s.IsComplete() {
			t.Fatalf("complete after only %d pairs", n)
		}
		s.HandleClick(center(pair[0]))
		s.AdvanceAnimation(1)
		s.HandleClick(center(pair[1]))
		s.AdvanceAnimation(6)
		clk.Advance(ResolveDelay)
		if !s.Poll() {
			t.Fatalf("pair %d did not resolve", n)
		}
	}

	if !s.IsComplete() {
		t.Fatal("expected game to be complete")
	}
	if s.Attempts() != PairCount {
		t.Errorf("expected %d attempts, got %d", PairCount, s.Attempts())
	}
	if len(s.Board()) != 0 {
		t.Errorf("matched cards should leave the board, %d remain", len(s.Board()))
	}

	want := time.Duration(PairCount) * ResolveDelay
	clk.Advance(3 * time.Second)
	sum := s.Summary()
	if sum.Total != want || sum.Attempts != PairCount {
		t.Errorf("summary %+v, want total %v attempts %d", sum, want, PairCount)
	}
	if s.Elapsed() != want+3*time.Second {
		t.Errorf("elapsed %v, want %v", s.Elapsed(), want+3*time.Second)
	}
}

func TestElapsedNeverNegative(t *testing.T) {
	s, clk := newScenario(t)
	if s.Elapsed() != 0 {
		t.Errorf("expected 0 elapsed, got %v", s.Elapsed())
	}
	clk.Advance(-time.Hour)
	if s.Elapsed() != 0 {
		t.Errorf("manual clock must not go backwards, got %v", s.Elapsed())
	}
	clk.Advance(1500 * time.Millisecond)
	if s.Elapsed() != 1500*time.Millisecond {
		t.Errorf("elapsed %v, want 1.5s", s.Elapsed())
	}
}

func TestBoardHidesFaceOfHiddenCards(t *testing.T) {
	s, _ := newScenario(t)
	s.HandleClick(center(3))

	board := s.Board()
	if len(board) != CardCount {
		t.Fatalf("expected %d views, got %d", CardCount, len(board))
	}
	for _, v := range board {
		if v.Index == 3 {
			if v.Face != "C" || v.Status != Flipping {
				t.Errorf("flipping card view %+v", v)
			}
			continue
		}
		if v.Face != "" {
			t.Errorf("hidden card %d exposes face %q", v.Index, v.Face)
		}
	}

	snap := s.Snapshot()
	if snap.Pending || snap.Complete || snap.Attempts != 0 || len(snap.Cards) != CardCount {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Hidden, "hidden"},
		{Flipping, "flipping"},
		{Revealed, "revealed"},
		{Matched, "matched"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
		if tt.want == "unknown" {
			continue
		}
		var back Status
		if err := back.UnmarshalText([]byte(tt.want)); err != nil || back != tt.status {
			t.Errorf("UnmarshalText(%q) = %v, %v", tt.want, back, err)
		}
	}
	var s Status
	if err := s.UnmarshalText([]byte("gone")); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 5, H: 5}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 20}, true},
		{Point{14, 24}, true},
		{Point{15, 20}, false},
		{Point{10, 25}, false},
		{Point{9, 22}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
