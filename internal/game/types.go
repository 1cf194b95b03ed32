// internal/game/types.go
//
// Core type definitions for the memory game engine.
// Defines:
//   - Face:     symbolic theme value printed on a card (e.g. "santa").
//   - Status:   lifecycle of a single card (hidden/flipping/revealed/matched).
//   - Point, Rect: screen-space geometry used for hit-testing.
//   - Card:     one tile on the 4x4 board.
//   - CardView / Snapshot: read-only views handed to rendering shells.

package game

import (
	"fmt"
	"time"
)

// Face is the symbolic value on the front of a card.
// Shells resolve it to an image; the engine only compares keys.
type Face string

// Status represents the lifecycle state of a card.
type Status int

const (
	Hidden Status = iota
	Flipping
	Revealed
	Matched
)

// String returns the lowercase name used in JSON views and logs.
func (s Status) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flipping:
		return "flipping"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// MarshalText lets Status render as its name in JSON.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a name produced by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hidden":
		*s = Hidden
	case "flipping":
		*s = Flipping
	case "revealed":
		*s = Revealed
	case "matched":
		*s = Matched
	default:
		return fmt.Errorf("game: unknown status %q", b)
	}
	return nil
}

// Point is a pointer position in screen pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned hit region. Max edges are exclusive.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Card is a single tile on the board.
type Card struct {
	Index     int    // 0..15, row-major
	Row, Col  int    // grid position
	Rect      Rect   // hit region in screen pixels
	Face      Face   // fixed at construction
	Status    Status // mutated by State only
	FlipAngle int    // 0..FlipDone while Flipping
}

// CardView is the shell-facing representation of a card.
// Face is only set while the card is flipping or revealed.
type CardView struct {
	Index     int    `json:"index"`
	Rect      Rect   `json:"rect"`
	Status    Status `json:"status"`
	Face      Face   `json:"face,omitempty"`
	FlipAngle int    `json:"flipAngle,omitempty"`
}

// Snapshot is everything a shell needs to draw one frame.
type Snapshot struct {
	Cards        []CardView    `json:"cards"`
	Attempts     int           `json:"attempts"`
	Elapsed      time.Duration `json:"-"`
	ElapsedMs    int64         `json:"elapsedMs"`
	Pending      bool          `json:"pending"`
	MatchedPairs int           `json:"matchedPairs"`
	Complete     bool          `json:"complete"`
}

// Summary is the end-of-game record shown by shells.
type Summary struct {
	Attempts int           `json:"attempts"`
	Total    time.Duration `json:"-"`
	TotalMs  int64         `json:"totalMs"`
}
