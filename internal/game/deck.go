// internal/game/deck.go
//
// Deck construction for a 4x4 board.
// A deck is the 16 faces in board order: every theme value exactly twice,
// shuffled once with Fisher-Yates (math/rand Shuffle) at game start.

package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

const (
	Rows      = 4
	Cols      = 4
	CardCount = Rows * Cols
	PairCount = CardCount / 2
)

// ErrInvalidDeck is wrapped by every deck validation failure.
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is the ordered list of faces dealt onto the board, row-major.
type Deck []Face

// NewDeck duplicates the theme faces and shuffles them with rng.
// faces must hold exactly PairCount distinct, non-empty values.
func NewDeck(faces []Face, rng *rand.Rand) (Deck, error) {
	if err := validateTheme(faces); err != nil {
		return nil, err
	}
	deck := make(Deck, 0, CardCount)
	deck = append(deck, faces...)
	deck = append(deck, faces...)
	shuffle(rng, deck)
	return deck, nil
}

// DeckFromOrder builds a deck with a fixed order, e.g. a replayed or
// scripted board. The order must satisfy the same pair invariant.
func DeckFromOrder(order []Face) (Deck, error) {
	if len(order) != CardCount {
		return nil, fmt.Errorf("%w: want %d cards, got %d", ErrInvalidDeck, CardCount, len(order))
	}
	deck := append(Deck(nil), order...)
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

// Validate checks that the deck has CardCount cards made of PairCount
// distinct faces, each appearing exactly twice.
func (d Deck) Validate() error {
	if len(d) != CardCount {
		return fmt.Errorf("%w: want %d cards, got %d", ErrInvalidDeck, CardCount, len(d))
	}
	counts := d.Counts()
	if len(counts) != PairCount {
		return fmt.Errorf("%w: want %d distinct faces, got %d", ErrInvalidDeck, PairCount, len(counts))
	}
	for f, n := range counts {
		if f == "" {
			return fmt.Errorf("%w: empty face", ErrInvalidDeck)
		}
		if n != 2 {
			return fmt.Errorf("%w: face %q appears %d times", ErrInvalidDeck, f, n)
		}
	}
	return nil
}

// Counts returns how many times each face occurs.
func (d Deck) Counts() map[Face]int {
	m := make(map[Face]int, PairCount)
	for _, f := range d {
		m[f]++
	}
	return m
}

// Faces returns the distinct faces in sorted order.
func (d Deck) Faces() []Face {
	out := make([]Face, 0, PairCount)
	for f := range d.Counts() {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func validateTheme(faces []Face) error {
	if len(faces) != PairCount {
		return fmt.Errorf("%w: theme needs %d faces, got %d", ErrInvalidDeck, PairCount, len(faces))
	}
	seen := make(map[Face]struct{}, len(faces))
	for _, f := range faces {
		if f == "" {
			return fmt.Errorf("%w: empty face", ErrInvalidDeck)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: duplicate face %q", ErrInvalidDeck, f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

// shuffle applies a uniform Fisher-Yates permutation in place.
func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// NewRand returns a math/rand source seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomSeed draws a seed from crypto/rand.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
