// Package render holds the drawing decisions of the desktop shell that do
// not depend on a graphics backend: what to draw for a card, how wide a
// flipping card looks, which placeholder colour a face gets.
package render

import (
	"image/color"
	"math"

	"github.com/robalobadob/memorygame/internal/game"
)

// Colours of the board and the summary screen.
var (
	Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Text       = color.RGBA{A: 255}
	Back       = color.RGBA{R: 255, A: 255}
	Banner     = color.RGBA{R: 255, A: 255}
	Success    = color.RGBA{G: 190, A: 255}
	Outline    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// palette is used for faces without an image.
var palette = []color.RGBA{
	{R: 196, G: 30, B: 58, A: 255},
	{R: 139, G: 90, B: 43, A: 255},
	{R: 120, G: 170, B: 220, A: 255},
	{R: 34, G: 139, B: 34, A: 255},
	{R: 218, G: 165, B: 32, A: 255},
	{R: 184, G: 134, B: 11, A: 255},
	{R: 255, G: 215, B: 0, A: 255},
	{R: 220, G: 20, B: 160, A: 255},
}

// Kind is what the shell draws for one card.
type Kind int

const (
	// DrawBack is a face-down card.
	DrawBack Kind = iota
	// DrawFlipping is the back face squashed by the flip angle.
	DrawFlipping
	// DrawFront is the theme image or its placeholder.
	DrawFront
)

// KindOf maps a card view to its drawing.
func KindOf(v game.CardView) Kind {
	switch v.Status {
	case game.Flipping:
		return DrawFlipping
	case game.Revealed:
		return DrawFront
	default:
		return DrawBack
	}
}

// FlipRect is the on-screen rectangle of a flipping card: the back face
// narrows around its centre as the angle goes from 0 to 90 degrees.
func FlipRect(r game.Rect, angle int) game.Rect {
	if angle <= 0 {
		return r
	}
	if angle >= game.FlipDone {
		angle = game.FlipDone
	}
	w := int(math.Round(float64(r.W) * math.Cos(float64(angle)*math.Pi/180)))
	if w < 1 {
		w = 1
	}
	return game.Rect{X: r.X + (r.W-w)/2, Y: r.Y, W: w, H: r.H}
}

// Placeholders assigns a stable colour to each face in theme order.
func Placeholders(faces []game.Face) map[game.Face]color.RGBA {
	out := make(map[game.Face]color.RGBA, len(faces))
	for i, f := range faces {
		out[f] = palette[i%len(palette)]
	}
	return out
}

// Line is one positioned string of text.
type Line struct {
	Text  string
	X, Y  int
	Color color.RGBA
}

// SummaryLines lays out the end-of-game text around the screen centre,
// 50px apart, with the banner in red and the closing lines in green.
func SummaryLines(lines []string) []Line {
	x := game.ScreenWidth/2 - 100
	y := game.ScreenHeight/2 - 100
	out := make([]Line, 0, len(lines))
	for i, s := range lines {
		c := Text
		switch {
		case i == 0:
			c = Banner
		case i >= 3:
			c = Success
		}
		out = append(out, Line{Text: s, X: x, Y: y + i*50, Color: c})
	}
	return out
}
