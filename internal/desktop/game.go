// internal/desktop/game.go
//
// ebiten front-end for one memory game.
// Responsibilities:
//   - Translate mouse presses, frame ticks and window close into frame events.
//   - Draw the board: red backs, squashed backs while flipping, theme images
//     (or coloured placeholders) for revealed cards, and the HUD labels.
//   - Show the end-of-game summary for SummaryDuration, then terminate.
//   - Publish lifecycle events for the session.

package desktop

import (
	"context"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/basicfont"

	"github.com/robalobadob/memorygame/internal/events"
	"github.com/robalobadob/memorygame/internal/frame"
	"github.com/robalobadob/memorygame/internal/game"
	"github.com/robalobadob/memorygame/internal/i18n"
	"github.com/robalobadob/memorygame/internal/render"
)

// SummaryDuration is how long the end-of-game screen stays up.
const SummaryDuration = 3 * time.Second

var face = text.NewGoXFace(basicfont.Face7x13)

// Game implements ebiten.Game.
type Game struct {
	loop   *frame.Loop
	labels i18n.Labels
	images map[game.Face]*ebiten.Image
	colors map[game.Face]color.RGBA

	pub      events.Publisher
	id       string
	theme    string
	attempts int
	doneAt   time.Time
	now      func() time.Time
}

// Config carries everything New needs besides the loop.
type Config struct {
	Labels    i18n.Labels
	Faces     []game.Face
	Theme     string
	ImagesDir string
	Publisher events.Publisher
}

// New builds the shell around loop and announces the game.
func New(loop *frame.Loop, cfg Config) *Game {
	pub := cfg.Publisher
	if pub == nil {
		pub = events.Nop{}
	}
	g := &Game{
		loop:   loop,
		labels: cfg.Labels,
		images: LoadImages(cfg.ImagesDir, cfg.Faces),
		colors: render.Placeholders(cfg.Faces),
		pub:    pub,
		id:     uuid.NewString(),
		theme:  cfg.Theme,
		now:    time.Now,
	}
	g.emit(events.KindStarted, loop.Snapshot())
	return g
}

// LoadImages reads <dir>/<face>.png for every face. Missing or broken
// images are logged and left out; those faces are drawn as placeholders.
func LoadImages(dir string, faces []game.Face) map[game.Face]*ebiten.Image {
	out := make(map[game.Face]*ebiten.Image, len(faces))
	if dir == "" {
		return out
	}
	for _, f := range faces {
		path := filepath.Join(dir, string(f)+".png")
		if _, err := os.Stat(path); err != nil {
			log.Warn().Str("face", string(f)).Str("path", path).Msg("image missing, using placeholder")
			continue
		}
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("image unreadable, using placeholder")
			continue
		}
		out[f] = img
	}
	return out
}

// Update feeds one frame of input into the loop.
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		if !g.loop.Done() {
			g.loop.Apply(frame.Quit{})
			g.emit(events.KindQuit, g.loop.Snapshot())
		}
		return ebiten.Termination
	}

	if g.loop.Done() {
		if g.doneAt.IsZero() {
			g.doneAt = g.now()
		}
		if g.now().Sub(g.doneAt) >= SummaryDuration {
			return ebiten.Termination
		}
		return nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.loop.Apply(frame.PointerDown{X: x, Y: y})
	}
	g.loop.Apply(frame.Tick{Delta: time.Second / time.Duration(ebiten.TPS())})

	snap := g.loop.Snapshot()
	if snap.Attempts > g.attempts {
		g.attempts = snap.Attempts
		g.emit(events.KindAttempt, snap)
	}
	if snap.Complete {
		g.emit(events.KindCompleted, snap)
	}
	return nil
}

// Draw renders the current frame.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Background)
	snap := g.loop.Snapshot()

	if snap.Complete {
		for _, l := range render.SummaryLines(g.labels.SummaryLines(g.loop.Summary())) {
			drawText(screen, l.Text, l.X, l.Y, l.Color)
		}
		return
	}

	for _, c := range snap.Cards {
		g.drawCard(screen, c)
	}
	drawText(screen, g.labels.Attempts(snap.Attempts), 10, 10, render.Text)
	drawText(screen, g.labels.Time(snap.Elapsed), 10, 30, render.Text)
}

func (g *Game) drawCard(screen *ebiten.Image, c game.CardView) {
	r := c.Rect
	switch render.KindOf(c) {
	case render.DrawBack:
		fillRect(screen, r, render.Back)
	case render.DrawFlipping:
		fillRect(screen, render.FlipRect(r, c.FlipAngle), render.Back)
	case render.DrawFront:
		if img, ok := g.images[c.Face]; ok {
			b := img.Bounds()
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(float64(r.W)/float64(b.Dx()), float64(r.H)/float64(b.Dy()))
			op.GeoM.Translate(float64(r.X), float64(r.Y))
			screen.DrawImage(img, op)
			return
		}
		fillRect(screen, r, g.colors[c.Face])
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, render.Outline, false)
		drawText(screen, string(c.Face), r.X+10, r.Y+r.H/2-6, render.Background)
	}
}

// Layout fixes the logical screen to the board's coordinate space.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return game.ScreenWidth, game.ScreenHeight
}

func (g *Game) emit(kind events.Kind, snap game.Snapshot) {
	err := g.pub.Publish(context.Background(), events.Event{
		Kind:         kind,
		GameID:       g.id,
		Theme:        g.theme,
		Attempts:     snap.Attempts,
		MatchedPairs: snap.MatchedPairs,
		ElapsedMs:    snap.ElapsedMs,
	})
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("publish event")
	}
}

func fillRect(dst *ebiten.Image, r game.Rect, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

func drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}
