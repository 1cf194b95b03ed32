// cmd/desktop/main.go
//
// Desktop entry point: opens a 1000x800 window and plays one game.
// Configuration comes from the same environment as the server
// (THEME, THEME_FILE, IMAGES_DIR, LOG_LEVEL, NATS_URL).

package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorygame/internal/config"
	"github.com/robalobadob/memorygame/internal/desktop"
	"github.com/robalobadob/memorygame/internal/events"
	"github.com/robalobadob/memorygame/internal/frame"
	"github.com/robalobadob/memorygame/internal/game"
	"github.com/robalobadob/memorygame/internal/i18n"
	"github.com/robalobadob/memorygame/internal/themes"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	if err := themes.Init(cfg.ThemeFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load themes")
	}
	faces, err := themes.Default().Get(cfg.Theme)
	if err != nil {
		log.Fatal().Err(err).Str("theme", cfg.Theme).Msg("unknown theme")
	}
	deck, err := game.NewDeck(faces, game.NewRand(game.RandomSeed()))
	if err != nil {
		log.Fatal().Err(err).Msg("build deck")
	}
	clk := game.SystemClock{}
	st, err := game.New(deck, game.WithClock(clk))
	if err != nil {
		log.Fatal().Err(err).Msg("new game")
	}

	pub := events.New(cfg.NATSURL, "memorygame-desktop")
	defer pub.Close()

	// The bitmap font only covers ASCII.
	labels := i18n.For("en")
	g := desktop.New(frame.New(st, clk), desktop.Config{
		Labels:    labels,
		Faces:     faces,
		Theme:     cfg.Theme,
		ImagesDir: cfg.ImagesDir,
		Publisher: pub,
	})

	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	ebiten.SetWindowTitle(labels.Title())
	ebiten.SetWindowClosingHandled(true)

	log.Info().Str("theme", cfg.Theme).Msg("starting desktop game")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal().Err(err).Msg("game exited")
	}
	sum := st.Summary()
	log.Info().Int("attempts", sum.Attempts).Dur("total", sum.Total).Msg("game over")
}
