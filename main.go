package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorygame/internal/config"
	"github.com/robalobadob/memorygame/internal/events"
	"github.com/robalobadob/memorygame/internal/httpserver"
	"github.com/robalobadob/memorygame/internal/store"
	"github.com/robalobadob/memorygame/internal/themes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	if err := themes.Init(cfg.ThemeFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load themes")
	}
	if _, err := themes.Default().Get(cfg.Theme); err != nil {
		log.Fatal().Err(err).Str("theme", cfg.Theme).Msg("default theme not available")
	}

	pub := events.New(cfg.NATSURL, "memorygame-server")
	defer pub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, themes.Default(), pub, httpserver.Options{
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		ClientOrigin: cfg.ClientOrigin,
		DailySalt:    cfg.DailySalt,
		Theme:        cfg.Theme,
		Locale:       cfg.Locale,
	})
	go srv.Sweep(ctx, cfg.SessionIdle, time.Minute)

	go func() {
		log.Info().Str("port", cfg.Port).Str("theme", cfg.Theme).Msg("starting memorygame server")
		if err := srv.Start(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
}
