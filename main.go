package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/catalog"
	"github.com/robalobadob/connections/internal/config"
	"github.com/robalobadob/connections/internal/feed"
	"github.com/robalobadob/connections/internal/httpserver"
	"github.com/robalobadob/connections/internal/storage"
	"github.com/robalobadob/connections/internal/store"
)

// idle sessions are evicted after sessionTTL
const (
	sessionTTL    = 2 * time.Hour
	sweepInterval = 5 * time.Minute
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	cat, err := catalog.Init(cfg.PuzzlesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzles")
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	go mem.RunSweeper(ctx, sweepInterval, sessionTTL, func(n int) {
		log.Debug().Int("evicted", n).Msg("swept idle sessions")
	})

	hub := feed.NewHub(cfg.ClientOrigin)
	go hub.Run(ctx)

	srv := httpserver.New(httpserver.Deps{
		Config:  cfg,
		Catalog: cat,
		Store:   mem,
		DB:      db,
		Hub:     hub,
	})
	log.Info().Str("port", cfg.Port).Int("puzzles", cat.Len()).Msg("starting connections server")
	err = srv.Start(ctx, ":"+cfg.Port)
	stop()
	if cerr := db.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("close database")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
