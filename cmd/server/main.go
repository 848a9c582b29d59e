package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordduel/internal/app"
	"wordduel/internal/config"
	"wordduel/internal/store"
	httpTransport "wordduel/internal/transport/http"
	"wordduel/internal/words"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	logger := cfg.Logging.NewLogger(os.Stdout)

	logger.Info().
		Str("env", cfg.Server.Env).
		Str("port", cfg.Server.Port).
		Msg("starting word duel server")

	index, err := loadDictionary(cfg.Words)
	if err != nil {
		// A server without a dictionary can only reject every word
		logger.Fatal().Err(err).Msg("load dictionary")
	}
	stats := index.Stats()
	logger.Info().Int("words", stats.Words).Int("blocked", stats.Blocked).Msg("dictionary loaded")

	var (
		sinks   []app.EventSink
		archive httpTransport.Archive
	)
	if cfg.Store.DBPath != "" {
		db, err := store.Open(cfg.Store.DBPath, logger.With().Str("component", "archive").Logger())
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Store.DBPath).Msg("open match archive")
		}
		defer db.Close()
		sinks = append(sinks, db)
		archive = db
	}

	hub := app.NewHub(app.HubConfig{
		Index:      index,
		Sinks:      sinks,
		Logger:     logger.With().Str("component", "hub").Logger(),
		StaleAfter: cfg.Match.StaleAfter,
	})
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, archive, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

// loadDictionary reads the configured word list, or the embedded one when
// none is set
func loadDictionary(cfg config.WordsConfig) (*words.Index, error) {
	opts := words.DefaultOptions()
	if cfg.CacheSize > 0 {
		opts.CacheSize = cfg.CacheSize
	}
	if cfg.WordsFile == "" {
		return words.LoadDefault(opts)
	}
	return words.LoadFiles(cfg.WordsFile, cfg.BlocklistFile, opts)
}

