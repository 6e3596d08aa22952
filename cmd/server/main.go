package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/catalog-api/db"
	"github.com/Clark-Hu/catalog-api/internal/boxoffice"
	"github.com/Clark-Hu/catalog-api/internal/config"
	httpserver "github.com/Clark-Hu/catalog-api/internal/http"
	"github.com/Clark-Hu/catalog-api/internal/logging"
	"github.com/Clark-Hu/catalog-api/internal/metrics"
	"github.com/Clark-Hu/catalog-api/internal/repository"
	"github.com/Clark-Hu/catalog-api/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With().Str("service", "catalog-api").Logger()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	if cfg.MigrateOnStart {
		if err := st.Migrate(dbCtx, db.Migrations); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	// Left as a nil interface when no upstream is configured.
	var boxClient boxoffice.Client
	if cfg.BoxOfficeURL != "" {
		client, err := boxoffice.NewHTTPClient(cfg.BoxOfficeURL, cfg.BoxOfficeAPIKey, time.Duration(cfg.BoxOfficeTimeoutSecs)*time.Second, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("init box office client")
		}
		boxClient = client
	} else {
		logger.Warn().Msg("BOXOFFICE_URL not set; box office sync disabled")
	}

	repo := repository.New(st)
	server := httpserver.New(cfg, st, repo, boxClient, metrics.New(), logger)

	// Start shuts the listener down itself once ctx is cancelled.
	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}
