package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"foodgram/internal/app"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stdout})
	gin.SetMode(cfg.Server.Mode)

	db, err := database.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect database")
	}
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := app.NewStore(ctx, cfg.Media)
	if err != nil {
		logging.Fatal().Err(err).Msg("init image store")
	}

	a := app.New(cfg, db, images)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("foodgram api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logging.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if a.Limiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(limiterCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					a.Limiter.Cleanup()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		logging.Error().Err(err).Msg("server stopped with error")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
