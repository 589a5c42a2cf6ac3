package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/adapters/directory"
	router "github.com/SriBalajiKalepu/SpeedShare/internal/adapters/http"
	"github.com/SriBalajiKalepu/SpeedShare/internal/adapters/relay"
	"github.com/SriBalajiKalepu/SpeedShare/internal/app"
	"github.com/SriBalajiKalepu/SpeedShare/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	dir, err := directory.New(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RoomTTL, cfg.CodeAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to room directory")
	}
	defer dir.Close()

	registry := app.NewRegistry()
	engine := app.NewEngine(registry)
	limiter := relay.NewJoinLimiter(cfg.JoinBurst, cfg.JoinWindow)
	ctl := relay.NewController(engine, limiter, cfg)

	r := router.SetupRouter(ctx, cfg, dir, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("SpeedShare server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
