package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mhargreave/mattress-tracker/internal/api"
	"github.com/mhargreave/mattress-tracker/internal/checker"
	"github.com/mhargreave/mattress-tracker/internal/config"
	"github.com/mhargreave/mattress-tracker/internal/db"
	"github.com/mhargreave/mattress-tracker/internal/notify"
	"github.com/mhargreave/mattress-tracker/internal/repository"
	"github.com/mhargreave/mattress-tracker/internal/scheduler"
	"github.com/mhargreave/mattress-tracker/internal/source"
)

const banner = `
╔══════════════════════════════════════╗
║     Mattress Price Tracker v1.0      ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	cfg.LogSummary(log)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()
	log.Info().Str("db", cfg.DBName).Msg("database connected")

	// Repos. Schema problems are fatal: nothing downstream can be trusted
	// if the tables cannot be created.
	priceRepo := repository.NewPriceRepo(pool, log)
	scheduleRepo := repository.NewScheduleRepo(pool, log)
	if err := priceRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema init failed")
	}
	if err := scheduleRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema init failed")
	}

	// Price source + notifier
	priceSource := source.NewClient(cfg.ProductURL, time.Duration(cfg.FetchTimeoutSeconds)*time.Second, log)
	notifier := notify.NewSender(cfg.NtfyBaseURL, cfg.NtfyTopic, notify.Options{
		Title:    cfg.NotifyTitle,
		Priority: cfg.NotifyPriority,
		Tags:     cfg.NotifyTags,
	}, log)

	// Daily check job + scheduler
	job := checker.NewJob(priceSource, priceRepo, notifier, log)
	sched := scheduler.New(job, scheduleRepo.Load(ctx), scheduler.Config{
		PollInterval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
	}, log)
	sched.Start()

	// API server
	srv := api.NewServer(priceRepo, scheduleRepo, sched, notifier,
		cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin, log)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server error")
			stop()
		}
	}()

	log.Info().Msg("all services started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API shutdown error")
	}
	log.Info().Msg("shutdown complete")
}
