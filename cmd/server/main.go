package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/config"
	"github.com/GloDelMar/la-tiendita-pos/internal/infra"
	"github.com/GloDelMar/la-tiendita-pos/internal/repository"
	"github.com/GloDelMar/la-tiendita-pos/internal/router"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"
	"github.com/GloDelMar/la-tiendita-pos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker pool for async daily reports. The workers get their own service
	// instances, separate from the ones router.New builds for the HTTP layer;
	// writers in both are serialized by the per-scope Postgres advisory lock.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	cajaRepo := repository.NewCajaRepository(db)
	movRepo := repository.NewMovimientoRepository(db)
	transRepo := repository.NewTransaccionRepository(db)
	deudorRepo := repository.NewDeudorRepository(db)

	movSvc := service.NewMovimientoService(movRepo, cajaRepo, service.NewCajaLocker())
	deudorSvc := service.NewDeudorService(deudorRepo, movRepo, movSvc)
	transSvc := service.NewTransaccionService(transRepo, cajaRepo, movRepo, deudorSvc, movSvc)

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.NewReporteWorker(movSvc, transSvc, mailer))

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("La Tiendita backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
