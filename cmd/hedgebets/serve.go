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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hedge-bets/internal/api"
	"github.com/yourusername/hedge-bets/internal/health"
	"github.com/yourusername/hedge-bets/internal/metrics"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/scheduler"
	"github.com/yourusername/hedge-bets/internal/service"
	"github.com/yourusername/hedge-bets/internal/tracing"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction API with health, metrics and the context scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log
	log.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("hedge-bets starting")

	if err := tracing.Initialize(tracing.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Enabled:        cfg.Tracing.Enabled,
		SamplingRate:   cfg.Tracing.SamplingRate,
		DaemonAddr:     cfg.Tracing.DaemonAddr,
	}, log); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	st, err := buildStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	eng, cleanup, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	tracker := service.NewContextTracker(st.store, models.PredictionContext{
		Season: cfg.Scheduler.FallbackSeason,
		Week:   cfg.Scheduler.FallbackWeek,
	}, log)
	if _, err := tracker.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Starting with fallback prediction context")
	}

	svc := service.NewPredictionService(eng, st.store, st.scenarios, tracker, cfg.History.Games, log)

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Address:     cfg.Health.Address,
		GRPCAddress: cfg.Health.GRPCAddress,
		Logger:      log,
	}
	if st.db != nil {
		healthCfg.DB = st.db
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Metrics server error")
			}
		}()
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(log)
		if err := sched.ScheduleContextRefresh(cfg.Scheduler.ContextRefresh, tracker); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	apiServer := api.NewHTTPServer(cfg.Server, api.NewRouter(svc, cfg.Server, log))
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.Server.Address).Info("API server starting")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	healthServer.SetReady(true)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("api server failed: %w", err)
		}
	}

	healthServer.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("API server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Metrics server shutdown failed")
		}
	}
	if sched != nil {
		sched.Stop()
	}
	if err := healthServer.Shutdown(); err != nil {
		log.WithError(err).Error("Health server shutdown failed")
	}

	log.Info("hedge-bets shut down")
	return runErr
}
