package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"f3-data-api/internal/config"
	"f3-data-api/internal/database"
	"f3-data-api/internal/metrics"
	"f3-data-api/internal/repository"
	"f3-data-api/internal/server"
	"f3-data-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	log "github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

// run returns the process exit status. It returns 1 before the listener is
// bound when the database cannot be reached.
func run() int {
	if err := godotenv.Load(); err != nil {
		log.Warn("Could not load .env file.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("Could not load configuration")
		return 1
	}

	setupLogging(cfg)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"database":    cfg.DB.Redacted(),
	}).Info("Starting F3 data API")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager(registry)

	db, err := database.Open(cfg.DB, database.WithConnectionObserver(metricsManager.SetDatabaseUp))
	if err != nil {
		log.WithError(err).Error("Could not initialize the database")
		return 1
	}
	defer db.Close()
	log.Info("Database initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !db.VerifyConnection(ctx) {
		log.WithFields(log.Fields{
			"host": cfg.DB.Host,
			"port": cfg.DB.Port,
		}).Error("FATAL: could not connect to the database, exiting")
		return 1
	}
	log.Info("Successfully connected to the PostgreSQL database.")

	// Create repository
	statsRepository := repository.NewPostgresStatsRepository(db.DB)

	// Create service
	statsService := service.NewStatsService(statsRepository, db)

	// Create server
	srv := server.NewServer(statsService, metricsManager)

	opts := server.RouterOptions{
		Workers:  cfg.Server.Workers,
		Observer: metricsManager,
	}
	if cfg.Server.MetricsEnabled {
		opts.Metrics = metricsManager.Handler()
	}
	e := server.NewRouter(srv, opts)

	// Request timeouts are left to the hosting environment.
	e.Server.ReadTimeout = 0
	e.Server.WriteTimeout = 0
	e.Server.IdleTimeout = 0

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"port":    cfg.Server.Port,
			"workers": cfg.Server.Workers,
		}).Info("F3 data API is starting with Echo")

		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		log.WithError(err).Error("Echo server failed to start")
		return 1
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
		return 1
	}
	log.Info("Server stopped")
	return 0
}

func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)

	level := log.DebugLevel
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
		level = log.InfoLevel
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}

	if cfg.LogLevel != "" {
		parsed, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.WithField("log_level", cfg.LogLevel).Warn("Invalid LOG_LEVEL, keeping default")
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)
}
