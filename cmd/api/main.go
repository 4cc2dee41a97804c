package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/api"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/config"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/database"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/domain"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/events"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/logging"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/metrics"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/repository"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/service"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	metrics.Register()

	dbLogger := baseLogger.With().Str("component", "database").Logger()
	db, err := database.NewDB(cfg.Database.Path, &dbLogger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	cache := buildDayCache(cfg, baseLogger)

	bus := events.NewEventBus()
	subscribeEventLog(bus, baseLogger)

	workerLogger := baseLogger.With().Str("component", "export-worker").Logger()
	exportWorker := worker.NewExportWorker(db, db, cfg.Exports.Path, worker.RetryPolicy{}, &workerLogger)

	closedDay := cfg.Restaurant.ClosedDay()
	hours := service.BusinessHours{
		OpeningHHMM:     cfg.Restaurant.OpeningHHMM(),
		LastSeatingHHMM: cfg.Restaurant.LastSeatingHHMM(),
		ClosedWeekday:   &closedDay,
	}
	serviceLogger := baseLogger.With().Str("component", "service").Logger()
	reservations := service.NewReservationService(db, cache, bus, exportWorker, hours, &serviceLogger)
	tables := service.NewTableService(db, db, cache, bus, exportWorker, &serviceLogger)

	apiLogger := baseLogger.With().Str("component", "http-api").Logger()
	httpServer := api.NewHTTPServer(cfg.API, reservations, tables, &apiLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go exportWorker.Run(ctx)
	startMetrics(ctx, cfg, &logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// buildDayCache wires redis with in-memory failover when configured,
// plain in-memory otherwise.
func buildDayCache(cfg *config.Config, logger *zerolog.Logger) domain.DayCache {
	memoryCache := repository.NewMemoryDayCache(models.DefaultDayCacheTTL)
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory day cache")
		return memoryCache
	}

	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := repository.Ping(pingCtx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, using in-memory day cache")
		return memoryCache
	}

	cacheLogger := logger.With().Str("component", "day-cache").Logger()
	return repository.NewFailoverDayCache(
		repository.NewRedisDayCache(client, models.DefaultDayCacheTTL),
		memoryCache,
		&cacheLogger,
	)
}

func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	eventLogger := logger.With().Str("component", "events").Logger()
	for _, eventType := range []string{
		events.EventReservationCreated,
		events.EventReservationUpdated,
		events.EventReservationStatus,
		events.EventReservationCancelled,
		events.EventTableCreated,
		events.EventTableSeated,
		events.EventTableFinished,
	} {
		bus.Subscribe(eventType, func(e *events.Event) error {
			eventLogger.Info().Str("event", e.Type).RawJSON("payload", e.Payload).Msg("domain event")
			return nil
		})
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
