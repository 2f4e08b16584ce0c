package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"github.com/example/community-slots/internal/application"
	"github.com/example/community-slots/internal/config"
	httptransport "github.com/example/community-slots/internal/http"
	"github.com/example/community-slots/internal/jobs"
	"github.com/example/community-slots/internal/logging"
	"github.com/example/community-slots/internal/persistence/sqlite"
	"github.com/example/community-slots/internal/persistence/sqlite/migration"
	"github.com/example/community-slots/internal/recurrence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("slot service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	a, err := newApp(ctx, cfg, logger, uuid.NewString, time.Now)
	if err != nil {
		return err
	}
	defer a.close()

	a.sweeper.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.sweeper.Stop(stopCtx); err != nil {
			logger.Error("failed to stop completion sweeper", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("slot API listening",
		"addr", server.Addr,
		"timezone", cfg.Location().String(),
		"horizon_months", cfg.RecurrenceHorizonMonths,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// app holds the wired components of the process.
type app struct {
	storage *sqlite.Storage
	slots   *application.SlotService
	handler http.Handler
	sweeper *jobs.CompletionSweeper
	logger  *slog.Logger
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, idGenerator func() string, now func() time.Time) (*app, error) {
	dbConfig := migration.DefaultSQLiteConfig(cfg.SQLiteDSN)
	if cfg.SQLiteDSN == ":memory:" {
		dbConfig = migration.InMemorySQLiteConfig()
	}

	storage, err := sqlite.OpenWithConfig(dbConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	engine := recurrence.NewEngine(cfg.Location(), cfg.RecurrenceHorizonMonths)
	previews := recurrence.NewPreviewCache(cfg.PreviewCacheSize, cfg.PreviewCacheTTL)

	slotRepo := newSlotRepositoryAdapter(storage)
	reservationRepo := newReservationRepositoryAdapter(storage)

	slotService := application.NewSlotServiceWithLogger(slotRepo, engine, previews, idGenerator, now, logger)
	reservationService := application.NewReservationServiceWithLogger(reservationRepo, slotRepo, idGenerator, now, logger)

	sweeper, err := jobs.NewCompletionSweeper(slotService, cfg.CompletionSweepCron, cfg.Location(), logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Slots:        httptransport.NewSlotHandler(slotService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Logger:       logger,
	})

	return &app{
		storage: storage,
		slots:   slotService,
		handler: handler,
		sweeper: sweeper,
		logger:  logger,
	}, nil
}

func (a *app) close() {
	if err := a.storage.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}
}
