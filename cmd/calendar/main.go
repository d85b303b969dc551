package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/staff-calendar/internal/application"
	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/config"
	httptransport "github.com/example/staff-calendar/internal/http"
	"github.com/example/staff-calendar/internal/logging"
	"github.com/example/staff-calendar/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("calendar API stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	storage, err := openStorage(ctx, cfg.SQLiteDSN)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	app := newApp(storage, cfg, time.Now, logger)
	if err := app.seed(ctx, cfg.SeedPath); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           app.handler,
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

	logger.Info("calendar API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}
	return nil
}

func openStorage(ctx context.Context, dsn string) (*sqlite.Storage, error) {
	storage, err := sqlite.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	if err := storage.SeedForms(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("failed to seed form metadata: %w", err)
	}
	return storage, nil
}

type app struct {
	storage *sqlite.Storage
	records *application.RecordService
	handler http.Handler
	logger  *slog.Logger
}

func newApp(storage *sqlite.Storage, cfg config.Config, now func() time.Time, logger *slog.Logger) *app {
	engine := calendar.NewEngine(cfg.LayoutOptions(), logger)

	recordService := application.NewRecordService(storage, now, logger)
	calendarService := application.NewCalendarService(storage, engine, now, logger)
	formService := application.NewFormService(storage, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Calendar:   httptransport.NewCalendarHandler(calendarService, logger),
		Records:    httptransport.NewRecordHandler(recordService, logger),
		Employees:  httptransport.NewEmployeeHandler(recordService, logger),
		Forms:      httptransport.NewFormHandler(formService, logger),
		Health:     httptransport.NewHealthHandler(storage, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	return &app{storage: storage, records: recordService, handler: router, logger: logger}
}

// seed imports the snapshot at path into an empty roster.
func (a *app) seed(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	count, err := a.storage.CountEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to count employees: %w", err)
	}
	if count > 0 {
		a.logger.Info("roster already populated, skipping seed", "path", path, "employees", count)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed snapshot: %w", err)
	}
	var snapshot []calendar.EmployeeData
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to decode seed snapshot: %w", err)
	}

	summary, err := a.records.Import(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to import seed snapshot: %w", err)
	}
	a.logger.Info("seed snapshot imported", "path", path, "employees", summary.Employees, "skipped", summary.Skipped)
	return nil
}
