/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the timesheet engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, config file, env, flags)
  2. Initialize the store (SQLite or in-memory)
  3. Create the workflow service and API handler
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  --config     Config file (default: ./config.yaml if present)
  --port       HTTP server port (default: 8080)
  --store      sqlite or memory (default: sqlite)
  --db         SQLite database path (default: timesheets.db)
               Use ":memory:" for an in-memory database
  --log-level  debug, info, warn, error (default: info)

ENVIRONMENT:
  A .env file in the working directory is loaded first if present.
  Every key can be set as TIMESHEET_<KEY>, e.g. TIMESHEET_PORT=3000,
  TIMESHEET_LOG_LEVEL=debug, TIMESHEET_CORS_ORIGINS=https://a,https://b.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server --db=./data/timesheets.db
  ./server --store=memory --port=3000

SEE ALSO:
  - config/config.go: Configuration loading
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
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

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/config"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/generic/store"
	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/timesheet"
	"github.com/warp/timesheet-engine/workflow"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// A local .env only fills variables that are not already set.
	_ = godotenv.Load()

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	// Initialize store
	var repo generic.Repository
	switch cfg.Store {
	case config.StoreMemory:
		repo = store.NewMemory()
	default:
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()
		repo = db
	}

	svc := workflow.NewService(repo, timesheet.NewValidator(generic.Today), logger)
	router := api.NewRouter(api.NewHandler(svc, logger), cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.Int("port", cfg.Port),
			slog.String("store", cfg.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
