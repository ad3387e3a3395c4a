package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/whoarder/internal/config"
	"github.com/mrlokans/whoarder/internal/database"
	http_controllers "github.com/mrlokans/whoarder/internal/http"
	"github.com/mrlokans/whoarder/internal/importers"
	"github.com/mrlokans/whoarder/internal/logger"
	"github.com/mrlokans/whoarder/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("Shutting down server", map[string]interface{}{"timeout": timeout.String()})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}

func Run(cfg *config.Config, version string) error {
	if err := logger.Init(cfg.Log.Level); err != nil {
		return err
	}
	logger.Info("Starting whoarder", map[string]interface{}{"version": version})

	db, err := database.NewDatabaseWithLogLevel(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	pipeline := importers.NewPipeline(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncScheduler := scheduler.NewClippingsSyncScheduler(pipeline, db, cfg.Sync)
	if err := syncScheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start clippings sync: %w", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:         db,
		Importer:         pipeline,
		MaxFileSizeBytes: cfg.Import.MaxFileSizeBytes,
		Version:          version,
	})

	return Serve(router, cfg, func(ctx context.Context) {
		syncScheduler.Stop()
	})
}
