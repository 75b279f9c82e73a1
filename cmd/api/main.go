package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/internal/app"
	"github.com/Waypost/waypost/pkg/logger"
)

// Campaign batches run for up to a minute between checkpoints, so shutdown
// waits long enough for an in-flight batch to finish or save progress. The
// outer context gets a few extra seconds beyond the app's own deadline.
const (
	appShutdownTimeout  = 65 * time.Second
	hardShutdownTimeout = 70 * time.Second
)

var osExit = os.Exit

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewLoggerWithLevel(cfg.LogLevel)
	appLogger.Info(fmt.Sprintf("Starting API server on %s:%d", cfg.Server.Host, cfg.Server.Port))

	if err := runServer(cfg, appLogger); err != nil {
		osExit(1)
	}
}

func runServer(cfg *config.Config, appLogger logger.Logger) error {
	appInstance := app.NewApp(cfg, app.WithLogger(appLogger))
	if err := appInstance.Initialize(); err != nil {
		appLogger.WithField("error", err.Error()).Fatal(err.Error())
		return err
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverError := make(chan error, 1)
	go func() {
		appLogger.Info("Server started successfully")
		serverError <- appInstance.Start()
	}()

	select {
	case err := <-serverError:
		if err != nil {
			appLogger.WithField("error", err.Error()).Error("Server error")
		}
		return err
	case sig := <-shutdown:
		appLogger.WithField("signal", sig.String()).Info("Shutdown signal received, draining")
		appLogger.Info("Send signal again (Ctrl+C) to force immediate shutdown")
		return gracefulShutdown(appInstance, appLogger)
	}
}

// gracefulShutdown drains the app, falling back to an immediate exit when a
// second signal arrives before the drain completes.
func gracefulShutdown(appInstance app.AppInterface, appLogger logger.Logger) error {
	appInstance.SetShutdownTimeout(appShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), hardShutdownTimeout)
	defer cancel()

	appLogger.WithField("active_requests", appInstance.GetActiveRequestCount()).
		Info("Starting graceful shutdown")

	forceShutdown := make(chan os.Signal, 1)
	signal.Notify(forceShutdown, os.Interrupt, syscall.SIGTERM)

	shutdownDone := make(chan error, 1)
	go func() {
		shutdownDone <- appInstance.Shutdown(ctx)
	}()

	select {
	case err := <-shutdownDone:
		if err != nil {
			appLogger.WithField("error", err.Error()).Error("Error during graceful shutdown")
			return err
		}
		appLogger.Info("Server shut down gracefully")
		return nil
	case forceSig := <-forceShutdown:
		appLogger.WithField("signal", forceSig.String()).Warn("Force shutdown signal received, terminating")
		appLogger.Warn("Some requests may be interrupted!")
		cancel()

		// Give the drain goroutine a moment to notice the cancellation.
		select {
		case err := <-shutdownDone:
			if err != nil {
				appLogger.WithField("error", err.Error()).Error("Error during forced shutdown")
			}
		case <-time.After(2 * time.Second):
			appLogger.Warn("Forced shutdown timeout, exiting immediately")
		}

		return fmt.Errorf("forced shutdown")
	}
}
