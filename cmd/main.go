package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"chatzilla-notification-server/internal/config"
	"chatzilla-notification-server/internal/google"
	"chatzilla-notification-server/internal/handlers"
	"chatzilla-notification-server/internal/logging"
	"chatzilla-notification-server/internal/onesignal"
	"chatzilla-notification-server/internal/services"
)

func newDispatcher(ctx context.Context, cfg *config.NotificationServer) (services.Dispatcher, error) {
	switch cfg.Provider {
	case config.ProviderFCM:
		firebaseService, err := google.NewFirebaseService(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return firebaseService, nil
	default:
		return onesignal.NewClient(cfg.OneSignal, onesignal.NewHTTPPoster(cfg.HTTPClientTimeout)), nil
	}
}

func main() {
	config.Load(".env")

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Setup(logging.Config{Level: cfg.Log.Level, Dir: cfg.Log.Dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		logFile.Close()
		os.Exit(1)
	}
}

func run(cfg *config.NotificationServer, logger zerolog.Logger) error {
	dispatcher, err := newDispatcher(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s dispatcher: %w", cfg.Provider, err)
	}

	app := handlers.NewApp(handlers.AppConfig{CORSAllowOrigins: cfg.CORSAllowOrigins}, logger)
	notificationHandler := handlers.NewNotificationHandler(services.NewNotificationService(dispatcher), logger)
	notificationHandler.Register(app)

	errChan := make(chan error, 1)
	go func() {
		logger.Info().
			Int("port", cfg.Port).
			Str("provider", cfg.Provider).
			Msg("ChatZilla Notification Server running")
		errChan <- app.Listen(cfg.Addr(), fiber.ListenConfig{DisableStartupMessage: true})
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-shutdownChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	return app.ShutdownWithTimeout(10 * time.Second)
}
