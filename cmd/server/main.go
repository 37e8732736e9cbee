package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"bistroDesk/internal/app"
	"bistroDesk/internal/config"
	catalogusecase "bistroDesk/internal/modules/catalog/application/usecase"
	cataloginfra "bistroDesk/internal/modules/catalog/infrastructure"
	ordersusecase "bistroDesk/internal/modules/orders/application/usecase"
	realtime "bistroDesk/internal/modules/realtime/infrastructure"
	sessionusecase "bistroDesk/internal/modules/session/application/usecase"
	"bistroDesk/internal/platform/broker"
	"bistroDesk/internal/platform/store"
	"bistroDesk/internal/shared/auth"
	"bistroDesk/internal/shared/logging"
	"bistroDesk/internal/transport"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("store config resolved", slog.String("url", cfg.Store.BaseURL), slog.Duration("timeout", cfg.Store.Timeout))

	hub := realtime.NewHub()

	rows := store.NewRowClient(cfg.Store.BaseURL, cfg.Store.APIKey, cfg.Store.Timeout, nil)
	authClient := store.NewAuthClient(cfg.Store.BaseURL, cfg.Store.APIKey, cfg.Store.Timeout, nil)
	enhancer := cataloginfra.NewEnhancerClient(cfg.Enhancer.BaseURL, cfg.Enhancer.Timeout)

	sessions := sessionusecase.NewManager(authClient)
	catalogSync := catalogusecase.NewSynchronizer(rows, enhancer, hub)
	recorder := ordersusecase.NewRecorder(rows, catalogSync, hub)
	a := app.New(sessions, catalogSync, recorder, rows, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore a prior session before serving so the first request already
	// sees the synced catalog.
	sessions.Restore(ctx, cfg.Store.AccessToken)

	// Auth transitions pushed by the backend (sign-outs from other devices,
	// token refreshes) fold into the same manager the HTTP surface uses.
	broker.StartAuthConsumer(ctx, cfg.Broker.Brokers, cfg.Broker.GroupID, cfg.Broker.AuthTopic, func(event broker.AuthEvent) {
		sessions.HandleAuthEvent(ctx, event.Event, event.Token)
	})

	var validator auth.TokenValidator
	if cfg.Security.JWTSecret != "" {
		validator = auth.NewJWTValidator(cfg.Security.JWTSecret)
	}

	e := echo.New()
	e.Logger.SetOutput(log.Writer())
	transport.NewHandler(a, hub, validator).Register(e)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	e.Close()
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	fileName := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".log")
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
