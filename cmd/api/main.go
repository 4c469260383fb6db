package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/octobees/contacts-hub/internal/auth"
	"github.com/octobees/contacts-hub/internal/config"
	"github.com/octobees/contacts-hub/internal/database"
	"github.com/octobees/contacts-hub/internal/handler"
	"github.com/octobees/contacts-hub/internal/logger"
	middlewarepkg "github.com/octobees/contacts-hub/internal/middleware"
	"github.com/octobees/contacts-hub/internal/repository"
	"github.com/octobees/contacts-hub/internal/router"
	"github.com/octobees/contacts-hub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, database.Options{DSN: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	contactsRepo := repository.NewPGXContactsRepository(pool)
	resolver := service.NewEntityResolver(cfg.Import.OrgMatching)
	writer := service.NewContactWriter(cfg.Import.PhoneRegion)

	contactsService := service.NewContactsService(contactsRepo, resolver, writer, lg)
	importer := service.NewImporter(contactsRepo, resolver, writer, service.ImportOptions{
		BatchSize: cfg.Import.BatchSize,
		Workers:   cfg.Import.Workers,
	}, lg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID(lg))
	e.Use(middlewarepkg.Logging(lg))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Contacts: handler.NewContactsHandler(contactsService),
		Import:   handler.NewImportHandler(importer, cfg.Import.MaxUploadBytes),
	})

	serverErr := make(chan error, 1)
	go func() {
		lg.Info().Str("port", cfg.Port).Msg("starting contacts api")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		lg.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
	}
}
