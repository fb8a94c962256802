// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pakguide/internal/ai"
	"pakguide/internal/config"
	httptransport "pakguide/internal/http"
	"pakguide/internal/maps"
	"pakguide/internal/modules/session"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model, logger)
	if err != nil {
		logger.Fatal("gemini init", zap.Error(err))
	}

	placesSvc, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		logger.Fatal("places init", zap.Error(err))
	}

	locator, err := maps.NewGeolocator(cfg.Maps.APIKey)
	if err != nil {
		logger.Fatal("geolocator init", zap.Error(err))
	}

	sessionSvc := session.NewService(provider, locator, session.Config{
		TurnTimeout: cfg.AI.TurnTimeout,
	}, logger)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Session: sessionSvc,
		Places:  placesSvc,
		Logger:  logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
