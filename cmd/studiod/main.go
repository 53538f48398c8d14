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

	"studio/internal/engine"
	"studio/internal/http/handlers"
	httpapi "studio/internal/http/httpapi"
	"studio/internal/infra"
	"studio/internal/orchestrator"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineClient, err := engine.NewClient(engine.Options{BaseURL: cfg.EngineBaseURL})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure engine client")
	}

	orc, err := orchestrator.New(orchestrator.Options{
		Engine:         engineClient,
		Logger:         &logger,
		HistoryLimit:   cfg.HistoryLimit,
		PollInterval:   cfg.PollInterval,
		ReconnectDelay: cfg.ReconnectDelay,
		ParamsPath:     cfg.ParamsPath,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build orchestrator")
	}
	orc.Start(ctx)
	defer orc.Stop()

	app := handlers.NewApp(orc, logger)
	router := httpapi.NewRouter(app, logger, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("view API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("studiod stopped")
}
