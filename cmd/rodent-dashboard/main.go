package main

import (
	"fmt"
	"os"

	"rodent-dashboard/internal/auth"
	"rodent-dashboard/internal/cache"
	"rodent-dashboard/internal/config"
	"rodent-dashboard/internal/fetch"
	httphandler "rodent-dashboard/internal/http"
	"rodent-dashboard/internal/http/middleware"
	"rodent-dashboard/internal/logger"
	"rodent-dashboard/internal/service"
	"rodent-dashboard/internal/socrata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	client := socrata.NewClient(socrata.ClientConfig{
		BaseURL:    cfg.Socrata.BaseURL,
		Dataset:    cfg.Socrata.Dataset,
		AppToken:   cfg.Socrata.AppToken,
		Timeout:    cfg.Socrata.Timeout,
		MaxRetries: cfg.Socrata.MaxRetries,
		Backoff:    cfg.Socrata.Backoff,
	}, appLogger)

	payloadCache := cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	defer payloadCache.Purge()

	fetcher := fetch.New(client, payloadCache, client.AuthContext(), appLogger)

	dashboardService := service.NewDashboardService(fetcher, service.Options{
		DefaultLimit: cfg.Dashboard.DefaultLimit,
		MaxLimit:     cfg.Dashboard.MaxLimit,
		YearMin:      cfg.Dashboard.YearMin,
		YearMax:      cfg.Dashboard.YearMax,
		SampleBound:  cfg.Dashboard.SampleBound,
		SampleSeed:   cfg.Dashboard.SampleSeed,
		TopK:         cfg.Dashboard.TopK,
	}, appLogger)

	var tokenParser *auth.Parser
	if cfg.Auth.AccessSecret != "" {
		tokenParser = auth.NewParser(cfg.Auth.AccessSecret)
	} else {
		appLogger.Warn().Msg("JWT_ACCESS_SECRET not set, dashboard endpoints are unauthenticated")
	}

	handler := httphandler.NewHandler(dashboardService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.CORSOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().
		Str("addr", addr).
		Str("dataset", cfg.Socrata.Dataset).
		Msg("starting rodent dashboard service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
