package main

import (
	"fmt"
	"os"

	"github.com/goldleaf/backend/config"
	httpDelivery "github.com/goldleaf/backend/internal/delivery/http"
	"github.com/goldleaf/backend/internal/infrastructure/catalog"
	"github.com/goldleaf/backend/internal/infrastructure/goldapi"
	"github.com/goldleaf/backend/internal/infrastructure/metrics"
	"github.com/goldleaf/backend/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env for local runs; a missing file is fine in deployment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Server.Environment)

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Dur("price_cache_ttl", cfg.Cache.TTL).
		Str("catalog", cfg.Catalog.Path).
		Msg("starting goldleaf backend v1.0.0")

	// Initialize infrastructure dependencies
	reg := metrics.NewRegistry()
	store := catalog.NewFileStore(cfg.Catalog.Path)

	goldClient := goldapi.NewClient(
		cfg.GoldAPI.AccessToken,
		cfg.GoldAPI.BaseURL,
		cfg.RateLimit.GoldAPI,
		cfg.GoldAPI.Timeout,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		goldClient.SetDebug(true)
		log.Debug().Msg("goldapi client debug mode enabled")
	}

	if cfg.GoldAPI.AccessToken != "" {
		log.Info().Str("base_url", cfg.GoldAPI.BaseURL).Msg("goldapi configured")
	} else {
		log.Warn().
			Str("base_url", cfg.GoldAPI.BaseURL).
			Float64("fallback_price", cfg.Cache.FallbackPrice).
			Msg("GOLDAPI_KEY not set - price fetches will fail and the fallback price will be served")
	}

	// Initialize usecase layer
	oracle := usecase.NewPriceOracle(goldClient, usecase.PriceOracleConfig{
		CacheTTL:      cfg.Cache.TTL,
		FallbackPrice: cfg.Cache.FallbackPrice,
		Metrics:       reg,
	})
	catalogService := usecase.NewCatalogService(store, oracle)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, reg)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// setupLogging configures zerolog: human-readable debug output in
// development, JSON at info level everywhere else.
func setupLogging(environment string) {
	if environment == "development" {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).
			With().Timestamp().Logger().
			Level(zerolog.DebugLevel)
		return
	}
	log.Logger = zerolog.New(os.Stdout).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
}
