/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the loyalty engine server: configuration,
  dependency injection, graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and LOYALTY_* environment variables
  2. Open the SQLite store
  3. Seed the catalog (file from LOYALTY_CATALOG_PATH, else demo data)
  4. Wire ledger, scanner, and HTTP router
  5. Serve with graceful shutdown on SIGINT/SIGTERM

ENVIRONMENT:
  LOYALTY_PORT          HTTP port (default 8080)
  LOYALTY_DB_PATH       SQLite path, ":memory:" for in-memory (default loyalty.db)
  LOYALTY_LOG_LEVEL     zerolog level (default info)
  LOYALTY_CATALOG_PATH  JSON catalog seed; empty uses the built-in demo
  LOYALTY_SCAN_SEED     fixes the simulated scan sequence; 0 uses the clock
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/warp/loyalty-engine/api"
	"github.com/warp/loyalty-engine/config"
	"github.com/warp/loyalty-engine/factory"
	"github.com/warp/loyalty-engine/loyalty"
	"github.com/warp/loyalty-engine/scan"
	"github.com/warp/loyalty-engine/store/sqlite"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "loyalty-engine").Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	// Store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Catalog
	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("failed to load catalog")
	}

	// Engine wiring
	ledger := loyalty.NewLedger(store)
	seed := cfg.ScanSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	scanner := scan.New(catalog, seed)

	handler := api.NewHandler(catalog, ledger, store, scanner)
	router := api.NewRouter(handler, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}

func loadCatalog(path string) (*loyalty.Catalog, error) {
	if path == "" {
		return factory.DemoCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return factory.ParseCatalog(data)
}
