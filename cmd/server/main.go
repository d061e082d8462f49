// Package main provides the entry point for the SkyView API server.
//
// SkyView answers queries about what is in the sky from a given location at a
// given UTC instant: visible stars and solar-system bodies, rise/set and moon
// phase events, constellation frames, screen-space projections for AR
// overlays, and IAU constellation lookups.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/skyviewlabs/skyview-api/internal/api/rest"
	"github.com/skyviewlabs/skyview-api/internal/api/stream"
	"github.com/skyviewlabs/skyview-api/internal/catalog"
	"github.com/skyviewlabs/skyview-api/internal/ephemeris"
	"github.com/skyviewlabs/skyview-api/internal/sky"
)

// Version information (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Config holds server configuration
type Config struct {
	Addr    string
	DataDir string
	Debug   bool
}

// DefaultConfig returns sensible defaults, overridable via environment
func DefaultConfig() Config {
	cfg := Config{
		Addr:    "0.0.0.0:8000",
		DataDir: "./data",
		Debug:   false,
	}
	if v := os.Getenv("SKYVIEW_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SKYVIEW_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SKYVIEW_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
	return cfg
}

func main() {
	fmt.Printf("SkyView API %s (built %s)\n", Version, BuildTime)

	config := DefaultConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
}

func run(ctx context.Context, config Config) error {
	store := catalog.NewStore(filepath.Join(config.DataDir, "star_catalog.json"))
	boundaries := catalog.NewBoundaries(filepath.Join(config.DataDir, "iau_boundaries.json"))
	provider := ephemeris.NewMeeusProvider()

	service := sky.NewService(store, boundaries, provider)

	// Warm the catalogs so a broken data dir fails loudly at startup
	if n, err := store.Count(); err != nil {
		return fmt.Errorf("load star catalog: %w", err)
	} else {
		log.Printf("Loaded %d catalog stars", n)
	}
	if names, err := boundaries.Names(); err != nil {
		log.Printf("Warning: IAU boundaries unavailable: %v", err)
	} else {
		log.Printf("Loaded IAU boundaries for %d constellations", len(names))
	}

	server := rest.NewServer(rest.Config{Debug: config.Debug}, service)
	hub := stream.NewHub(service)

	mux := http.NewServeMux()
	mux.Handle("/", server.Handler())
	mux.HandleFunc("/ws", hub.HandleWebSocket)

	httpServer := &http.Server{
		Addr:    config.Addr,
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	log.Printf("Server is ready at http://%s", config.Addr)

	select {
	case <-ctx.Done():
		log.Println("Shutting down gracefully...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
