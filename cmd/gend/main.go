// Command gend runs the dataset synthesis service: it loads
// configuration, wires the orchestrator-backed streaming/bulk service,
// and serves it over HTTP, following the teacher's cmd/gateway
// load-config/build-router/serve/graceful-shutdown shape.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ledgerforge/datasynth/internal/genconfig"
	"github.com/ledgerforge/datasynth/internal/genlog"
	"github.com/ledgerforge/datasynth/internal/httpapi"
	"github.com/ledgerforge/datasynth/internal/streaming"
)

func main() {
	cfg, err := genconfig.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := genlog.New(genlog.Config{Level: envOr("LOG_LEVEL", "info"), Format: envOr("LOG_FORMAT", "text")})

	svc := streaming.NewService(cfg.Build(), logger)
	server := httpapi.NewServer(svc, logger)

	port := envOr("PORT", "8080")
	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Engine(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("datasynth service starting on port %s", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
