package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/adapter/qaclient"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/batch"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/config"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/hub"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/metrics"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/policy"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/repository"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/service"
	server "github.com/RaviNarasimha41/industrial-safety-Q-A/internal/transport/http"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/transport/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.LogLevel == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	log.Printf("Starting Q&A session server...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Backend URL: %s (k=%d, mode=%s)", cfg.BackendURL, cfg.ResultCount, cfg.RetrievalMode)
	log.Printf("Batch questions: %s (on failure: %s)", cfg.BatchQuestions, cfg.BatchFailurePolicy)
	log.Printf("Trace database: %s", cfg.DatabaseURL)

	// Initialize trace store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize backend client
	client := qaclient.NewQueryClient(cfg.BackendURL, cfg.ResultCount, cfg.RetrievalMode, cfg.BackendTimeout)

	// Initialize batch failure policy
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	policyEngine, err := policy.Load(ctx, cfg.BatchFailurePolicy, cfg.BatchPolicyFile)
	if err != nil {
		log.Fatalf("Failed to initialize batch policy: %v", err)
	}

	// Initialize hub
	connectionHub := hub.NewHub()
	go connectionHub.Run(ctx)

	// Initialize service
	source := batch.NewSource(cfg.BatchQuestions, cfg.BackendTimeout)
	m := metrics.New()
	m.TrackConnections(connectionHub.GetConnectionCount, connectionHub.GetViewerCount)
	svc := service.New(db, client, source, policyEngine, m, connectionHub)

	// Initialize servers
	wsServer := ws.NewServer(cfg, connectionHub, svc)
	httpServer := server.NewServer(svc, wsServer)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	log.Printf("HTTP server started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Q&A session server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	// A running batch cannot be cancelled; give it until the deadline.
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Printf("WARN: batch still running at shutdown")
	}

	log.Println("Q&A session server stopped")
}
