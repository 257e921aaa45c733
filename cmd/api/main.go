// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/infrastructure/storage"
	"github.com/your-org/pos-companion/internal/infrastructure/storage/redis"
	"github.com/your-org/pos-companion/internal/infrastructure/storage/sqlite"
	"github.com/your-org/pos-companion/internal/interfaces/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Open the receipt storage backend
	store, redisClient, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	// Health check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("Storage health check failed: %v", err)
	}
	cancel()

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, store, redisClient)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}

// openStorage selects the receipt storage backend from config. The Redis
// client is returned alongside the store so rate limiting can share the
// connection; it is nil for other drivers.
func openStorage(cfg *config.Config) (storage.KV, *goredis.Client, error) {
	switch cfg.Storage.Driver {
	case "redis":
		store, err := redis.NewConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.GetClient(), nil
	case "sqlite":
		store, err := sqlite.NewConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		log.Println("⚠️ Using in-memory storage; receipts will not survive a restart")
		return storage.NewMemory(), nil, nil
	}
}
