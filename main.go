// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bearcart/api/config"
	"bearcart/api/database"
	"bearcart/api/store"
	"bearcart/api/utils"
)

func main() {
	cfg := config.Load()

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize the record store (sessions, orders, items, refunds) ---
	var loader store.Loader
	switch cfg.DataSource {
	case config.SourceClickHouse:
		chClient, err := database.NewClickHouseDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize ClickHouse database: %v", err)
		}
		defer chClient.Close()
		loader = store.NewClickHouseLoader(chClient, store.ClickHouseTables{
			Sessions: cfg.ClickHouseSessionsTable,
			Orders:   cfg.ClickHouseOrdersTable,
			Items:    cfg.ClickHouseItemsTable,
			Refunds:  cfg.ClickHouseRefundsTable,
		})
	default:
		loader = store.NewCSVLoader(cfg.DataDir)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	records, err := store.Init(loadCtx, loader)
	cancelLoad()
	if err != nil {
		// Keep serving: dashboard requests report the failure until a reload succeeds.
		log.Printf("Error loading metrics data: %v", err)
	}

	// --- Optional user accounts ---
	deps := routerDeps{Records: records, Registry: prometheus.NewRegistry()}
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.JWTSecret != "" {
		if deps.Tokens, err = utils.NewTokenManager(cfg.JWTSecret, 24*time.Hour); err != nil {
			log.Fatalf("Failed to configure JWT: %v", err)
		}
	}
	if cfg.UsersEnabled() {
		if deps.Tokens == nil {
			log.Fatalf("DATABASE_URL is set but JWT_SECRET_KEY is empty")
		}
		dbClient, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
		}
		defer dbClient.Close()
		deps.Users = store.NewUserStore(dbClient.DB)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(cfg, deps),
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		log.Println("SIGHUP received, reloading record store...")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := records.Reload(ctx); err != nil {
			log.Printf("Error reloading record store: %v", err)
		}
		cancel()
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
