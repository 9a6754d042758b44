package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lixing-Zhang/campus-food-finder/internal/catalog"
	"github.com/Lixing-Zhang/campus-food-finder/internal/config"
	"github.com/Lixing-Zhang/campus-food-finder/internal/handlers"
	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/middleware"
	"github.com/Lixing-Zhang/campus-food-finder/internal/service"
	"github.com/Lixing-Zhang/campus-food-finder/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting campus food finder api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"timezone", cfg.Timezone,
		"log_level", cfg.LogLevel,
	)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	// Redis is only needed for redis:// catalog sources
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis not reachable at startup", "addr", cfg.Redis.Addr, "error", err)
		}
		cancel()
	}

	sources, err := catalog.ParseSources(cfg.Catalog.Sources, rdb)
	if err != nil {
		log.Error("invalid catalog source", "error", err)
		os.Exit(1)
	}

	// Load the catalog before accepting traffic
	log.Info("loading catalog...", "sources", cfg.Catalog.Sources)
	repo := catalog.NewRepository(sources, log)
	if _, err := repo.Reload(context.Background()); err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go catalog.NewRefresher(repo, cfg.Catalog.ReloadInterval, log).Run(ctx)

	clock := hours.NewSystemClock(loc)

	// Initialize services
	vendorService := service.NewVendorService(repo, clock)
	searchService := service.NewSearchService(repo, clock)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(repo, log)
	vendorHandler := handlers.NewVendorHandler(vendorService, log)
	searchHandler := handlers.NewSearchHandler(searchService, log)
	catalogHandler := handlers.NewCatalogHandler(repo, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/buildings", vendorHandler.ListBuildings)
		r.Get("/buildings/{buildingId}/vendors/{vendorId}", vendorHandler.GetVendor)

		r.Get("/search", searchHandler.Search)
		r.Get("/tags", searchHandler.ListTags)

		r.Get("/catalog", catalogHandler.GetStats)
		r.With(middleware.APIKeyAuth(cfg.Auth, log)).Post("/catalog/reload", catalogHandler.Reload)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
