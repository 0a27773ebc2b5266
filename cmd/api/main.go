package main

// @title Route Discovery Core API
// @version 1.0.0
// @description Generates walking and cycling loop routes anchored at a
// @description starting coordinate: POI discovery, waypoint selection,
// @description turn-by-turn directions, and route quality scoring.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
	httpDelivery "github.com/triploop/routecore/internal/delivery/http"
	"github.com/triploop/routecore/internal/delivery/http/handler"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/generator"
	"github.com/triploop/routecore/internal/pkg/logger"
	"github.com/triploop/routecore/internal/repository/cache"
	"github.com/triploop/routecore/internal/repository/directions"
	"github.com/triploop/routecore/internal/repository/postgres"
	"github.com/triploop/routecore/internal/repository/sqlite"
	"github.com/triploop/routecore/internal/snapping"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("starting route discovery core",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	poiRepo, closePois := mustPOIRepository(cfg, log)
	defer closePois()

	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	routeCache, err := cache.NewRouteCacheRepository(redisClient, &cfg.Cache, log)
	if err != nil {
		log.Fatal("failed to initialize route cache", zap.Error(err))
	}

	healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Health(healthCtx); err != nil {
		log.Fatal("redis health check failed", zap.Error(err))
	}

	directionsClient := directions.New(&cfg.Directions, log)
	snapper := snapping.New(poiRepo, 0, log) // 0 -> package default radius

	gen := generator.New(poiRepo, routeCache, directionsClient, snapper, cfg.Generator, log)
	routeHandler := handler.NewRouteHandler(gen, log)

	server := httpDelivery.NewServer(cfg, log, routeHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down route discovery core")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// mustPOIRepository selects the PostGIS-backed repository when a
// database host is configured, falling back to the embedded SQLite
// region store otherwise.
func mustPOIRepository(cfg *config.Config, log *zap.Logger) (domainrepo.POIRepository, func()) {
	if cfg.Database.Host != "" {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("failed to connect to poi database", zap.Error(err))
		}
		log.Info("poi repository backend: postgres", zap.String("host", cfg.Database.Host))
		return postgres.NewPOIRepository(db), func() {
			if err := db.Close(); err != nil {
				log.Error("failed to close poi database", zap.Error(err))
			}
		}
	}

	db, err := sqlite.New(&cfg.SQLite, log)
	if err != nil {
		log.Fatal("failed to open sqlite region database", zap.Error(err))
	}
	log.Info("poi repository backend: sqlite", zap.String("path", cfg.SQLite.Path))
	return sqlite.NewPOIRepository(db), func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close sqlite region database", zap.Error(err))
		}
	}
}
