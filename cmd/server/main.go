package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/watchlist-service/internal/cache"
	"github.com/actuallystonmai/watchlist-service/internal/catalog"
	"github.com/actuallystonmai/watchlist-service/internal/config"
	"github.com/actuallystonmai/watchlist-service/internal/handler"
	"github.com/actuallystonmai/watchlist-service/internal/logging"
	"github.com/actuallystonmai/watchlist-service/internal/repository"
	"github.com/actuallystonmai/watchlist-service/internal/router"
	"github.com/actuallystonmai/watchlist-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %v", err)
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up logging %v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := ""
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	// ------------ Redis ---------------
	var rc catalog.ResponseCache
	if cfg.CacheEnabled() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatalf("failed to parse redis url %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		c := cache.NewCache(rdb, cfg.CacheTTL)
		if err := c.Ping(ctx); err != nil {
			logger.WithError(err).Warn("redis unavailable, catalog responses will not be cached")
		} else {
			logger.Info("connected to Redis")
			rc = c
		}

		if command == "clear-cache" {
			if err := c.Clear(ctx); err != nil {
				logger.Fatalf("failed to clear cache %v", err)
			}
			logger.Info("catalog cache cleared")
			return
		}
	} else if command == "clear-cache" {
		logger.Warn("REDIS_URL is not set, nothing to clear")
		return
	}

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to parse database config %v", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatalf("failed to connect to database %v", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		logger.Fatalf("database not ready: %v", err)
	}
	logger.Info("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if command == "migrate-down" {
		if err := migrate(ctx, pool, filepath.Join(cfg.MigrationsDir, "create_tables.down.sql")); err != nil {
			logger.Fatalf("failed to migrate down %v", err)
		}
		logger.Info("migrations dropped")
		return
	}

	if err := migrate(ctx, pool, filepath.Join(cfg.MigrationsDir, "create_tables.up.sql")); err != nil {
		logger.Fatalf("failed to migrate up %v", err)
	}
	logger.Info("migrations applied")

	// ------------ Wiring ---------------
	client := catalog.NewClient(catalog.Options{
		APIKey:       cfg.Catalog.APIKey,
		BaseURL:      cfg.Catalog.BaseURL,
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
		ImageSize:    cfg.Catalog.ImageSize,
		Language:     cfg.Catalog.Language,
		Region:       cfg.Catalog.Region,
		Timeout:      cfg.Catalog.Timeout,
		Cache:        rc,
	}, logger)
	if cfg.Catalog.APIKey == "" {
		logger.Warn("TMDB_API_KEY is not set, entries will be saved without catalog info")
	}

	svc := service.NewService(repository.NewRepository(pool), client, logger)
	h := handler.NewHandler(svc, logger)

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(h, logger, cfg.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server error %v", err)
	}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Infof("waiting for database... (%d/30)", i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrate(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}
