package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	store, closeStore, err := openCartStore(cfg, log)
	if err != nil {
		log.Error("failed to open cart store", "store", cfg.CartStore, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	client, err := api.New(api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Breaker: circuitbreaker.Settings{
			MaxFailures:      cfg.BreakerFailures,
			OpenTimeout:      cfg.BreakerTimeout,
			HalfOpenRequests: 1,
			Logger:           log,
		},
		Logger: log,
	})
	if err != nil {
		log.Error("failed to create store API client", "error", err)
		os.Exit(1)
	}

	var pub publisher.Publisher = publisher.NewNoop(log)
	if len(cfg.KafkaBrokers) > 0 {
		pub = publisher.NewKafkaPublisher(log, cfg.KafkaTopic, cfg.KafkaBrokers...)
		log.Info("publishing checkout events", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}
	defer pub.Close()

	s := session.New(session.Deps{
		Store:     store,
		Catalog:   client,
		Coupons:   client,
		Stock:     client,
		Orders:    client,
		Publisher: pub,
		PageDelay: catalog.SleepDelay(cfg.PageDelay),
		Logger:    log,
	})

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	err = s.Start(startCtx)
	cancelStart()
	if err != nil {
		log.Error("failed to start session", "error", err)
		os.Exit(1)
	}

	router := h.NewRouter(s, h.RouterOptions{
		RequestTimeout:     cfg.RequestTimeout,
		RateLimit:          cfg.RateLimit,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		Logger:             log,
		Health: func() map[string]string {
			return map[string]string{"store_api": client.BreakerState(), "cart_store": cfg.CartStore}
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", "port", cfg.HTTPPort, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server exited")
}

// openCartStore returns the configured snapshot store and a func releasing it.
func openCartStore(cfg *config.Config, log *slog.Logger) (cart.Store, func(), error) {
	switch cfg.CartStore {
	case config.StoreSQLite:
		repo, err := repository.NewRepository(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, nil, err
		}
		log.Info("cart snapshots in sqlite", "path", cfg.DBPath)
		return repo, func() { repo.Close() }, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("cart snapshots in redis", "addr", cfg.RedisAddr)
		return cache.NewRedisStore(client, 0), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStore, cfg.CartStore)
}
