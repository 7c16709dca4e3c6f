package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/cart"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/checkout"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/client"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/config"
	h "github.com/bdhtrk94-cmyk/paft-front-sub000/internal/http"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/logger"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/storage"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/storefront"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	ctx := context.Background()

	st, err := openStorage(ctx, cfg)
	if err != nil {
		l.Warn("cart storage unavailable, cart will not survive restarts",
			zap.String("driver", cfg.CartStorage),
			zap.Error(err))
	} else {
		defer st.Close()
	}

	breaker := client.BreakerSettings{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	}
	orderBase, err := client.NewClient("orders", cfg.OrderAPIURL, client.NewHTTPClient(0), breaker, l)
	if err != nil {
		l.Fatal("Failed to create order client", zap.Error(err))
	}
	productBase, err := client.NewClient("products", cfg.ProductAPIURL, client.NewHTTPClient(cfg.UpstreamTimeout), breaker, l)
	if err != nil {
		l.Fatal("Failed to create product client", zap.Error(err))
	}
	orders := client.NewOrderClient(orderBase)
	products := client.NewProductClient(productBase)

	// a nil storage gives a memory-only cart
	store := cart.NewStore(ctx, st, cfg.ScopedCartKey(), l)
	session := storefront.NewSession(store, checkout.NewSubmitter(orders, l), l)

	router := h.NewRouter(h.Handlers{
		Cart:     h.NewCartHandler(store, products, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(session),
		Products: h.NewProductHandler(products, cfg.RequestTimeout),
	}, l, cfg.MaxRequestBodySize)

	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// checkout waits on the order API without a deadline of its own
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info("storefront starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("cart_storage", cfg.CartStorage),
			zap.String("order_api", cfg.OrderAPIURL),
			zap.String("product_api", cfg.ProductAPIURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
	}

	l.Info("server exited")
}

// openStorage returns nil and an error when the configured backend cannot
// be reached.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.CartStorage {
	case config.StorageSQLite:
		s, err := storage.NewSQLiteStorage(cfg.CartDBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			rc.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return storage.NewRedisStorage(rc, cfg.RedisTTL), nil
	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown cart storage %q", cfg.CartStorage)
	}
}
