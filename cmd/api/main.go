package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/ec-storefront/internal/api"
	"github.com/example/ec-storefront/internal/auth"
	"github.com/example/ec-storefront/internal/config"
	"github.com/example/ec-storefront/internal/domain/category"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/product"
	"github.com/example/ec-storefront/internal/health"
	"github.com/example/ec-storefront/internal/infrastructure/cache"
	"github.com/example/ec-storefront/internal/infrastructure/kafka"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/infrastructure/store/migrate"
	"github.com/example/ec-storefront/internal/logger"
	"github.com/example/ec-storefront/internal/platform/otel"
	"github.com/example/ec-storefront/internal/telemetry"
)

const (
	serviceName          = "ec-storefront"
	shutdownTimeout      = 10 * time.Second
	cleanupInterval      = time.Hour
	telemetryRetentionHr = 24
)

func main() {
	// Configuration is validated before anything else starts.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Development)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("storefront stopped", "err", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("api")

	shutdownTracing, err := otel.Setup(ctx, serviceName, cfg.Environment, cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warnw("tracer shutdown failed", "err", err)
		}
	}()

	db, err := store.ConnectPostgres(cfg.StoreURL)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer db.Close()
	log.Infow("connected to store")

	if cfg.MigrateOnStart {
		if err := migrate.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Infow("migrations applied")
	}
	pg := store.NewPostgresStore(db)

	var readCache cache.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, serviceName)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warnw("redis unavailable, reads will miss the cache", "addr", cfg.RedisAddr, "err", err)
		}
		readCache = rc
	} else {
		readCache = cache.NewMemoryCache(serviceName)
	}

	orderEvents := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	defer orderEvents.Close()
	telemetryEvents := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTelemetryTopic)
	defer telemetryEvents.Close()

	sessions := auth.NewJWTService(cfg.JWTSecret, time.Hour)

	products := product.NewService(pg, pg, readCache, logger.Named("product")).WithCacheTTL(cfg.CacheTTL)
	categories := category.NewService(pg, readCache, logger.Named("category")).WithCacheTTL(cfg.CacheTTL)
	orders := order.NewService(pg, pg, orderEvents, logger.Named("order"))

	monitor := telemetry.NewMonitor(telemetry.Config{
		Enabled:     cfg.TelemetryEnabled,
		SampleRate:  cfg.TelemetrySampleRate,
		Environment: cfg.Environment,
	}, telemetryEvents, logger.Named("telemetry"))
	go monitor.RunCleanup(ctx, cleanupInterval, telemetryRetentionHr)

	checker := health.NewChecker(
		health.ProbeFunc(pg.Ping),
		auth.NewKeyProbe(sessions, cfg.StoreKey),
		health.ProbeFunc(func(ctx context.Context) error { return kafka.Ping(ctx, cfg.KafkaBrokers) }),
		logger.Named("health"),
	)

	server := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.Services{
			Products:   products,
			Categories: categories,
			Orders:     orders,
			Monitor:    monitor,
			Health:     checker,
			Sessions:   sessions,
			Log:        logger.Named("http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(sctx)
}
