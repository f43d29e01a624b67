// Package app wires together all storefront dependencies.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/catalog"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/config"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/event"
	handler "github.com/Emmanation-Designs/Gibson-Collections/internal/handler/http"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/identity"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/persist"
	redisrepo "github.com/Emmanation-Designs/Gibson-Collections/internal/repository/redis"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/service"
	objectstore "github.com/Emmanation-Designs/Gibson-Collections/internal/storage/object"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/store"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/health"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/httpclient"
	pkgkafka "github.com/Emmanation-Designs/Gibson-Collections/pkg/kafka"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/middleware"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	consumer   *pkgkafka.Consumer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Outbound HTTP clients. The catalog gets a circuit breaker since
	// every browse touches it; identity and storage see far less
	// traffic and keep the plain retrying client.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	catalogHTTP := httpclient.NewCircuitBreakerClient(
		httpClient,
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)

	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.CatalogAPIKey, catalogHTTP)
	identityClient := identity.NewClient(cfg.IdentityURL, cfg.IdentityAPIKey, httpClient)
	imageStore := objectstore.New(cfg.StorageURL, cfg.StorageAPIKey, httpClient)
	verifier := identity.NewVerifier(cfg.JWTSecret)

	// Shopper state: repository, store manager and its subscribers.
	repo := redisrepo.NewStateRepository(rdb, cfg.StateTTLDuration())
	persister := persist.New(repo, logger)
	eventProducer := event.NewProducer(producer, logger)
	stores := store.NewManager(repo, logger, persister.Listener(), eventProducer.Listener())

	storefront := service.NewStorefrontService(stores, catalogClient, identityClient, imageStore, eventProducer, logger, service.Config{
		AdminEmails:    cfg.AdminEmails,
		GroupLimit:     cfg.GroupLimit,
		WhatsAppNumber: cfg.WhatsAppNumber,
		CatalogTTL:     cfg.CatalogCacheTTL(),
	})

	// Consumer pruning deleted products from live shopper state.
	deletedHandler := event.NewCatalogDeletedHandler(stores, logger)
	consumer := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: "storefront-state-pruner",
		Topic:   event.TopicCatalogDeleted,
	}, deletedHandler.Handle, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(storefront, verifier, healthHandler, logger, corsCfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		producer:   producer,
		consumer:   consumer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and the event consumer, blocking until
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		if err := a.consumer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("catalog.deleted consumer: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.consumer.Close(); err != nil {
		a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
