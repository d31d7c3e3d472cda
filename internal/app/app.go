// Package app wires the search service together: engines, cache, reference
// data, projectors, consumers, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/cache"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/catalog"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/config"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine"
	esengine "github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine/elasticsearch"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine/memory"
	handler "github.com/Yemresalcan/E-commerceAPI-sub000/internal/handler/http"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/index"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/projection"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/reference"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/service"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/database"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/health"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httpclient"
	pkgkafka "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/kafka"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the search service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	consumers      []*pkgkafka.Consumer
	dlq            *pkgkafka.DLQProducer
	httpServer     *http.Server
	redisClient    *redis.Client
	pgPool         *pgxpool.Pool
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	if cfg.TracingEnabled {
		tracingCfg := tracing.DefaultConfig("search")
		tracingCfg.Environment = cfg.Environment
		tracingCfg.OTLPEndpoint = cfg.OTLPEndpoint
		tracingCfg.Enabled = true
		shutdown, err := tracing.InitTracer(ctx, tracingCfg)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		a.tracerShutdown = shutdown
	}

	healthHandler := health.NewHandler()

	descriptors := map[string]query.Descriptor{
		domain.EntityProducts:  query.Products(),
		domain.EntityOrders:    query.Orders(),
		domain.EntityCustomers: query.Customers(),
	}

	// Engines and index lifecycle.
	var (
		products  engine.Engine[domain.ProductDocument]
		orders    engine.Engine[domain.OrderDocument]
		customers engine.Engine[domain.CustomerDocument]
		lifecycle service.Lifecycle
	)
	switch cfg.SearchEngine {
	case config.EngineElasticsearch:
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.ElasticsearchURL},
		})
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch client: %w", err)
		}

		manager := index.NewManager(esClient, cfg.IndexPrefix, logger)
		for entity, desc := range descriptors {
			if manager.EnsureCreated(ctx, entity) {
				manager.Warmup(ctx, entity, desc)
			}
		}

		products = esengine.New[domain.ProductDocument](esClient, manager.IndexName(domain.EntityProducts), descriptors[domain.EntityProducts], logger)
		orders = esengine.New[domain.OrderDocument](esClient, manager.IndexName(domain.EntityOrders), descriptors[domain.EntityOrders], logger)
		customers = esengine.New[domain.CustomerDocument](esClient, manager.IndexName(domain.EntityCustomers), descriptors[domain.EntityCustomers], logger)
		lifecycle = manager

		healthHandler.RegisterCritical("elasticsearch", manager.Ping)
		logger.Info("elasticsearch engines initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("prefix", cfg.IndexPrefix),
		)
	default:
		products = memory.New[domain.ProductDocument](descriptors[domain.EntityProducts])
		orders = memory.New[domain.OrderDocument](descriptors[domain.EntityOrders])
		customers = memory.New[domain.CustomerDocument](descriptors[domain.EntityCustomers])
		logger.Info("in-memory engines initialized")
	}

	// Result cache and idempotency stores: Redis when configured, in-process
	// fallback otherwise.
	var store cache.Store
	idemStore := func(namespace string) pkgkafka.IdempotencyStore {
		return pkgkafka.NewMemoryIdempotencyStore(cfg.IdempotencyTTL)
	}
	if cfg.RedisEnabled {
		redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.redisClient = redisClient
		store = cache.NewRedisStore(redisClient)
		idemStore = func(namespace string) pkgkafka.IdempotencyStore {
			return pkgkafka.NewRedisIdempotencyStore(redisClient, namespace, cfg.IdempotencyTTL)
		}
		// Cache misses fall through to the engine, so Redis going away
		// only degrades readiness.
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		store = cache.NewMemoryStore()
	}
	resultCache := cache.NewResultCache(store, logger)

	// Reference tables for projection-time denormalization.
	var refs projection.ReferenceData
	if cfg.PostgresEnabled {
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		a.pgPool = pool
		refs = reference.NewRepository(pool)
		database.RegisterPoolMetrics(pool, "search")
		database.SetSlowQueryLogging(200*time.Millisecond, logger)
		// Reference lookups degrade to IDs when Postgres is away.
		healthHandler.RegisterNonCritical("postgres", pool.Ping)
	}

	// Product service client for full rebuilds.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	cbClient := httpclient.NewCircuitBreakerClient(httpClient, httpclient.DefaultCircuitBreakerConfig("product"), logger)
	catalogClient := catalog.NewClient(cbClient, cfg.ProductServiceURL, logger)

	searchService := service.NewSearchService(products, orders, customers, resultCache, catalogClient, lifecycle, logger)

	// Projectors and their consumers. Each projector runs under its own
	// consumer group with its own idempotency namespace; order.created is
	// consumed independently by the order and customer projectors.
	a.dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)

	groups := []struct {
		name    string
		topics  []string
		handler pkgkafka.Handler
	}{
		{"products", projection.ProductTopics(), projection.NewProductProjector(products, refs, logger).Handle},
		{"orders", projection.OrderTopics(), projection.NewOrderProjector(orders, refs, logger).Handle},
		{"customers", projection.CustomerTopics(), projection.NewCustomerProjector(customers, logger).Handle},
	}
	for _, g := range groups {
		groupID := fmt.Sprintf("%s-%s", cfg.ConsumerGroup, g.name)
		wrapped := pkgkafka.IdempotentHandler(idemStore(groupID), g.handler, logger)
		for _, topic := range g.topics {
			c := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  groupID,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6,
			}, wrapped, logger).WithDLQ(a.dlq)
			a.consumers = append(a.consumers, c)
		}
	}
	logger.Info("kafka consumers initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.Int("consumer_count", len(a.consumers)),
	)

	healthHandler.RegisterCritical("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	router := handler.NewRouter(searchService, healthHandler, handler.RouterConfig{
		Environment: cfg.Environment,
		PprofCIDRs:  cfg.PprofCIDRs,
		AdminToken:  cfg.AdminToken,
	}, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the context
// is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
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

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if err := a.dlq.Close(); err != nil {
		errs = append(errs, err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.pgPool != nil {
		a.pgPool.Close()
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
