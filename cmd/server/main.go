package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	feedapp "github.com/erp/clerkfeed/internal/application/feed"
	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/infrastructure/cache"
	"github.com/erp/clerkfeed/internal/infrastructure/config"
	"github.com/erp/clerkfeed/internal/infrastructure/logger"
	"github.com/erp/clerkfeed/internal/infrastructure/persistence"
	"github.com/erp/clerkfeed/internal/infrastructure/telemetry"
	"github.com/erp/clerkfeed/internal/interfaces/http/handler"
	"github.com/erp/clerkfeed/internal/interfaces/http/middleware"
	"github.com/erp/clerkfeed/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting feed service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.SlowQuery)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:   tp.IsEnabled() && cfg.Telemetry.DBTracing,
		SlowQuery: cfg.Telemetry.SlowQuery,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Channel cache enabled", zap.String("addr", cfg.Redis.Addr()), zap.Duration("ttl", cfg.Redis.CacheTTL))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	feedMetrics := telemetry.NewFeedMetrics(registry)

	var channels commerce.ChannelRepository = persistence.NewGormChannelRepository(db.DB)
	if redisClient != nil {
		channels = cache.NewCachedChannelRepository(channels, redisClient,
			cache.WithTTL(cfg.Redis.CacheTTL),
			cache.WithLogger(log),
		)
	}

	assembler, tracker, err := buildFeed(cfg.Feed, db.DB, channels, log, feedMetrics)
	if err != nil {
		log.Fatal("Invalid feed configuration", zap.Error(err))
	}
	log.Info("Feed ready",
		zap.Stringers("entity_types", assembler.EntityTypes()),
		zap.Int("batch_size", cfg.Feed.BatchSize),
		zap.Int("window_tolerance", cfg.Feed.SignatureWindowTolerance),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure(cfg.IsProduction()))
	engine.Use(middleware.CORS(corsCfg))
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.NewHTTPMetrics(registry).Middleware())
	}

	healthHandler := handler.NewHealthHandler(cfg.App.Version, healthChecks(db, redisClient))
	engine.GET("/health", healthHandler.Health)
	if cfg.Telemetry.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	}

	feedHandler := handler.NewFeedHandler(assembler, tracker, handler.WithRequestTimeout(cfg.Feed.RequestTimeout))
	feedRoutes := router.NewDomainGroup("feed", "").Use(middleware.NoStore(), middleware.Profiling(profiler.IsEnabled()))

	stopEviction := make(chan struct{})
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.RunEviction(stopEviction)
		feedRoutes.Use(middleware.RateLimit(limiter))
	}
	feedRoutes.Mount(feedHandler)

	r := router.NewRouter(engine, router.WithBasePath(cfg.Feed.BasePath))
	r.Register(feedRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("base_path", r.BasePath()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	close(stopEviction)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildFeed wires the signature validator, the entity streams selected by
// cfg.EntityTypes and the sales tracker.
func buildFeed(
	cfg config.FeedConfig,
	db *gorm.DB,
	channels commerce.ChannelRepository,
	log *zap.Logger,
	metrics *telemetry.FeedMetrics,
) (*feedapp.Assembler, *feedapp.SalesTracker, error) {
	signing, err := feedapp.NewSigningContext(cfg.Secret)
	if err != nil {
		return nil, nil, err
	}
	validator, err := feedapp.NewSignatureValidator(signing, feedapp.WithWindowTolerance(cfg.SignatureWindowTolerance))
	if err != nil {
		return nil, nil, err
	}
	builder, err := feedapp.NewQueryBuilder(cfg.BatchSize)
	if err != nil {
		return nil, nil, err
	}

	types, err := feed.ParseEntityTypes(cfg.EntityTypes)
	if err != nil {
		return nil, nil, &feed.ConfigurationError{Field: "feed.entity_types", Reason: err.Error()}
	}

	streams := make([]feedapp.Stream, 0, len(types))
	for _, t := range types {
		switch t {
		case feed.EntityOrders:
			streams = append(streams, feedapp.NewStream[commerce.Order](t, persistence.NewGormOrderSource(db), feedapp.OrderNormalizer{}))
		case feed.EntityProducts:
			streams = append(streams, feedapp.NewStream[commerce.Product](t, persistence.NewGormProductSource(db), feedapp.ProductNormalizer{ImageBaseURL: cfg.ImageBaseURL}))
		case feed.EntityCustomers:
			streams = append(streams, feedapp.NewStream[commerce.Customer](t, persistence.NewGormCustomerSource(db), feedapp.CustomerNormalizer{}))
		}
	}

	assembler, err := feedapp.NewAssembler(validator, builder, channels, streams...)
	if err != nil {
		return nil, nil, err
	}
	assembler.SetLogger(log.Named("feed"))
	assembler.SetMetrics(metrics)

	tracker, err := feedapp.NewSalesTracker(validator, persistence.NewGormOrderRepository(db), channels, feedapp.OrderNormalizer{})
	if err != nil {
		return nil, nil, err
	}
	tracker.SetMetrics(metrics)

	return assembler, tracker, nil
}

func healthChecks(db *persistence.Database, redisClient *redis.Client) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
