package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barbearia-backend/internal/booking"
	"barbearia-backend/internal/cache"
	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/config"
	"barbearia-backend/internal/db"
	"barbearia-backend/internal/health"
	"barbearia-backend/internal/middleware"
	"barbearia-backend/internal/otelx"
	"barbearia-backend/internal/validation"
)

const serviceName = "barbearia-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With(slog.String("service", serviceName))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracing, err := otelx.Setup(ctx, otelx.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		logger.Error("tracing setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	readyChecks := []health.Check{{Name: "mongo", Check: db.Ping(client)}}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.CacheEnabled() {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		defer redisCache.Close()
		cacheStore = redisCache
		readyChecks = append(readyChecks, health.Check{Name: "redis", Check: redisCache.Ping})
	}

	serviceRepo := catalog.NewRepository(cols.Services)
	catalogManager := catalog.NewManager(serviceRepo)
	if cfg.SeedOnStart {
		seeded, err := catalogManager.SeedIfEmpty(ctx)
		if err != nil {
			logger.Error("catalog seed failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if seeded > 0 {
			logger.Info("catalog seeded", slog.Int("count", seeded))
		}
	}

	bookingManager := booking.NewManager(booking.NewRepository(cols.Appointments), serviceRepo)

	val := validation.New()
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	handler := newRouter(routerDeps{
		Log:            logger,
		Services:       catalog.NewHandler(catalogManager, val, cacheStore, cacheTTL, logger),
		Appointments:   booking.NewHandler(bookingManager, val, logger),
		Health:         health.NewHandler("Barbearia Urbana API is running", logger, readyChecks...),
		Origins:        cfg.FrontendOrigins,
		BookingLimiter: middleware.NewRateLimiter(cfg.RateLimitAppointments, time.Duration(cfg.RateLimitWindowSec)*time.Second),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
}
