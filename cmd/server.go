package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-enrollment/internal/api/handlers"
	"course-enrollment/internal/config"
	"course-enrollment/internal/infrastructure/database"
	"course-enrollment/internal/infrastructure/discovery"
	"course-enrollment/internal/infrastructure/observability"
	"course-enrollment/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

// serviceRuntime holds the connections one service process owns and closes
// them in reverse order on shutdown.
type serviceRuntime struct {
	name    string
	port    string
	cfg     *config.Config
	db      *gorm.DB
	redis   *redis.Client
	checks  map[string]handlers.HealthCheckFunc
	closers []func(context.Context)
}

type runtimeOptions struct {
	needRedis bool
	models    []any
}

func newServiceRuntime(ctx context.Context, name, port string, opts runtimeOptions) (*serviceRuntime, error) {
	cfg := config.Get()
	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	rt := &serviceRuntime{
		name:   name,
		port:   port,
		cfg:    cfg,
		checks: map[string]handlers.HealthCheckFunc{},
	}

	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    name,
		ServiceVersion: cfg.App.Version,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	rt.onClose(func(ctx context.Context) {
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("Tracer shutdown failed: %v", err)
		}
	})

	if cfg.Database.Driver == config.DriverPostgres {
		db, err := database.NewConnection(databaseConfig(cfg))
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.onClose(func(context.Context) {
			if err := database.Close(db); err != nil {
				logger.Warn("Closing database failed: %v", err)
			}
		})

		if cfg.Database.AutoMigrate && len(opts.models) > 0 {
			if err := database.AutoMigrate(db, opts.models...); err != nil {
				rt.close()
				return nil, err
			}
		}
		rt.db = db
		rt.checks["database"] = func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
	} else {
		logger.Warn("Using in-memory storage for %s; data is lost on restart", name)
	}

	discoveryOnRedis := cfg.Discovery.Enabled && cfg.Discovery.Backend == config.DiscoveryRedis
	if opts.needRedis || discoveryOnRedis {
		client, err := database.NewRedisClient(ctx, redisConfig(cfg))
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.onClose(func(context.Context) { client.Close() })
		rt.redis = client
		rt.checks["redis"] = func(ctx context.Context) error { return database.RedisHealthCheck(ctx, client) }
	}

	return rt, nil
}

func (rt *serviceRuntime) onClose(fn func(context.Context)) {
	rt.closers = append(rt.closers, fn)
}

func (rt *serviceRuntime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i](ctx)
	}
}

func (rt *serviceRuntime) healthHandler() *handlers.HealthHandler {
	return handlers.NewHealthHandler(rt.name, rt.cfg.App.Version, rt.checks)
}

// advertise keeps this instance registered in the Redis registry until ctx ends.
func (rt *serviceRuntime) advertise(ctx context.Context) {
	d := rt.cfg.Discovery
	if !d.Enabled || d.Backend != config.DiscoveryRedis || rt.redis == nil {
		return
	}

	addr := d.AdvertiseAddr
	if addr == "" {
		host, _ := os.Hostname()
		addr = net.JoinHostPort(host, rt.port)
	}

	registry := discovery.NewRedisRegistry(rt.redis, config.Seconds(d.TTL, 30*time.Second))
	inst := discovery.Instance{Service: rt.name, ID: uuid.NewString(), Addr: addr}
	go registry.Heartbeat(ctx, inst, config.Seconds(d.HeartbeatInterval, 10*time.Second))
}

// serve runs handler until SIGINT or SIGTERM, then drains in-flight
// requests, runs beforeClose and releases the runtime's connections.
func (rt *serviceRuntime) serve(handler http.Handler, beforeClose ...func()) {
	cfg := rt.cfg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:           net.JoinHostPort(cfg.Server.Host, rt.port),
		Handler:        otelhttp.NewHandler(handler, rt.name),
		ReadTimeout:    config.Seconds(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout:   config.Seconds(cfg.Server.WriteTimeout, 15*time.Second),
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	heartbeatCtx, stopHeartbeat := context.WithCancel(context.Background())
	rt.advertise(heartbeatCtx)

	go func() {
		logger.Info("Starting %s on %s", rt.name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start %s: %v", rt.name, err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down %s...", rt.name)
	stopHeartbeat()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	for _, fn := range beforeClose {
		fn()
	}
	rt.close()

	logger.Info("%s exited", rt.name)
}

func resolvePort(flagValue, configured, fallback string) string {
	switch {
	case flagValue != "":
		return flagValue
	case configured != "":
		return configured
	default:
		return fallback
	}
}

func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.Username,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.Name,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogLevel:     cfg.Database.LogLevel,
	}
}

func redisConfig(cfg *config.Config) database.RedisConfig {
	return database.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
}
