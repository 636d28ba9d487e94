package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wellmind/support-platform/cmd/mainconfig"
	"github.com/wellmind/support-platform/internal/api/router"
	"github.com/wellmind/support-platform/internal/appointments"
	appconfig "github.com/wellmind/support-platform/internal/config"
	"github.com/wellmind/support-platform/internal/http/handlers"
	"github.com/wellmind/support-platform/internal/notify"
	"github.com/wellmind/support-platform/internal/observability/metrics"
	"github.com/wellmind/support-platform/internal/workers"
	"github.com/wellmind/support-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting support-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool == nil {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := connectRedis(cfg, logger)

	metricsHandler, schedMetrics := setupSchedulingMetrics()

	repo := appointments.NewRepository(pool)
	directory := workers.NewDirectory(pool, redisClient, logger)
	svc := appointments.NewService(repo, directory, schedMetrics, logger)

	notifier := setupNotifier(ctx, cfg, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		BookingHandler:      handlers.NewBookingHandler(repo, notifier, schedMetrics, logger),
		AppointmentsHandler: handlers.NewAppointmentsHandler(svc, logger),
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		SessionJWTSecret:    cfg.SessionJWTSecret,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// connectPostgresPool opens a pgx pool, returning nil when no URL is set.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Warn("postgres not reachable at startup", "error", err)
	}
	return pool
}

// connectRedis returns a client for the worker-name cache, or nil when Redis
// is not configured. The cache is optional; lookups fall back to postgres.
func connectRedis(cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not reachable, name cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", cfg.RedisAddr)
	return client
}

// setupSchedulingMetrics registers scheduling counters on a fresh registry
// and returns the /metrics handler alongside them.
func setupSchedulingMetrics() (http.Handler, *metrics.SchedulingMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedMetrics := metrics.NewSchedulingMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), schedMetrics
}

// setupNotifier selects the configured email provider. Email is optional;
// bookings succeed without it.
func setupNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *notify.Service {
	var sender notify.EmailSender

	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			sender = s
			logger.Info("email notifications via sendgrid")
		}
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, email disabled", "error", err)
			break
		}
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); s != nil {
			sender = s
			logger.Info("email notifications via ses")
		}
	}

	if sender == nil {
		logger.Info("email notifications disabled")
		sender = notify.NewStubEmailSender(logger)
	}
	return notify.NewService(sender, logger)
}
