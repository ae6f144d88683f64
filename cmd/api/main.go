package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/careconnect/careconnect-api/internal/accounts"
	"github.com/careconnect/careconnect-api/internal/api/router"
	appconfig "github.com/careconnect/careconnect-api/internal/config"
	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/internal/notify"
	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/internal/scheduling"
	"github.com/careconnect/careconnect-api/internal/triage"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting careconnect API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.SessionSecret == "" {
		logger.Error("SESSION_SECRET is required")
		os.Exit(1)
	}
	issuer := identity.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)

	ctx := context.Background()

	// Storage: Postgres when configured, in-memory otherwise
	var (
		accountRepo accounts.Repository
		doctorRepo  doctors.Repository
		schedRepo   scheduling.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		accountRepo = accounts.NewPostgresRepository(pool)
		doctorRepo = doctors.NewPostgresRepository(pool)
		schedRepo = scheduling.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		accountRepo = accounts.NewInMemoryRepository()
		doctorRepo = doctors.NewInMemoryRepository()
		schedRepo = scheduling.NewInMemoryRepository()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	bookingMetrics := metrics.NewBookingMetrics(registry)
	triageMetrics := metrics.NewTriageMetrics(registry)

	// Notifications: SendGrid when configured, stub otherwise
	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		logger.Warn("SENDGRID_API_KEY not set, emails go to the log")
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifySvc := notify.NewService(emailSender, logger)

	// Triage: Gemini primary with the keyword fallback behind it
	var analyzer triage.Analyzer
	if cfg.GeminiAPIKey != "" {
		gemini, err := triage.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini analyzer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		analyzer = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, symptom analysis uses the keyword fallback only")
	}

	var triageCache *triage.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = redisClient.Close() }()
		triageCache = triage.NewCache(redisClient, cfg.TriageCacheTTL)
	}

	// Services and handlers
	accountSvc := accounts.NewService(accountRepo, doctorRepo, issuer, cfg.BcryptCost, logger)
	schedSvc := scheduling.NewService(schedRepo, doctorRepo, accountRepo, notifySvc, bookingMetrics, logger)
	triageSvc := triage.NewService(analyzer, triageCache, cfg.GeminiTimeout, triageMetrics, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		TokenIssuer:        issuer,
		AccountsHandler:    accounts.NewHandler(accountSvc, logger),
		DoctorsHandler:     doctors.NewHandler(doctorRepo, logger),
		SchedulingHandler:  scheduling.NewHandler(schedSvc, logger),
		TriageHandler:      triage.NewHandler(triageSvc, doctorRepo, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: splitOrigins(cfg.CORSAllowedOrigins),
		AuthThrottle:       cfg.AuthThrottle,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
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

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
