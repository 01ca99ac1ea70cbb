package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dentassist/dentassist-api/cmd/mainconfig"
	"github.com/dentassist/dentassist-api/internal/api/router"
	"github.com/dentassist/dentassist-api/internal/appointments"
	"github.com/dentassist/dentassist-api/internal/booking"
	"github.com/dentassist/dentassist-api/internal/clinic"
	appconfig "github.com/dentassist/dentassist-api/internal/config"
	"github.com/dentassist/dentassist-api/internal/doctors"
	"github.com/dentassist/dentassist-api/internal/notify"
	"github.com/dentassist/dentassist-api/internal/observability/metrics"
	"github.com/dentassist/dentassist-api/internal/users"
	"github.com/dentassist/dentassist-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dentassist API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Redis backs the persisted booking selections.
	redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis unreachable", "error", err, "addr", cfg.RedisAddr)
		os.Exit(1)
	}

	// Repositories: Postgres in deployment, in-memory when no DATABASE_URL
	// is set so local development needs only Redis.
	var (
		doctorRepo   doctors.Repository
		apptRepo     appointments.Repository
		userRepo     users.Repository
		statsHandler *clinic.StatsHandler
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		doctorRepo = doctors.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		userRepo = users.NewPostgresRepository(pool)
		statsHandler = clinic.NewStatsHandler(clinic.NewStatsRepository(pool), logger)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		memDoctors := doctors.NewInMemoryRepository()
		doctorRepo = memDoctors
		apptRepo = appointments.NewInMemoryRepository(memDoctors)
		userRepo = users.NewInMemoryRepository()
	}

	emailSender := buildEmailSender(ctx, cfg, logger)
	notifyService := notify.NewService(emailSender, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)
	selectionStore := booking.NewStore(redisClient, cfg.SelectionTTL)
	bookingService := booking.NewService(selectionStore, apptRepo, apptRepo, notifyService, bookingMetrics, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		DoctorsHandler:      doctors.NewHandler(doctorRepo, logger),
		AppointmentsHandler: appointments.NewHandler(apptRepo, cfg.BookingWindowDays, logger),
		BookingHandler:      booking.NewHandler(bookingService, logger),
		NotifyHandler:       notify.NewHandler(notifyService, logger),
		IdentityWebhook:     users.NewWebhookHandler(cfg.IdentityWebhookSecret, userRepo, logger),
		StatsHandler:        statsHandler,
		MetricsHandler:      promhttp.Handler(),
		SessionJWTSecret:    cfg.SessionJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitRPS:        cfg.PublicRateLimitRPS,
		RateLimitBurst:      cfg.PublicRateBurst,
		SecureCookies:       cfg.Env == "production",
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the confirmation email backend: "sendgrid", "ses",
// "stub", or "auto" which prefers SendGrid when a key is present, then SES,
// then the logging stub.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	sendgridSender := func() notify.EmailSender {
		s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if s == nil {
			return nil
		}
		return s
	}
	sesSender := func() notify.EmailSender {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			return nil
		}
		s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if s == nil {
			return nil
		}
		return s
	}

	switch cfg.EmailProvider {
	case "sendgrid":
		if s := sendgridSender(); s != nil {
			return s
		}
	case "ses":
		if s := sesSender(); s != nil {
			return s
		}
	case "stub", "none":
		return notify.NewStubEmailSender(logger)
	default: // auto
		if s := sendgridSender(); s != nil {
			logger.Info("email provider selected", "provider", "sendgrid")
			return s
		}
		if cfg.AWSAccessKeyID != "" || cfg.AWSEndpointOverride != "" {
			if s := sesSender(); s != nil {
				logger.Info("email provider selected", "provider", "ses")
				return s
			}
		}
	}
	logger.Warn("no email provider configured, confirmations will be logged only")
	return notify.NewStubEmailSender(logger)
}
