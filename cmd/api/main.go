package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/glamora-hn/booking-engine/cmd/mainconfig"
	"github.com/glamora-hn/booking-engine/internal/api/router"
	"github.com/glamora-hn/booking-engine/internal/authstore"
	"github.com/glamora-hn/booking-engine/internal/catalog"
	appconfig "github.com/glamora-hn/booking-engine/internal/config"
	"github.com/glamora-hn/booking-engine/internal/directory"
	"github.com/glamora-hn/booking-engine/internal/http/handlers"
	"github.com/glamora-hn/booking-engine/internal/notify"
	"github.com/glamora-hn/booking-engine/internal/observability/metrics"
	"github.com/glamora-hn/booking-engine/internal/salon"
	"github.com/glamora-hn/booking-engine/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-engine API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Backend credential store
	tokens := authstore.New(cfg.SalonTokenTTL)
	if cfg.SalonAPIToken != "" {
		tokens.Set(cfg.SalonAPIToken)
	}
	tokens.Subscribe(func(token string) {
		if token == "" {
			logger.Warn("salon API token cleared")
		}
	})

	// Remote salon backend clients
	salonClient := salon.NewClient(cfg.SalonAPIBaseURL, tokens, logger)
	salonClient.SetTimeout(cfg.SalonAPITimeout)
	catalogClient := catalog.NewClient(cfg.SalonAPIBaseURL, logger)

	// Redis-backed name directory
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	names := directory.NewCache(redisClient, directory.ListerFunc(func(ctx context.Context) ([]directory.UserName, error) {
		rows, err := salonClient.ListUserNames(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]directory.UserName, 0, len(rows))
		for _, r := range rows {
			out = append(out, directory.UserName{ID: string(r.ID), Name: r.Name})
		}
		return out, nil
	}), cfg.DirectoryCacheTTL, logger)

	// Confirmation notifications
	emailSender := buildEmailSender(cfg, logger)
	endpointSender := notify.NewEndpointSender(cfg.EmailEndpointURL, logger)
	notifier := notify.NewService(emailSender, endpointSender, logger)

	// Workflow plumbing
	bookingMetrics := metrics.NewBookingMetrics(nil)
	gateway := salon.NewGateway(salonClient, cfg.TaxRate, cfg.IncludeItems)
	sessions := handlers.NewSessionStore(cfg.SessionTTL)

	bookingHandler := handlers.NewBookingHandler(catalogClient, gateway, notifier, sessions, cfg.TaxRate, cfg.ReservationFee, logger, bookingMetrics)
	appointmentsHandler := handlers.NewAppointmentsHandler(salonClient, names, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		BookingHandler:      bookingHandler,
		AppointmentsHandler: appointmentsHandler,
		MetricsHandler:      promhttp.Handler(),
		UserJWTSecret:       cfg.UserJWTSecret,
		CORSAllowedOrigins:  splitOrigins(cfg.CORSAllowedOrigins),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Expired booking sessions are swept in the background.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					logger.Debug("swept expired booking sessions", "count", n)
				}
			}
		}
	}()

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := redisClient.Close(); err != nil {
		logger.Warn("redis close failed", "error", err)
	}
	logger.Info("server stopped")
}

func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch strings.ToLower(cfg.EmailProvider) {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but not configured, falling back to stub")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config, falling back to stub", "error", err)
			break
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if sender != nil {
			return sender
		}
	case "endpoint", "":
		// confirmation still goes out through the webhook sender
	}
	return notify.NewStubEmailSender(logger)
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
