// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"billionaireable/internal/config"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/adapter"
	aiAdapters "billionaireable/internal/infra/adapters/ai"
	"billionaireable/internal/infra/api"
	"billionaireable/internal/infra/billing"
	pg "billionaireable/internal/infra/db/postgres"
	"billionaireable/internal/infra/logging"
	"billionaireable/internal/infra/mail"
	"billionaireable/internal/infra/metrics"
	red "billionaireable/internal/infra/redis"
	"billionaireable/internal/infra/sched"
	"billionaireable/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop adapters, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	appRepo := pg.NewApplicationRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	notifRepo := pg.NewNotificationLogRepo(pool)
	subRepo := pg.NewSubscriptionRepoCacheDecorator(pg.NewSubscriptionRepo(pool), redisClient, cfg.Redis.TTL)
	txManager := pg.NewTxManager(pool)

	// ---- Pricing catalog ----
	catalog := model.NewCatalog(map[model.Tier]model.TierPricing{
		model.TierFounder: {MonthlyAmount: cfg.Tiers.Founder.Monthly, AnnualAmount: cfg.Tiers.Founder.Annual, Description: cfg.Tiers.Founder.Description},
		model.TierScaler:  {MonthlyAmount: cfg.Tiers.Scaler.Monthly, AnnualAmount: cfg.Tiers.Scaler.Annual, Description: cfg.Tiers.Scaler.Description},
		model.TierOwner:   {MonthlyAmount: cfg.Tiers.Owner.Monthly, AnnualAmount: cfg.Tiers.Owner.Annual, Description: cfg.Tiers.Owner.Description},
	}, cfg.Tiers.InnerCircleFlat)

	// ---- Mailer ----
	var mailer adapter.Mailer
	if cfg.Runtime.Dev || cfg.SMTP.Host == "" {
		mailer = mail.NewNoopMailer(logger)
		logger.Info().Msg("mailer: noop")
	} else {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
		logger.Info().Str("host", cfg.SMTP.Host).Msg("mailer: smtp")
	}

	// ---- Concierge adapter ----
	var concierge adapter.ConciergeAdapter
	if cfg.AI.OpenAIKey != "" && !cfg.Runtime.Dev {
		concierge, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("concierge: openai")
	} else {
		concierge = aiAdapters.NewNoopAdapter()
		logger.Info().Msg("concierge: noop")
	}

	// ---- Use cases ----
	subUC := usecase.NewSubscriptionUseCase(subRepo, logger)
	appUC := usecase.NewApplicationUseCase(appRepo, userRepo, subUC, catalog, cfg.Wire, txManager, logger)
	sweepUC := usecase.NewSweepUseCase(userRepo, appRepo, notifRepo, mailer, logger)
	chatUC := usecase.NewChatUseCase(subUC, concierge, cfg.AI.SystemPrompt, logger)

	// ---- Stripe webhook ----
	var stripeHook *billing.StripeWebhook
	if cfg.Stripe.WebhookSecret != "" {
		stripeHook = billing.NewStripeWebhook(appUC, cfg.Stripe.WebhookSecret, logger)
	}

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	srv := api.NewServer(appUC, subUC, sweepUC, chatUC, stripeHook, auth, rateLimiter, cfg.Admin.APIKey, cfg.Wire.WebhookSecret, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Daily sweep workers ----
	stallAt, _ := config.ParseClock(cfg.Scheduler.StallSweepAt)
	abandonAt, _ := config.ParseClock(cfg.Scheduler.AbandonSweepAt)
	stallWorker := sched.NewSweepWorker("stalled_users", stallAt, sweepUC.SweepStalledUsers, logger)
	abandonWorker := sched.NewSweepWorker("abandoned_applications", abandonAt, sweepUC.SweepAbandonedApplications, logger)
	go func() { _ = stallWorker.Run(ctx) }()
	go func() { _ = abandonWorker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
