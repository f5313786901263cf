package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-docs-bank/internal/application"
	"telegram-docs-bank/internal/catalog"
	"telegram-docs-bank/internal/config"
	"telegram-docs-bank/internal/domain/model"
	"telegram-docs-bank/internal/domain/ports/repository"
	tele "telegram-docs-bank/internal/infra/adapters/telegram"
	"telegram-docs-bank/internal/infra/fetch"
	"telegram-docs-bank/internal/infra/logging"
	smtpmail "telegram-docs-bank/internal/infra/mail"
	"telegram-docs-bank/internal/infra/memstate"
	"telegram-docs-bank/internal/infra/metrics"
	red "telegram-docs-bank/internal/infra/redis"
	"telegram-docs-bank/internal/infra/web"
	"telegram-docs-bank/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted emails)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Session state store (redis when configured, memory otherwise) ----
	var states repository.StateRepository
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		states = red.NewStateRepo(redisClient, cfg.Redis.TTL)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("session state in redis")
	} else {
		states = memstate.NewStateRepo()
		logger.Info().Msg("session state in memory (lost on restart)")
	}

	// ---- Asset catalog ----
	assets := catalog.Default()
	if len(cfg.Catalog) > 0 {
		assets = make([]model.AssetDescriptor, 0, len(cfg.Catalog))
		for _, a := range cfg.Catalog {
			assets = append(assets, model.AssetDescriptor{
				Key:         a.Key,
				Icon:        a.Icon,
				Title:       a.Title,
				Description: a.Description,
				Documents:   a.Documents,
				Processing:  a.Processing,
				Filename:    a.Filename,
				SourceURL:   a.SourceURL,
			})
		}
	}
	cat, err := catalog.New(assets, cfg.Fetch.BaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog")
	}
	logger.Info().Int("assets", cat.Len()).Msg("catalog loaded")

	// ---- Outbound adapters ----
	fetcher := fetch.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, logger)
	mailer := smtpmail.NewSMTPMailer(cfg.SMTP, logger)
	if !cfg.SMTP.Configured() {
		logger.Warn().Msg("smtp credentials missing; email delivery will fail until configured")
	}

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	logger.Info().Str("bot", botAdapter.Username()).Msg("connected to telegram")

	// ---- Dispatcher + facade ----
	deliveryUC := usecase.NewDeliveryUseCase(
		cat, fetcher, mailer, botAdapter,
		cfg.Bot.AdminChatID, cfg.Contacts.Email,
		cfg.Runtime.Dev, logger,
	)
	facade := application.NewBotFacade(
		deliveryUC, cat, states,
		cfg.Bot.WebAppURL,
		cfg.Contacts.Email, cfg.Contacts.Phone, cfg.Contacts.Hours,
		logger,
	)
	botAdapter.SetFacade(facade)

	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Health / metrics server ----
	healthSrv := web.NewServer("docs-bank-bot", cfg.Health.Port, logger)
	go func() {
		if err := healthSrv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("health server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = healthSrv.Shutdown(shutdownCtx)
}
