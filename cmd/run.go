package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"pointsbot/application"
	"pointsbot/bot"
	"pointsbot/config"
	"pointsbot/events"
	"pointsbot/infrastructure"
	"pointsbot/infrastructure/observability"
	"pointsbot/repository"
	"pointsbot/service"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	configureLogging(cfg)

	log.WithFields(log.Fields{
		"platform":    cfg.Platform,
		"environment": cfg.Environment,
	}).Info("Starting points bot...")

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}
	economy := cfg.Economy()

	// Initialize event bus
	log.Info("Initializing event bus...")
	eventBus := events.NewBus()

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error shutting down metrics provider")
		}
	}()
	metrics.Register(eventBus)

	// Initialize store and unit of work factory
	log.Info("Initializing in-memory store...")
	store := repository.NewStore()
	uowFactory := repository.NewUnitOfWorkFactory(store, eventBus)

	// Initialize services
	log.Info("Initializing services...")
	clock := service.NewSystemClock(loc)
	rng := service.NewCryptoRandom()
	ledgerService := service.NewLedgerService(uowFactory, economy, clock)
	gameService := service.NewGameService(uowFactory, economy, clock, rng)
	referralService := service.NewReferralService(uowFactory, economy, clock)
	giveawayService := service.NewGiveawayService(uowFactory, economy, clock, rng, nil)
	adminService := service.NewAdminService(uowFactory, ledgerService, economy)
	log.Info("Services initialized successfully")

	router := bot.NewRouter(bot.Services{
		Ledger:    ledgerService,
		Games:     gameService,
		Referrals: referralService,
		Giveaways: giveawayService,
		Admin:     adminService,
		Clock:     clock,
		Metrics:   metrics,
	})

	// Initialize chat platform
	log.WithField("platform", cfg.Platform).Info("Initializing chat platform...")
	platform, err := bot.NewPlatform(cfg, router)
	if err != nil {
		return fmt.Errorf("failed to initialize %s bot: %w", cfg.Platform, err)
	}
	service.NewNotificationRouter(platform).Register(eventBus)

	// Forward domain events to NATS when configured
	if servers := cfg.NATSServerList(); len(servers) > 0 {
		natsClient, err := connectEventForwarding(ctx, servers, eventBus)
		if err != nil {
			return err
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Warn("Error closing NATS connection")
			}
		}()
	} else {
		log.Info("NATS_SERVERS not set, event forwarding disabled")
	}

	// Start giveaway expiry worker
	expiryWorker := application.NewGiveawayExpiryWorker(giveawayService, eventBus, clock, cfg.GiveawayExpiryCheckInterval)
	stopExpiryWorker, err := expiryWorker.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start giveaway expiry worker: %w", err)
	}
	defer stopExpiryWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return platform.Run(gctx)
	})

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	if err := g.Wait(); err != nil {
		return fmt.Errorf("chat platform stopped: %w", err)
	}

	log.Info("Shutting down bot...")
	return nil
}

func connectEventForwarding(ctx context.Context, servers []string, eventBus *events.Bus) (*infrastructure.NATSClient, error) {
	log.WithField("servers", servers).Info("Connecting to NATS...")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	natsClient := infrastructure.NewNATSClient(servers)
	if err := natsClient.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	if err := infrastructure.EnsureDomainEventStream(natsClient, subjectMapper); err != nil {
		_ = natsClient.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	infrastructure.NewNATSEventPublisher(natsClient, subjectMapper).Register(eventBus)
	log.Info("Event forwarding to NATS enabled")
	return natsClient, nil
}

func configureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Invalid log level, defaulting to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
