package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pointsbot/config"
	"pointsbot/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the points economy
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	commandsHandledCounter     metric.Int64Counter
	balanceTransactionsCounter metric.Int64Counter
	accountsCreatedCounter     metric.Int64Counter
	gameRoundsCounter          metric.Int64Counter
	pointsWageredCounter       metric.Int64Counter
	pointsPaidOutCounter       metric.Int64Counter
	giveawaysOpenGauge         metric.Int64UpDownCounter
	giveawayEventsCounter      metric.Int64Counter
	referralsCounter           metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)
	return nil
}

// initializeWithReader builds the meter provider around a reader
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	// Schemaless so the merge never conflicts with the SDK default schema
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("pointsbot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&mp.commandsHandledCounter, CommandsHandledTotal, "Total number of chat commands handled", "1"},
		{&mp.balanceTransactionsCounter, BalanceTransactionsTotal, "Total number of balance transactions", "1"},
		{&mp.accountsCreatedCounter, AccountsCreatedTotal, "Total number of accounts opened", "1"},
		{&mp.gameRoundsCounter, GameRoundsTotal, "Total number of resolved game rounds", "1"},
		{&mp.pointsWageredCounter, GamePointsWageredTotal, "Points debited as bets", "{point}"},
		{&mp.pointsPaidOutCounter, GamePointsPaidOutTotal, "Points credited as game winnings", "{point}"},
		{&mp.giveawayEventsCounter, GiveawayEventsTotal, "Giveaway lifecycle events", "1"},
		{&mp.referralsCounter, ReferralsTotal, "Total number of referral bonuses credited", "1"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}

	// UpDownCounter for gauge-like behavior
	gauge, err := mp.meter.Int64UpDownCounter(
		GiveawaysOpen,
		metric.WithDescription("Current number of open giveaways"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create open giveaways gauge: %w", err)
	}
	mp.giveawaysOpenGauge = gauge

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// Register records every domain event published on the bus
func (mp *MetricsProvider) Register(bus *events.Bus) {
	bus.SubscribeAll(mp.HandleEvent)
}

// RecordCommand records a chat command being handled
func (mp *MetricsProvider) RecordCommand(command string) {
	if !mp.isEnabled() {
		return
	}

	mp.commandsHandledCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelCommand, command)),
	)
}

// HandleEvent updates the instruments affected by one domain event
func (mp *MetricsProvider) HandleEvent(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.BalanceChangeEvent:
		mp.balanceTransactionsCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String(LabelType, string(e.TransactionType))),
		)

	case events.AccountCreatedEvent:
		mp.accountsCreatedCounter.Add(ctx, 1)

	case events.GameRoundEvent:
		outcome := OutcomeLost
		if e.Won {
			outcome = OutcomeWon
		}
		game := attribute.String(LabelGame, string(e.Game))
		mp.gameRoundsCounter.Add(ctx, 1, metric.WithAttributes(game, attribute.String(LabelOutcome, outcome)))
		mp.pointsWageredCounter.Add(ctx, e.Bet, metric.WithAttributes(game))
		if e.Payout > 0 {
			mp.pointsPaidOutCounter.Add(ctx, e.Payout, metric.WithAttributes(game))
		}

	case events.ReferralAppliedEvent:
		mp.referralsCounter.Add(ctx, 1)

	case events.GiveawayCreatedEvent:
		mp.giveawaysOpenGauge.Add(ctx, 1)
		mp.recordGiveawayEvent(ctx, GiveawayCreated)

	case events.GiveawayDrawnEvent:
		mp.giveawaysOpenGauge.Add(ctx, -1)
		mp.recordGiveawayEvent(ctx, GiveawayDrawn)

	case events.GiveawayCancelledEvent:
		mp.giveawaysOpenGauge.Add(ctx, -1)
		mp.recordGiveawayEvent(ctx, GiveawayCancelled)

	case events.GiveawayExpiredEvent:
		mp.recordGiveawayEvent(ctx, GiveawayExpired)
	}
}

func (mp *MetricsProvider) recordGiveawayEvent(ctx context.Context, kind string) {
	mp.giveawayEventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelType, kind)))
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.config.OTelEnabled
}
