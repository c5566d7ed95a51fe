package observability

import (
	"context"
	"testing"

	"pointsbot/config"
	"pointsbot/events"
	"pointsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true

	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.initializeWithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	return mp, reader
}

// sumValue returns the summed value of the data point matching attrs
func sumValue(t *testing.T, reader *sdkmetric.ManualReader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	want := attribute.NewSet(attrs...)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					return dp.Value
				}
			}
		}
	}
	return 0
}

func TestMetricsProvider_GameRounds(t *testing.T) {
	mp, reader := newTestProvider(t)
	ctx := context.Background()

	mp.HandleEvent(ctx, events.GameRoundEvent{UserID: 1, Game: models.GameDice, Bet: 10, Payout: 30, Won: true})
	mp.HandleEvent(ctx, events.GameRoundEvent{UserID: 1, Game: models.GameDice, Bet: 20})
	mp.HandleEvent(ctx, events.GameRoundEvent{UserID: 2, Game: models.GameSlots, Bet: 20, Payout: 200, Won: true})

	dice := attribute.String(LabelGame, "dice")
	assert.Equal(t, int64(1), sumValue(t, reader, GameRoundsTotal, dice, attribute.String(LabelOutcome, OutcomeWon)))
	assert.Equal(t, int64(1), sumValue(t, reader, GameRoundsTotal, dice, attribute.String(LabelOutcome, OutcomeLost)))
	assert.Equal(t, int64(30), sumValue(t, reader, GamePointsWageredTotal, dice))
	assert.Equal(t, int64(30), sumValue(t, reader, GamePointsPaidOutTotal, dice))
	assert.Equal(t, int64(200), sumValue(t, reader, GamePointsPaidOutTotal, attribute.String(LabelGame, "slots")))
}

func TestMetricsProvider_BalanceAndAccounts(t *testing.T) {
	mp, reader := newTestProvider(t)
	ctx := context.Background()

	mp.HandleEvent(ctx, events.AccountCreatedEvent{UserID: 1, InitialBalance: 100})
	mp.HandleEvent(ctx, events.BalanceChangeEvent{UserID: 1, TransactionType: models.TransactionTypeCheckIn, ChangeAmount: 10})
	mp.HandleEvent(ctx, events.BalanceChangeEvent{UserID: 2, TransactionType: models.TransactionTypeCheckIn, ChangeAmount: 10})
	mp.HandleEvent(ctx, events.ReferralAppliedEvent{ReferrerID: 1, NewUserID: 2, Bonus: 50})

	assert.Equal(t, int64(1), sumValue(t, reader, AccountsCreatedTotal))
	assert.Equal(t, int64(2), sumValue(t, reader, BalanceTransactionsTotal, attribute.String(LabelType, "check_in")))
	assert.Equal(t, int64(1), sumValue(t, reader, ReferralsTotal))
}

func TestMetricsProvider_GiveawayGauge(t *testing.T) {
	mp, reader := newTestProvider(t)
	ctx := context.Background()

	mp.HandleEvent(ctx, events.GiveawayCreatedEvent{GiveawayID: "a"})
	mp.HandleEvent(ctx, events.GiveawayCreatedEvent{GiveawayID: "b"})
	mp.HandleEvent(ctx, events.GiveawayCreatedEvent{GiveawayID: "c"})
	mp.HandleEvent(ctx, events.GiveawayExpiredEvent{GiveawayID: "a"})
	mp.HandleEvent(ctx, events.GiveawayDrawnEvent{GiveawayID: "a"})
	mp.HandleEvent(ctx, events.GiveawayCancelledEvent{GiveawayID: "b"})

	assert.Equal(t, int64(1), sumValue(t, reader, GiveawaysOpen))
	assert.Equal(t, int64(3), sumValue(t, reader, GiveawayEventsTotal, attribute.String(LabelType, GiveawayCreated)))
	assert.Equal(t, int64(1), sumValue(t, reader, GiveawayEventsTotal, attribute.String(LabelType, GiveawayExpired)))
}

func TestMetricsProvider_Commands(t *testing.T) {
	mp, reader := newTestProvider(t)

	mp.RecordCommand("dice")
	mp.RecordCommand("dice")
	mp.RecordCommand("balance")

	assert.Equal(t, int64(2), sumValue(t, reader, CommandsHandledTotal, attribute.String(LabelCommand, "dice")))
	assert.Equal(t, int64(1), sumValue(t, reader, CommandsHandledTotal, attribute.String(LabelCommand, "balance")))
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.Initialize(context.Background()))

	assert.NotPanics(t, func() {
		mp.RecordCommand("dice")
		mp.HandleEvent(context.Background(), events.GiveawayCreatedEvent{GiveawayID: "a"})
	})
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_NoneExporterIsNoop(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "zipkin"

	assert.Error(t, NewMetricsProvider(cfg).Initialize(context.Background()))
}
