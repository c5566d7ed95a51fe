package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"pointsbot/events"
	"pointsbot/models"
	"pointsbot/repository"
	"pointsbot/service"

	"github.com/stretchr/testify/require"
)

const adminID int64 = 9000

// fakeClock is a settable clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptedRandom replays values and falls back to zero when exhausted
type scriptedRandom struct {
	mu     sync.Mutex
	values []int
}

func (r *scriptedRandom) IntN(n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0, nil
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n, nil
}

func (r *scriptedRandom) Push(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}

type testEnv struct {
	bus       *events.Bus
	clock     *fakeClock
	rng       *scriptedRandom
	cfg       models.EconomyConfig
	ledger    service.LedgerService
	games     service.GameService
	referrals service.ReferralService
	giveaways service.GiveawayService
	admin     service.AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, &scriptedRandom{}, nil)
}

func newTestEnvWith(t *testing.T, rng service.RandomSource, ids service.IDGenerator) *testEnv {
	t.Helper()

	bus := events.NewBus()
	factory := repository.NewUnitOfWorkFactory(repository.NewStore(), bus)
	clock := &fakeClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
	cfg := models.DefaultEconomyConfig(adminID)
	require.NoError(t, cfg.Validate())

	env := &testEnv{
		bus:   bus,
		clock: clock,
		cfg:   cfg,
	}
	if scripted, ok := rng.(*scriptedRandom); ok {
		env.rng = scripted
	}

	env.ledger = service.NewLedgerService(factory, cfg, clock)
	env.games = service.NewGameService(factory, cfg, clock, rng)
	env.referrals = service.NewReferralService(factory, cfg, clock)
	env.giveaways = service.NewGiveawayService(factory, cfg, clock, rng, ids)
	env.admin = service.NewAdminService(factory, env.ledger, cfg)
	return env
}

func (e *testEnv) account(t *testing.T, userID int64) *models.Account {
	t.Helper()
	account, err := e.ledger.GetAccount(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, account, "account %d", userID)
	return account
}

// collect subscribes to an event type and returns a channel of received events
func (e *testEnv) collect(eventType events.EventType) <-chan events.Event {
	ch := make(chan events.Event, 64)
	e.bus.Subscribe(eventType, func(ctx context.Context, event events.Event) {
		ch <- event
	})
	return ch
}

func receive(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}
