package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"pointsbot/events"
	"pointsbot/models"
	"pointsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_GetOrCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.collect(events.EventTypeAccountCreated)

	account, err := env.ledger.GetOrCreate(ctx, 1, "Alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.Balance)
	assert.Nil(t, account.LastCheckIn)
	assert.Zero(t, account.GamesPlayed)
	assert.Zero(t, account.ReferralCount)

	e := receive(t, created).(events.AccountCreatedEvent)
	assert.Equal(t, int64(1), e.UserID)
	assert.Equal(t, "alice", e.Handle)

	t.Run("idempotent", func(t *testing.T) {
		again, err := env.ledger.GetOrCreate(ctx, 1, "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(100), again.Balance)
		assert.Equal(t, "Alice", again.DisplayName)

		history, err := env.ledger.History(ctx, 1, 0)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("refreshes non-empty display fields", func(t *testing.T) {
		refreshed, err := env.ledger.GetOrCreate(ctx, 1, "Alice B", "")
		require.NoError(t, err)
		assert.Equal(t, "Alice B", refreshed.DisplayName)
		assert.Equal(t, "alice", refreshed.Handle)
	})
}

func TestLedger_CreditDebit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.GetOrCreate(ctx, 1, "", "")
	require.NoError(t, err)

	account, err := env.ledger.Credit(ctx, 1, 40, models.TransactionTypeAdminGrant)
	require.NoError(t, err)
	assert.Equal(t, int64(140), account.Balance)

	_, err = env.ledger.Credit(ctx, 1, -1, models.TransactionTypeAdminGrant)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	account, err = env.ledger.Debit(ctx, 1, 140, models.TransactionTypeGameBet)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance)

	_, err = env.ledger.Debit(ctx, 1, 1, models.TransactionTypeGameBet)
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	assert.Equal(t, int64(0), env.account(t, 1).Balance)

	_, err = env.ledger.Debit(ctx, 1, -1, models.TransactionTypeGameBet)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestLedger_AdjustClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.ledger.Adjust(ctx, 1, -250, models.TransactionTypeAdminRevoke)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.BalanceBefore)
	assert.Equal(t, int64(0), result.NewBalance)
	assert.Equal(t, int64(-250), result.Requested)
	assert.Equal(t, int64(-100), result.Applied)

	result, err = env.ledger.Adjust(ctx, 1, 75, models.TransactionTypeAdminGrant)
	require.NoError(t, err)
	assert.Equal(t, int64(75), result.NewBalance)
}

func TestLedger_CheckIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.ledger.CheckIn(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.Bonus)
	assert.Equal(t, int64(110), first.NewBalance)
	assert.Equal(t, models.Day{Year: 2024, Month: time.March, Day: 10}, first.Day)

	// Later the same day
	env.clock.Advance(10 * time.Hour)
	_, err = env.ledger.CheckIn(ctx, 1)
	assert.ErrorIs(t, err, service.ErrAlreadyCheckedIn)
	assert.Equal(t, int64(110), env.account(t, 1).Balance)

	// Next calendar day
	env.clock.Advance(5 * time.Hour)
	next, err := env.ledger.CheckIn(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(120), next.NewBalance)

	stored := env.account(t, 1)
	require.NotNil(t, stored.LastCheckIn)
	assert.Equal(t, "2024-03-11", stored.LastCheckIn.String())
}

func TestLedger_RecordCheckInExplicitDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := models.Day{Year: 2025, Month: time.January, Day: 1}

	_, err := env.ledger.RecordCheckIn(ctx, 1, day)
	require.NoError(t, err)

	_, err = env.ledger.RecordCheckIn(ctx, 1, day)
	assert.ErrorIs(t, err, service.ErrAlreadyCheckedIn)

	_, err = env.ledger.RecordCheckIn(ctx, 1, day.Next())
	require.NoError(t, err)
	assert.Equal(t, int64(120), env.account(t, 1).Balance)
}

func TestLedger_FindByHandle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.GetOrCreate(ctx, 5, "Bob", "Bobby")
	require.NoError(t, err)

	found, err := env.ledger.FindByHandle(ctx, "bobby")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(5), found.UserID)

	missing, err := env.ledger.FindByHandle(ctx, "robert")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLedger_StatsAndHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.GetAccountStats(ctx, 1)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = env.ledger.GetOrCreate(ctx, 1, "", "")
	require.NoError(t, err)
	_, err = env.ledger.Credit(ctx, 1, 400, models.TransactionTypeAdminGrant)
	require.NoError(t, err)

	stats, err := env.ledger.GetAccountStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RankGold, stats.Rank)
	assert.Equal(t, 0, stats.WinRate)

	history, err := env.ledger.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.TransactionTypeAdminGrant, history[0].TransactionType)
	assert.Equal(t, int64(100), history[0].BalanceBefore)
	assert.Equal(t, int64(500), history[0].BalanceAfter)
	assert.Equal(t, models.TransactionTypeInitial, history[1].TransactionType)
}

func TestLedger_ConcurrentCreditsAreNotLost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.Credit(ctx, 1, 3, models.TransactionTypeAdminGrant)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100+workers*3), env.account(t, 1).Balance)
}

func TestLedger_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Starting balance covers exactly ten debits of 10
	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.Debit(ctx, 1, 10, models.TransactionTypeGameBet)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, service.ErrInsufficientFunds)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, int64(0), env.account(t, 1).Balance)
}
