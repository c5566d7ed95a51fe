package repository

import (
	"context"
	"testing"

	"pointsbot/models"
	"pointsbot/repository/testutil"
	"pointsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiveawayRepository_Lifecycle(t *testing.T) {
	store, factory := newTestFactory()
	ctx := context.Background()

	uow := factory.Create(service.GiveawayLock("abc12345"))
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.GiveawayRepository().Create(ctx, testutil.CreateTestGiveaway("abc12345", 1, 500)))
	require.NoError(t, uow.Commit())

	uow = factory.Create(service.GiveawayLock("abc12345"))
	require.NoError(t, uow.Begin(ctx))
	giveaway, err := uow.GiveawayRepository().GetByID(ctx, "abc12345")
	require.NoError(t, err)
	require.NotNil(t, giveaway)
	require.True(t, giveaway.AddParticipant(42))
	require.NoError(t, uow.GiveawayRepository().Update(ctx, giveaway))
	require.NoError(t, uow.Commit())

	assert.Equal(t, []int64{42}, store.giveaway("abc12345").Participants)

	uow = factory.Create(service.GiveawayLock("abc12345"))
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.GiveawayRepository().Delete(ctx, "abc12345"))

	gone, err := uow.GiveawayRepository().GetByID(ctx, "abc12345")
	require.NoError(t, err)
	assert.Nil(t, gone)

	all, err := uow.GiveawayRepository().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, uow.Commit())
	assert.Nil(t, store.giveaway("abc12345"))
}

func TestGiveawayRepository_DeleteMissing(t *testing.T) {
	_, factory := newTestFactory()
	ctx := context.Background()

	uow := factory.Create(service.GiveawayLock("nope"))
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.GiveawayRepository().Delete(ctx, "nope"))
}

func TestBalanceHistoryRepository_NewestFirst(t *testing.T) {
	_, factory := newTestFactory()
	ctx := context.Background()

	uow := factory.Create(service.AccountLock(1))
	require.NoError(t, uow.Begin(ctx))
	for _, tt := range []models.TransactionType{
		models.TransactionTypeInitial,
		models.TransactionTypeCheckIn,
		models.TransactionTypeGameBet,
	} {
		require.NoError(t, uow.BalanceHistoryRepository().Record(ctx, testutil.CreateTestBalanceHistory(1, tt)))
	}
	require.NoError(t, uow.BalanceHistoryRepository().Record(ctx, testutil.CreateTestBalanceHistory(2, models.TransactionTypeInitial)))
	require.NoError(t, uow.Commit())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	entries, err := uow.BalanceHistoryRepository().GetByUser(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.TransactionTypeGameBet, entries[0].TransactionType)
	assert.Equal(t, models.TransactionTypeCheckIn, entries[1].TransactionType)
	assert.Greater(t, entries[0].ID, entries[1].ID)

	all, err := uow.BalanceHistoryRepository().GetByUser(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_HistoryRetention(t *testing.T) {
	store := NewStore()
	changes := newChangeSet()
	for i := 0; i < historyRetention+10; i++ {
		h := testutil.CreateTestBalanceHistory(1, models.TransactionTypeGameBet)
		h.ID = int64(i + 1)
		changes.history = append(changes.history, h)
	}
	store.apply(changes)

	entries := store.userHistory(1)
	require.Len(t, entries, historyRetention)
	assert.Equal(t, int64(11), entries[0].ID)
}
