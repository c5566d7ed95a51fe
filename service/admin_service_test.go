package service

import (
	"context"
	"testing"

	"pointsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAdminID int64 = 1000

func newAdminWithLedger() (*MockLedgerService, AdminService) {
	ledger := new(MockLedgerService)
	return ledger, NewAdminService(new(MockUnitOfWorkFactory), ledger, models.DefaultEconomyConfig(testAdminID))
}

func TestAdminService_GrantRequiresAdmin(t *testing.T) {
	ledger, svc := newAdminWithLedger()

	_, err := svc.Grant(context.Background(), 5, 6, 100)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.Revoke(context.Background(), 5, 6, 100)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	ledger.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_RejectsNonPositiveAmounts(t *testing.T) {
	ledger, svc := newAdminWithLedger()
	ctx := context.Background()

	for _, amount := range []int64{0, -5} {
		_, err := svc.Grant(ctx, testAdminID, 6, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = svc.Revoke(ctx, testAdminID, 6, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}

	ledger.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_GrantAndRevokeDelegateToAdjust(t *testing.T) {
	ledger, svc := newAdminWithLedger()
	ctx := context.Background()

	ledger.On("Adjust", ctx, int64(6), int64(250), models.TransactionTypeAdminGrant).
		Return(&models.AdjustResult{UserID: 6, Requested: 250, Applied: 250, BalanceBefore: 100, NewBalance: 350}, nil)
	ledger.On("Adjust", ctx, int64(6), int64(-500), models.TransactionTypeAdminRevoke).
		Return(&models.AdjustResult{UserID: 6, Requested: -500, Applied: -350, BalanceBefore: 350, NewBalance: 0}, nil)

	granted, err := svc.Grant(ctx, testAdminID, 6, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(350), granted.NewBalance)

	revoked, err := svc.Revoke(ctx, testAdminID, 6, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), revoked.NewBalance)
	assert.Equal(t, int64(-350), revoked.Applied)

	ledger.AssertExpectations(t)
}

func TestAdminService_ResolveTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit user wins over handle", func(t *testing.T) {
		ledger, svc := newAdminWithLedger()

		id, err := svc.ResolveTarget(ctx, 42, "someone")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		ledger.AssertNotCalled(t, "FindByHandle", mock.Anything, mock.Anything)
	})

	t.Run("handle lookup strips at sign", func(t *testing.T) {
		ledger, svc := newAdminWithLedger()
		ledger.On("FindByHandle", ctx, "alice").Return(&models.Account{UserID: 77, Handle: "Alice"}, nil)

		id, err := svc.ResolveTarget(ctx, 0, "@alice")
		require.NoError(t, err)
		assert.Equal(t, int64(77), id)
		ledger.AssertExpectations(t)
	})

	t.Run("unknown handle", func(t *testing.T) {
		ledger, svc := newAdminWithLedger()
		ledger.On("FindByHandle", ctx, "ghost").Return(nil, nil)

		_, err := svc.ResolveTarget(ctx, 0, "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("nothing supplied", func(t *testing.T) {
		_, svc := newAdminWithLedger()

		_, err := svc.ResolveTarget(ctx, 0, " @ ")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAdminService_BroadcastValidation(t *testing.T) {
	_, svc := newAdminWithLedger()
	ctx := context.Background()

	_, err := svc.Broadcast(ctx, 5, "hello")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.Broadcast(ctx, testAdminID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAdminService_IsAdmin(t *testing.T) {
	_, svc := newAdminWithLedger()
	assert.True(t, svc.IsAdmin(testAdminID))
	assert.False(t, svc.IsAdmin(testAdminID+1))
}
