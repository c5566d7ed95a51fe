package service

import (
	"context"
	"fmt"

	"pointsbot/models"
)

// ledger performs balance mutations inside a caller's unit of work. Every
// balance change in the system goes through it. Callers must hold the
// account's lock key.
type ledger struct {
	cfg   models.EconomyConfig
	clock Clock
}

// ensureAccount returns the account, creating it with the starting bonus if
// the user has never been seen. Non-empty display fields are refreshed.
func (l *ledger) ensureAccount(ctx context.Context, uow UnitOfWork, userID int64, displayName, handle string) (*models.Account, error) {
	repo := uow.AccountRepository()

	account, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account != nil {
		if account.Refresh(displayName, handle) {
			if err := repo.Update(ctx, account); err != nil {
				return nil, fmt.Errorf("failed to refresh account: %w", err)
			}
		}
		return account, nil
	}

	account = &models.Account{
		UserID:      userID,
		DisplayName: displayName,
		Handle:      handle,
		Balance:     l.cfg.StartingBonus,
		JoinedAt:    l.clock.Now(),
	}
	if err := repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   0,
		BalanceAfter:    account.Balance,
		ChangeAmount:    account.Balance,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"display_name": displayName,
			"handle":       handle,
		},
		CreatedAt: account.JoinedAt,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record starting bonus: %w", err)
	}

	return account, nil
}

// credit adds a non-negative amount to the account
func (l *ledger) credit(ctx context.Context, uow UnitOfWork, account *models.Account, amount int64, txType models.TransactionType, metadata map[string]any) error {
	if amount < 0 {
		return fmt.Errorf("%w: credit of %d", ErrInvalidAmount, amount)
	}
	return l.apply(ctx, uow, account, amount, txType, metadata)
}

// debit removes a non-negative amount, failing without change if the balance does not cover it
func (l *ledger) debit(ctx context.Context, uow UnitOfWork, account *models.Account, amount int64, txType models.TransactionType, metadata map[string]any) error {
	if amount < 0 {
		return fmt.Errorf("%w: debit of %d", ErrInvalidAmount, amount)
	}
	if !account.CanAfford(amount) {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, account.Balance, amount)
	}
	return l.apply(ctx, uow, account, -amount, txType, metadata)
}

// adjust applies a signed delta and clamps the result at zero. Returns the
// delta actually applied.
func (l *ledger) adjust(ctx context.Context, uow UnitOfWork, account *models.Account, delta int64, txType models.TransactionType, metadata map[string]any) (int64, error) {
	applied := delta
	if account.Balance+delta < 0 {
		applied = -account.Balance
	}
	if err := l.apply(ctx, uow, account, applied, txType, metadata); err != nil {
		return 0, err
	}
	return applied, nil
}

func (l *ledger) apply(ctx context.Context, uow UnitOfWork, account *models.Account, delta int64, txType models.TransactionType, metadata map[string]any) error {
	if delta == 0 {
		return nil
	}

	before := account.Balance
	account.Balance += delta
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		account.Balance = before
		return fmt.Errorf("failed to update balance: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:              account.UserID,
		BalanceBefore:       before,
		BalanceAfter:        account.Balance,
		ChangeAmount:        delta,
		TransactionType:     txType,
		TransactionMetadata: metadata,
		CreatedAt:           l.clock.Now(),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return fmt.Errorf("failed to record balance change: %w", err)
	}
	return nil
}
