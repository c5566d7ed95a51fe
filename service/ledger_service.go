package service

import (
	"context"
	"fmt"

	"pointsbot/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	ledger     *ledger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, cfg models.EconomyConfig, clock Clock) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		ledger:     &ledger{cfg: cfg, clock: clock},
	}
}

func (s *ledgerService) GetOrCreate(ctx context.Context, userID int64, displayName, handle string) (*models.Account, error) {
	var account *models.Account
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{AccountLock(userID)}, func(uow UnitOfWork) error {
		var err error
		account, err = s.ledger.ensureAccount(ctx, uow, userID, displayName, handle)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) GetAccount(ctx context.Context, userID int64) (*models.Account, error) {
	var account *models.Account
	err := withUnitOfWork(ctx, s.uowFactory, nil, func(uow UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) GetAccountStats(ctx context.Context, userID int64) (*models.AccountStats, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUserNotFound
	}
	return &models.AccountStats{
		Account: account,
		WinRate: account.WinRate(),
		Rank:    account.Rank(),
	}, nil
}

func (s *ledgerService) Credit(ctx context.Context, userID int64, amount int64, txType models.TransactionType) (*models.Account, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: credit of %d", ErrInvalidAmount, amount)
	}

	var account *models.Account
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{AccountLock(userID)}, func(uow UnitOfWork) error {
		var err error
		if account, err = s.ledger.ensureAccount(ctx, uow, userID, "", ""); err != nil {
			return err
		}
		return s.ledger.credit(ctx, uow, account, amount, txType, nil)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) Debit(ctx context.Context, userID int64, amount int64, txType models.TransactionType) (*models.Account, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: debit of %d", ErrInvalidAmount, amount)
	}

	var account *models.Account
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{AccountLock(userID)}, func(uow UnitOfWork) error {
		var err error
		if account, err = s.ledger.ensureAccount(ctx, uow, userID, "", ""); err != nil {
			return err
		}
		return s.ledger.debit(ctx, uow, account, amount, txType, nil)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) Adjust(ctx context.Context, userID int64, delta int64, txType models.TransactionType) (*models.AdjustResult, error) {
	var result *models.AdjustResult
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{AccountLock(userID)}, func(uow UnitOfWork) error {
		account, err := s.ledger.ensureAccount(ctx, uow, userID, "", "")
		if err != nil {
			return err
		}

		before := account.Balance
		applied, err := s.ledger.adjust(ctx, uow, account, delta, txType, map[string]any{
			"requested": delta,
		})
		if err != nil {
			return err
		}

		result = &models.AdjustResult{
			UserID:        userID,
			Requested:     delta,
			Applied:       applied,
			BalanceBefore: before,
			NewBalance:    account.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) FindByHandle(ctx context.Context, handle string) (*models.Account, error) {
	var account *models.Account
	err := withUnitOfWork(ctx, s.uowFactory, nil, func(uow UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().FindByHandle(ctx, handle)
		if err != nil {
			return fmt.Errorf("failed to find account by handle: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) CheckIn(ctx context.Context, userID int64) (*models.CheckInResult, error) {
	return s.RecordCheckIn(ctx, userID, models.DayOf(s.ledger.clock.Now()))
}

func (s *ledgerService) RecordCheckIn(ctx context.Context, userID int64, today models.Day) (*models.CheckInResult, error) {
	var result *models.CheckInResult
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{AccountLock(userID)}, func(uow UnitOfWork) error {
		account, err := s.ledger.ensureAccount(ctx, uow, userID, "", "")
		if err != nil {
			return err
		}
		if account.HasCheckedInOn(today) {
			return ErrAlreadyCheckedIn
		}

		account.LastCheckIn = &today
		if err := s.ledger.credit(ctx, uow, account, s.ledger.cfg.CheckInBonus, models.TransactionTypeCheckIn, map[string]any{
			"day": today.String(),
		}); err != nil {
			return err
		}
		// Persist the check-in day even when the bonus is zero
		if err := uow.AccountRepository().Update(ctx, account); err != nil {
			return fmt.Errorf("failed to record check-in: %w", err)
		}

		result = &models.CheckInResult{
			Bonus:      s.ledger.cfg.CheckInBonus,
			NewBalance: account.Balance,
			Day:        today,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) History(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	var history []*models.BalanceHistory
	err := withUnitOfWork(ctx, s.uowFactory, nil, func(uow UnitOfWork) error {
		var err error
		history, err = uow.BalanceHistoryRepository().GetByUser(ctx, userID, limit)
		if err != nil {
			return fmt.Errorf("failed to get balance history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}
