package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

// TopAccountsLimit is the number of accounts in the economy snapshot leaderboard
const TopAccountsLimit = 5

type adminService struct {
	uowFactory  UnitOfWorkFactory
	ledger      LedgerService
	adminUserID int64
}

// NewAdminService creates a new admin service
func NewAdminService(uowFactory UnitOfWorkFactory, ledger LedgerService, cfg models.EconomyConfig) AdminService {
	return &adminService{
		uowFactory:  uowFactory,
		ledger:      ledger,
		adminUserID: cfg.AdminUserID,
	}
}

func (s *adminService) IsAdmin(userID int64) bool {
	return userID == s.adminUserID
}

func (s *adminService) Grant(ctx context.Context, requesterID, targetID int64, amount int64) (*models.AdjustResult, error) {
	if err := s.checkAdjust(requesterID, amount); err != nil {
		return nil, err
	}
	return s.adjust(ctx, requesterID, targetID, amount, models.TransactionTypeAdminGrant)
}

// Revoke removes up to amount points; the balance is clamped at zero
func (s *adminService) Revoke(ctx context.Context, requesterID, targetID int64, amount int64) (*models.AdjustResult, error) {
	if err := s.checkAdjust(requesterID, amount); err != nil {
		return nil, err
	}
	return s.adjust(ctx, requesterID, targetID, -amount, models.TransactionTypeAdminRevoke)
}

func (s *adminService) checkAdjust(requesterID int64, amount int64) error {
	if !s.IsAdmin(requesterID) {
		return ErrNotAuthorized
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return nil
}

func (s *adminService) adjust(ctx context.Context, requesterID, targetID int64, delta int64, txType models.TransactionType) (*models.AdjustResult, error) {
	result, err := s.ledger.Adjust(ctx, targetID, delta, txType)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"admin_id":  requesterID,
		"target_id": targetID,
		"requested": delta,
		"applied":   result.Applied,
		"type":      txType,
	}).Info("Administrator adjusted balance")

	return result, nil
}

func (s *adminService) ResolveTarget(ctx context.Context, explicitUserID int64, handle string) (int64, error) {
	if explicitUserID != 0 {
		return explicitUserID, nil
	}

	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return 0, ErrUserNotFound
	}

	account, err := s.ledger.FindByHandle(ctx, handle)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, fmt.Errorf("%w: @%s", ErrUserNotFound, handle)
	}
	return account.UserID, nil
}

func (s *adminService) SnapshotStats(ctx context.Context) (*models.EconomySnapshot, error) {
	var snapshot *models.EconomySnapshot
	err := withUnitOfWork(ctx, s.uowFactory, nil, func(uow UnitOfWork) error {
		accounts, err := uow.AccountRepository().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to get accounts: %w", err)
		}
		giveaways, err := uow.GiveawayRepository().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to get giveaways: %w", err)
		}

		snapshot = &models.EconomySnapshot{
			TotalUsers:        len(accounts),
			OpenGiveawayCount: len(giveaways),
		}
		for _, a := range accounts {
			snapshot.TotalPoints += a.Balance
			snapshot.TotalGamesPlayed += a.GamesPlayed
		}

		// Accounts arrive in creation order, so a stable sort keeps older accounts first on ties
		sort.SliceStable(accounts, func(i, j int) bool {
			return accounts[i].Balance > accounts[j].Balance
		})
		for i, a := range accounts {
			if i == TopAccountsLimit {
				break
			}
			snapshot.TopAccounts = append(snapshot.TopAccounts, &models.LeaderboardEntry{
				Position:    i + 1,
				UserID:      a.UserID,
				DisplayName: a.DisplayName,
				Handle:      a.Handle,
				Balance:     a.Balance,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Broadcast queues a message for every known account except the sender.
// Delivery happens after the request returns.
func (s *adminService) Broadcast(ctx context.Context, requesterID int64, text string) (*models.BroadcastResult, error) {
	if !s.IsAdmin(requesterID) {
		return nil, ErrNotAuthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	var recipients []int64
	err := withUnitOfWork(ctx, s.uowFactory, nil, func(uow UnitOfWork) error {
		accounts, err := uow.AccountRepository().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to get accounts: %w", err)
		}
		for _, a := range accounts {
			if a.UserID != requesterID {
				recipients = append(recipients, a.UserID)
			}
		}

		uow.EventBus().Publish(events.BroadcastRequestedEvent{
			RequestedBy: requesterID,
			Text:        text,
			Recipients:  recipients,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"admin_id":   requesterID,
		"recipients": len(recipients),
	}).Info("Broadcast queued")

	return &models.BroadcastResult{Recipients: len(recipients)}, nil
}
