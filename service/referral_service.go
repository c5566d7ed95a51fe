package service

import (
	"context"
	"fmt"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

type referralService struct {
	uowFactory UnitOfWorkFactory
	ledger     *ledger
}

// NewReferralService creates a new referral service
func NewReferralService(uowFactory UnitOfWorkFactory, cfg models.EconomyConfig, clock Clock) ReferralService {
	return &referralService{
		uowFactory: uowFactory,
		ledger:     &ledger{cfg: cfg, clock: clock},
	}
}

// ApplyReferral credits the bonus on every call. Repeated calls for the same
// pair are not deduplicated here.
func (s *referralService) ApplyReferral(ctx context.Context, referrerID, newUserID int64) (*models.ReferralResult, error) {
	if referrerID == newUserID {
		return nil, ErrSelfReferral
	}

	bonus := s.ledger.cfg.ReferralBonus
	var result *models.ReferralResult

	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{AccountLock(referrerID)}, func(uow UnitOfWork) error {
		referrer, err := s.ledger.ensureAccount(ctx, uow, referrerID, "", "")
		if err != nil {
			return err
		}

		referrer.ReferralCount++
		if err := s.ledger.credit(ctx, uow, referrer, bonus, models.TransactionTypeReferralBonus, map[string]any{
			"new_user_id": newUserID,
		}); err != nil {
			return err
		}
		if err := uow.AccountRepository().Update(ctx, referrer); err != nil {
			return fmt.Errorf("failed to update referral count: %w", err)
		}

		result = &models.ReferralResult{
			ReferrerID:      referrerID,
			NewUserID:       newUserID,
			Bonus:           bonus,
			ReferrerBalance: referrer.Balance,
			ReferralCount:   referrer.ReferralCount,
		}

		uow.EventBus().Publish(events.ReferralAppliedEvent{
			ReferrerID:      referrerID,
			NewUserID:       newUserID,
			Bonus:           bonus,
			ReferrerBalance: referrer.Balance,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"referrer_id": referrerID,
		"new_user_id": newUserID,
		"bonus":       bonus,
	}).Info("Referral applied")

	return result, nil
}
