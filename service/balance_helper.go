package service

import (
	"context"
	"fmt"

	"pointsbot/events"
	"pointsbot/models"
)

// RecordBalanceChange records a balance history entry and emits appropriate events.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Flushed after the unit of work commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	})

	if history.TransactionType == models.TransactionTypeInitial {
		displayName, _ := history.TransactionMetadata["display_name"].(string)
		handle, _ := history.TransactionMetadata["handle"].(string)
		uow.EventBus().Publish(events.AccountCreatedEvent{
			UserID:         history.UserID,
			DisplayName:    displayName,
			Handle:         handle,
			InitialBalance: history.BalanceAfter,
		})
	}

	return nil
}
