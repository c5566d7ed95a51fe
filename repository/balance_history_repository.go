package repository

import (
	"context"
	"maps"
	"time"

	"pointsbot/models"
)

// BalanceHistoryRepository implements the BalanceHistoryRepository interface
type BalanceHistoryRepository struct {
	uow *unitOfWork
}

func newBalanceHistoryRepository(uow *unitOfWork) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{uow: uow}
}

// Record stages a new balance history entry and assigns its ID
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	history.ID = r.uow.store.nextHistoryID()
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now()
	}

	entry := *history
	entry.TransactionMetadata = maps.Clone(history.TransactionMetadata)
	r.uow.staged.history = append(r.uow.staged.history, &entry)
	return nil
}

// GetByUser returns up to limit entries for the user, newest first
func (r *BalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := r.uow.store.userHistory(userID)
	for _, h := range r.uow.staged.history {
		if h.UserID == userID {
			entries = append(entries, h)
		}
	}

	result := make([]*models.BalanceHistory, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		entry := *entries[i]
		result = append(result, &entry)
	}
	return result, nil
}
