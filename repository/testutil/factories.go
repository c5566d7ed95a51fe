package testutil

import (
	"time"

	"pointsbot/models"
)

// CreateTestAccount creates a test account with default values
func CreateTestAccount(userID int64, handle string) *models.Account {
	return &models.Account{
		UserID:      userID,
		DisplayName: handle,
		Handle:      handle,
		Balance:     100,
		JoinedAt:    time.Now(),
	}
}

// CreateTestAccountWithBalance creates a test account with a specific balance
func CreateTestAccountWithBalance(userID int64, handle string, balance int64) *models.Account {
	account := CreateTestAccount(userID, handle)
	account.Balance = balance
	return account
}

// CreateTestGiveaway creates an open giveaway ending in an hour
func CreateTestGiveaway(id string, createdBy int64, prize int64) *models.Giveaway {
	now := time.Now()
	return &models.Giveaway{
		ID:          id,
		PrizeAmount: prize,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		EndsAt:      now.Add(time.Hour),
	}
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(userID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   100,
		BalanceAfter:    90,
		ChangeAmount:    -10,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}
