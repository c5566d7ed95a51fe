package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial       TransactionType = "initial"
	TransactionTypeCheckIn       TransactionType = "check_in"
	TransactionTypeReferralBonus TransactionType = "referral_bonus"
	TransactionTypeGameBet       TransactionType = "game_bet"
	TransactionTypeGameWin       TransactionType = "game_win"
	TransactionTypeGiveawayPrize TransactionType = "giveaway_prize"
	TransactionTypeAdminGrant    TransactionType = "admin_grant"
	TransactionTypeAdminRevoke   TransactionType = "admin_revoke"
)

// IsGameType returns true for bet debits and win credits
func (tt TransactionType) IsGameType() bool {
	return tt == TransactionTypeGameBet || tt == TransactionTypeGameWin
}

// IsAdminType returns true for administrator adjustments
func (tt TransactionType) IsAdminType() bool {
	return tt == TransactionTypeAdminGrant || tt == TransactionTypeAdminRevoke
}

// BalanceHistory represents a single journal entry for a balance change
type BalanceHistory struct {
	ID                  int64
	UserID              int64
	BalanceBefore       int64
	BalanceAfter        int64
	ChangeAmount        int64
	TransactionType     TransactionType
	TransactionMetadata map[string]any
	CreatedAt           time.Time
}
