package models

import (
	"time"
)

// Account represents a chat user's points balance and play counters
type Account struct {
	UserID        int64
	DisplayName   string
	Handle        string
	Balance       int64
	JoinedAt      time.Time
	LastCheckIn   *Day
	ReferralCount int64
	GamesPlayed   int64
	GamesWon      int64
	TotalWinnings int64

	// Seq is the creation order assigned by the store; lower is older.
	Seq int64
}

// Clone returns a deep copy safe to hand out of the store
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.LastCheckIn != nil {
		day := *a.LastCheckIn
		c.LastCheckIn = &day
	}
	return &c
}

// CanAfford checks if the account balance covers an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// HasCheckedInOn reports whether the last check-in fell on the given day
func (a *Account) HasCheckedInOn(day Day) bool {
	return a.LastCheckIn != nil && *a.LastCheckIn == day
}

// WinRate returns gamesWon/gamesPlayed as a whole percent rounded to nearest, 0 with no games
func (a *Account) WinRate() int {
	if a.GamesPlayed == 0 {
		return 0
	}
	return int((a.GamesWon*200 + a.GamesPlayed) / (a.GamesPlayed * 2))
}

// Rank returns the tier for the current balance
func (a *Account) Rank() Rank {
	return RankForBalance(a.Balance)
}

// Refresh updates the optional display fields when non-empty values are supplied.
// Returns true if anything changed.
func (a *Account) Refresh(displayName, handle string) bool {
	changed := false
	if displayName != "" && displayName != a.DisplayName {
		a.DisplayName = displayName
		changed = true
	}
	if handle != "" && handle != a.Handle {
		a.Handle = handle
		changed = true
	}
	return changed
}

// Rank is a display tier derived from balance
type Rank string

const (
	RankBronze   Rank = "bronze"
	RankSilver   Rank = "silver"
	RankGold     Rank = "gold"
	RankPlatinum Rank = "platinum"
)

// RankForBalance maps a balance to its tier
func RankForBalance(balance int64) Rank {
	switch {
	case balance < 100:
		return RankBronze
	case balance < 500:
		return RankSilver
	case balance < 1000:
		return RankGold
	default:
		return RankPlatinum
	}
}

// AccountStats is an account plus derived figures for display
type AccountStats struct {
	Account *Account
	WinRate int
	Rank    Rank
}
