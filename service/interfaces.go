package service

import (
	"context"
	"fmt"
	"time"

	"pointsbot/events"
	"pointsbot/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByUserID retrieves an account, returning nil if it does not exist
	GetByUserID(ctx context.Context, userID int64) (*models.Account, error)

	// Create stores a new account and assigns its creation sequence
	Create(ctx context.Context, account *models.Account) error

	// Update replaces an existing account
	Update(ctx context.Context, account *models.Account) error

	// FindByHandle returns the first-created account whose handle matches case-insensitively
	FindByHandle(ctx context.Context, handle string) (*models.Account, error)

	// GetAll returns every account in creation order
	GetAll(ctx context.Context) ([]*models.Account, error)
}

// GiveawayRepository defines the interface for giveaway data access
type GiveawayRepository interface {
	Create(ctx context.Context, giveaway *models.Giveaway) error
	GetByID(ctx context.Context, id string) (*models.Giveaway, error)
	Update(ctx context.Context, giveaway *models.Giveaway) error
	Delete(ctx context.Context, id string) error

	// GetAll returns every open giveaway in creation order
	GetAll(ctx context.Context) ([]*models.Giveaway, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent entries for a user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// EventSubscriber registers handlers for event types
type EventSubscriber interface {
	Subscribe(eventType events.EventType, handler events.Handler)
}

// LockKey names an entity whose mutations must be serialized
type LockKey string

// AccountLock returns the lock key for a user's account
func AccountLock(userID int64) LockKey {
	return LockKey(fmt.Sprintf("account:%d", userID))
}

// GiveawayLock returns the lock key for a giveaway
func GiveawayLock(id string) LockKey {
	return LockKey("giveaway:" + id)
}

// UnitOfWork defines the interface for serialized, all-or-nothing repository operations
type UnitOfWork interface {
	// Begin acquires the unit's lock keys and starts staging writes
	Begin(ctx context.Context) error

	// Lock acquires one more key after Begin. Giveaway keys are always
	// taken before account keys.
	Lock(ctx context.Context, key LockKey) error

	// Commit applies staged writes, releases locks and flushes events
	Commit() error

	// Rollback discards staged writes and events and releases locks
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	GiveawayRepository() GiveawayRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create returns a unit of work that serializes against every other
	// unit of work holding any of the given keys. No keys means read-only.
	Create(keys ...LockKey) UnitOfWork
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// RandomSource supplies uniform integers in [0, n)
type RandomSource interface {
	IntN(n int) (int, error)
}

// Notifier delivers a message to a user outside the request that caused it.
// Delivery is best-effort: callers ignore the returned error.
type Notifier interface {
	Notify(ctx context.Context, userID int64, notification models.Notification) error
}

// LedgerService defines the interface for account and balance operations
type LedgerService interface {
	// GetOrCreate returns the user's account, creating it with the starting bonus on first sight
	GetOrCreate(ctx context.Context, userID int64, displayName, handle string) (*models.Account, error)

	// GetAccount returns the account or nil if the user never interacted
	GetAccount(ctx context.Context, userID int64) (*models.Account, error)

	// GetAccountStats returns the account with win rate and rank
	GetAccountStats(ctx context.Context, userID int64) (*models.AccountStats, error)

	// Credit increases a balance by a non-negative amount
	Credit(ctx context.Context, userID int64, amount int64, txType models.TransactionType) (*models.Account, error)

	// Debit decreases a balance, failing with ErrInsufficientFunds if it does not cover amount
	Debit(ctx context.Context, userID int64, amount int64, txType models.TransactionType) (*models.Account, error)

	// Adjust applies a signed delta, clamping the balance at zero
	Adjust(ctx context.Context, userID int64, delta int64, txType models.TransactionType) (*models.AdjustResult, error)

	// FindByHandle finds an account by handle, nil if none matches
	FindByHandle(ctx context.Context, handle string) (*models.Account, error)

	// CheckIn grants the daily bonus for the current calendar day
	CheckIn(ctx context.Context, userID int64) (*models.CheckInResult, error)

	// RecordCheckIn grants the daily bonus for the given day
	RecordCheckIn(ctx context.Context, userID int64, today models.Day) (*models.CheckInResult, error)

	// History returns recent balance changes, newest first
	History(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// GameService defines the interface for the mini-games
type GameService interface {
	PlayDice(ctx context.Context, userID int64, bet int64) (*models.RoundResult, error)
	PlayCoin(ctx context.Context, userID int64, choice models.CoinSide, bet int64) (*models.RoundResult, error)
	PlaySlots(ctx context.Context, userID int64, bet int64) (*models.RoundResult, error)

	// Bounds returns the configured bet range for the game
	Bounds(game models.GameType) models.BetBounds
}

// ReferralService defines the interface for referral bonuses
type ReferralService interface {
	// ApplyReferral credits the referrer for bringing in newUserID
	ApplyReferral(ctx context.Context, referrerID, newUserID int64) (*models.ReferralResult, error)
}

// GiveawayService defines the interface for giveaway operations
type GiveawayService interface {
	Create(ctx context.Context, creatorID int64, prize int64, durationMinutes int) (*models.Giveaway, error)
	Join(ctx context.Context, giveawayID string, userID int64) (*models.JoinResult, error)
	Draw(ctx context.Context, giveawayID string, requesterID int64) (*models.DrawResult, error)
	List(ctx context.Context) ([]*models.Giveaway, error)
}

// AdminService defines the interface for administrator operations
type AdminService interface {
	// IsAdmin checks if a user is the configured administrator
	IsAdmin(userID int64) bool

	Grant(ctx context.Context, requesterID, targetID int64, amount int64) (*models.AdjustResult, error)
	Revoke(ctx context.Context, requesterID, targetID int64, amount int64) (*models.AdjustResult, error)

	// ResolveTarget prefers an explicitly supplied user over a handle lookup
	ResolveTarget(ctx context.Context, explicitUserID int64, handle string) (int64, error)

	SnapshotStats(ctx context.Context) (*models.EconomySnapshot, error)
	Broadcast(ctx context.Context, requesterID int64, text string) (*models.BroadcastResult, error)
}
