package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"pointsbot/events"
	"pointsbot/service"
)

// unitOfWork implements the UnitOfWork interface. Writes are staged in a
// change set and applied to the store atomically on Commit.
type unitOfWork struct {
	store            *Store
	keys             []service.LockKey
	held             []service.LockKey
	ctx              context.Context
	staged           *changeSet
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	giveawayRepo     service.GiveawayRepository
	balanceHistRepo  service.BalanceHistoryRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(store *Store, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		store:    store,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	store    *Store
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create(keys ...service.LockKey) service.UnitOfWork {
	return &unitOfWork{
		store:            f.store,
		keys:             keys,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin acquires the unit's keys in sorted order and starts staging
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.staged != nil {
		return fmt.Errorf("transaction already started")
	}

	keys := slices.Clone(u.keys)
	slices.SortFunc(keys, compareLockKeys)
	keys = slices.Compact(keys)

	for _, key := range keys {
		if err := u.store.locks.acquire(ctx, key); err != nil {
			u.releaseAll()
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		u.held = append(u.held, key)
	}

	u.ctx = ctx
	u.staged = newChangeSet()

	u.accountRepo = newAccountRepository(u)
	u.giveawayRepo = newGiveawayRepository(u)
	u.balanceHistRepo = newBalanceHistoryRepository(u)

	return nil
}

// Lock acquires an additional key for the rest of the unit
func (u *unitOfWork) Lock(ctx context.Context, key service.LockKey) error {
	if u.staged == nil {
		return fmt.Errorf("unit of work not started")
	}
	if slices.Contains(u.held, key) {
		return nil
	}

	if err := u.store.locks.acquire(ctx, key); err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	u.held = append(u.held, key)
	return nil
}

// Commit applies staged writes and flushes events
func (u *unitOfWork) Commit() error {
	if u.staged == nil {
		return fmt.Errorf("no transaction to commit")
	}

	u.store.apply(u.staged)
	u.staged = nil
	u.releaseAll()

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback discards staged writes
func (u *unitOfWork) Rollback() error {
	if u.staged == nil {
		return nil // Nothing to rollback
	}

	u.staged = nil
	u.releaseAll()

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

func (u *unitOfWork) releaseAll() {
	for i := len(u.held) - 1; i >= 0; i-- {
		u.store.locks.release(u.held[i])
	}
	u.held = nil
}

// compareLockKeys orders giveaway keys before account keys, then lexically.
// Units that add keys with Lock follow the same order.
func compareLockKeys(a, b service.LockKey) int {
	if ra, rb := lockRank(a), lockRank(b); ra != rb {
		return ra - rb
	}
	return strings.Compare(string(a), string(b))
}

func lockRank(key service.LockKey) int {
	if strings.HasPrefix(string(key), "giveaway:") {
		return 0
	}
	return 1
}

// requireKey rejects writes to entities this unit does not hold
func (u *unitOfWork) requireKey(key service.LockKey) error {
	if !slices.Contains(u.held, key) {
		return fmt.Errorf("write requires lock %s", key)
	}
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// GiveawayRepository returns the giveaway repository for this unit of work
func (u *unitOfWork) GiveawayRepository() service.GiveawayRepository {
	if u.giveawayRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.giveawayRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.balanceHistRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
