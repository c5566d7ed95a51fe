package service

import (
	"context"
	"fmt"
)

// withUnitOfWork runs fn inside a unit of work holding keys. The unit is
// committed when fn succeeds and rolled back otherwise.
func withUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, keys []LockKey, fn func(uow UnitOfWork) error) error {
	uow := factory.Create(keys...)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}
	return nil
}
