package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pointsbot/models"
	"pointsbot/service"
)

// AccountRepository implements the AccountRepository interface on top of a
// unit of work's staged view of the store
type AccountRepository struct {
	uow *unitOfWork
}

func newAccountRepository(uow *unitOfWork) *AccountRepository {
	return &AccountRepository{uow: uow}
}

func (r *AccountRepository) lookup(userID int64) *models.Account {
	if staged, ok := r.uow.staged.accounts[userID]; ok {
		return staged.Clone()
	}
	return r.uow.store.account(userID)
}

// GetByUserID retrieves an account by user ID
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.lookup(userID), nil
}

// Create stages a new account. The account's Seq is assigned here.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.uow.requireKey(service.AccountLock(account.UserID)); err != nil {
		return err
	}
	if r.lookup(account.UserID) != nil {
		return fmt.Errorf("account %d already exists", account.UserID)
	}

	account.Seq = r.uow.store.nextSeq()
	r.uow.staged.accounts[account.UserID] = account.Clone()
	return nil
}

// Update stages the new state of an existing account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	if err := r.uow.requireKey(service.AccountLock(account.UserID)); err != nil {
		return err
	}
	if r.lookup(account.UserID) == nil {
		return fmt.Errorf("account %d not found", account.UserID)
	}

	r.uow.staged.accounts[account.UserID] = account.Clone()
	return nil
}

// FindByHandle scans for a case-insensitive handle match. When several
// accounts share a handle the first-created one wins.
func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (*models.Account, error) {
	if handle == "" {
		return nil, nil
	}

	accounts, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if strings.EqualFold(account.Handle, handle) {
			return account, nil
		}
	}
	return nil, nil
}

// GetAll returns every account ordered by creation
func (r *AccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := r.uow.store.allAccounts()
	for id, a := range r.uow.staged.accounts {
		merged[id] = a.Clone()
	}

	accounts := make([]*models.Account, 0, len(merged))
	for _, a := range merged {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Seq < accounts[j].Seq
	})
	return accounts, nil
}
