package repository

import (
	"context"
	"fmt"
	"sort"

	"pointsbot/models"
	"pointsbot/service"
)

// GiveawayRepository implements the GiveawayRepository interface
type GiveawayRepository struct {
	uow *unitOfWork
}

func newGiveawayRepository(uow *unitOfWork) *GiveawayRepository {
	return &GiveawayRepository{uow: uow}
}

func (r *GiveawayRepository) lookup(id string) *models.Giveaway {
	if r.uow.staged.deletedGiveaways[id] {
		return nil
	}
	if staged, ok := r.uow.staged.giveaways[id]; ok {
		return staged.Clone()
	}
	return r.uow.store.giveaway(id)
}

// Create stages a new giveaway
func (r *GiveawayRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	if err := r.uow.requireKey(service.GiveawayLock(giveaway.ID)); err != nil {
		return err
	}
	if r.lookup(giveaway.ID) != nil {
		return fmt.Errorf("giveaway %s already exists", giveaway.ID)
	}

	giveaway.Seq = r.uow.store.nextSeq()
	delete(r.uow.staged.deletedGiveaways, giveaway.ID)
	r.uow.staged.giveaways[giveaway.ID] = giveaway.Clone()
	return nil
}

// GetByID retrieves an open giveaway, nil if none exists
func (r *GiveawayRepository) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.lookup(id), nil
}

// Update stages the new state of a giveaway
func (r *GiveawayRepository) Update(ctx context.Context, giveaway *models.Giveaway) error {
	if err := r.uow.requireKey(service.GiveawayLock(giveaway.ID)); err != nil {
		return err
	}
	if r.lookup(giveaway.ID) == nil {
		return fmt.Errorf("giveaway %s not found", giveaway.ID)
	}

	r.uow.staged.giveaways[giveaway.ID] = giveaway.Clone()
	return nil
}

// Delete stages removal of a giveaway
func (r *GiveawayRepository) Delete(ctx context.Context, id string) error {
	if err := r.uow.requireKey(service.GiveawayLock(id)); err != nil {
		return err
	}
	if r.lookup(id) == nil {
		return fmt.Errorf("giveaway %s not found", id)
	}

	delete(r.uow.staged.giveaways, id)
	r.uow.staged.deletedGiveaways[id] = true
	return nil
}

// GetAll returns every open giveaway ordered by creation
func (r *GiveawayRepository) GetAll(ctx context.Context) ([]*models.Giveaway, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := r.uow.store.allGiveaways()
	for id, g := range r.uow.staged.giveaways {
		merged[id] = g.Clone()
	}
	for id := range r.uow.staged.deletedGiveaways {
		delete(merged, id)
	}

	giveaways := make([]*models.Giveaway, 0, len(merged))
	for _, g := range merged {
		giveaways = append(giveaways, g)
	}
	sort.Slice(giveaways, func(i, j int) bool {
		return giveaways[i].Seq < giveaways[j].Seq
	})
	return giveaways, nil
}
