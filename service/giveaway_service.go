package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pointsbot/events"
	"pointsbot/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxIDAttempts bounds retries when a generated giveaway id is taken
const maxIDAttempts = 10

var errGiveawayIDTaken = errors.New("giveaway id taken")

// IDGenerator produces candidate giveaway identifiers
type IDGenerator func() string

// ShortID returns the first 8 hex characters of a random UUID
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

type giveawayService struct {
	uowFactory UnitOfWorkFactory
	ledger     *ledger
	rng        RandomSource
	newID      IDGenerator
}

// NewGiveawayService creates a new giveaway service. A nil newID uses ShortID.
func NewGiveawayService(uowFactory UnitOfWorkFactory, cfg models.EconomyConfig, clock Clock, rng RandomSource, newID IDGenerator) GiveawayService {
	if newID == nil {
		newID = ShortID
	}
	return &giveawayService{
		uowFactory: uowFactory,
		ledger:     &ledger{cfg: cfg, clock: clock},
		rng:        rng,
		newID:      newID,
	}
}

func (s *giveawayService) isAdmin(userID int64) bool {
	return userID == s.ledger.cfg.AdminUserID
}

func (s *giveawayService) Create(ctx context.Context, creatorID int64, prize int64, durationMinutes int) (*models.Giveaway, error) {
	if !s.isAdmin(creatorID) {
		return nil, ErrNotAuthorized
	}
	if prize <= 0 {
		return nil, fmt.Errorf("%w: prize must be positive", ErrInvalidAmount)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidDuration)
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		giveaway, err := s.tryCreate(ctx, id, creatorID, prize, time.Duration(durationMinutes)*time.Minute)
		if errors.Is(err, errGiveawayIDTaken) {
			log.WithField("giveaway_id", id).Debug("Giveaway id collision, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"giveaway_id": giveaway.ID,
			"prize":       prize,
			"ends_at":     giveaway.EndsAt,
		}).Info("Giveaway created")
		return giveaway, nil
	}

	return nil, fmt.Errorf("failed to allocate giveaway id after %d attempts", maxIDAttempts)
}

func (s *giveawayService) tryCreate(ctx context.Context, id string, creatorID int64, prize int64, duration time.Duration) (*models.Giveaway, error) {
	var giveaway *models.Giveaway
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{GiveawayLock(id)}, func(uow UnitOfWork) error {
		existing, err := uow.GiveawayRepository().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check giveaway id: %w", err)
		}
		if existing != nil {
			return errGiveawayIDTaken
		}

		now := s.ledger.clock.Now()
		giveaway = &models.Giveaway{
			ID:          id,
			PrizeAmount: prize,
			CreatedBy:   creatorID,
			CreatedAt:   now,
			EndsAt:      now.Add(duration),
		}
		if err := uow.GiveawayRepository().Create(ctx, giveaway); err != nil {
			return fmt.Errorf("failed to create giveaway: %w", err)
		}

		uow.EventBus().Publish(events.GiveawayCreatedEvent{
			GiveawayID:  id,
			PrizeAmount: prize,
			CreatedBy:   creatorID,
			EndsAt:      giveaway.EndsAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return giveaway, nil
}

func (s *giveawayService) Join(ctx context.Context, giveawayID string, userID int64) (*models.JoinResult, error) {
	var result *models.JoinResult
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{GiveawayLock(giveawayID)}, func(uow UnitOfWork) error {
		giveaway, err := uow.GiveawayRepository().GetByID(ctx, giveawayID)
		if err != nil {
			return fmt.Errorf("failed to get giveaway: %w", err)
		}
		if giveaway == nil {
			return ErrNotFound
		}
		if !giveaway.AddParticipant(userID) {
			return ErrAlreadyJoined
		}
		if err := uow.GiveawayRepository().Update(ctx, giveaway); err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}

		result = &models.JoinResult{
			GiveawayID:       giveaway.ID,
			ParticipantCount: giveaway.ParticipantCount(),
			PrizeAmount:      giveaway.PrizeAmount,
			EndsAt:           giveaway.EndsAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Draw picks a uniformly random participant and pays out the prize, or
// cancels the giveaway if nobody joined. The giveaway is removed either way.
func (s *giveawayService) Draw(ctx context.Context, giveawayID string, requesterID int64) (*models.DrawResult, error) {
	if !s.isAdmin(requesterID) {
		return nil, ErrNotAuthorized
	}

	var result *models.DrawResult
	err := withUnitOfWork(ctx, s.uowFactory, []LockKey{GiveawayLock(giveawayID)}, func(uow UnitOfWork) error {
		giveaway, err := uow.GiveawayRepository().GetByID(ctx, giveawayID)
		if err != nil {
			return fmt.Errorf("failed to get giveaway: %w", err)
		}
		if giveaway == nil {
			return ErrNotFound
		}

		result = &models.DrawResult{
			GiveawayID:       giveaway.ID,
			PrizeAmount:      giveaway.PrizeAmount,
			ParticipantCount: giveaway.ParticipantCount(),
		}

		if err := uow.GiveawayRepository().Delete(ctx, giveaway.ID); err != nil {
			return fmt.Errorf("failed to remove giveaway: %w", err)
		}

		if giveaway.ParticipantCount() == 0 {
			result.Cancelled = true
			uow.EventBus().Publish(events.GiveawayCancelledEvent{
				GiveawayID:  giveaway.ID,
				PrizeAmount: giveaway.PrizeAmount,
				CreatedBy:   giveaway.CreatedBy,
			})
			return nil
		}

		idx, err := s.rng.IntN(giveaway.ParticipantCount())
		if err != nil {
			return fmt.Errorf("failed to draw winner: %w", err)
		}
		winnerID := giveaway.Participants[idx]

		// Giveaway key is already held, so the account key comes second
		if err := uow.Lock(ctx, AccountLock(winnerID)); err != nil {
			return fmt.Errorf("failed to lock winner account: %w", err)
		}
		winner, err := s.ledger.ensureAccount(ctx, uow, winnerID, "", "")
		if err != nil {
			return err
		}
		if err := s.ledger.credit(ctx, uow, winner, giveaway.PrizeAmount, models.TransactionTypeGiveawayPrize, map[string]any{
			"giveaway_id": giveaway.ID,
		}); err != nil {
			return err
		}

		result.WinnerID = winnerID
		result.WinnerName = winner.DisplayName
		result.WinnerBalance = winner.Balance

		uow.EventBus().Publish(events.GiveawayDrawnEvent{
			GiveawayID:       giveaway.ID,
			PrizeAmount:      giveaway.PrizeAmount,
			WinnerID:         winnerID,
			WinnerBalance:    winner.Balance,
			ParticipantCount: giveaway.ParticipantCount(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"giveaway_id":  result.GiveawayID,
		"cancelled":    result.Cancelled,
		"winner_id":    result.WinnerID,
		"participants": result.ParticipantCount,
	}).Info("Giveaway drawn")

	return result, nil
}

func (s *giveawayService) List(ctx context.Context) ([]*models.Giveaway, error) {
	var giveaways []*models.Giveaway
	err := withUnitOfWork(ctx, s.uowFactory, nil, func(uow UnitOfWork) error {
		var err error
		giveaways, err = uow.GiveawayRepository().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list giveaways: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return giveaways, nil
}
