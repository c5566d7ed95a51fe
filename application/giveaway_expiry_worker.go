package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pointsbot/events"
	"pointsbot/models"
	"pointsbot/service"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// GiveawayLister lists open giveaways
type GiveawayLister interface {
	List(ctx context.Context) ([]*models.Giveaway, error)
}

// GiveawayExpiryWorker periodically announces giveaways whose deadline has
// passed. It never draws or cancels; the draw stays an explicit admin action.
type GiveawayExpiryWorker struct {
	giveaways GiveawayLister
	publisher service.EventPublisher
	clock     service.Clock
	interval  time.Duration

	mu       sync.Mutex
	notified map[string]bool
}

// NewGiveawayExpiryWorker creates a new giveaway expiry worker
func NewGiveawayExpiryWorker(giveaways GiveawayLister, publisher service.EventPublisher, clock service.Clock, interval time.Duration) *GiveawayExpiryWorker {
	return &GiveawayExpiryWorker{
		giveaways: giveaways,
		publisher: publisher,
		clock:     clock,
		interval:  interval,
		notified:  make(map[string]bool),
	}
}

// Start schedules the expiry scan and returns a cleanup function
func (w *GiveawayExpiryWorker) Start(ctx context.Context) (func(), error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.CheckExpired(ctx); err != nil {
				log.WithError(err).Error("Giveaway expiry scan failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule giveaway expiry scan: %w", err)
	}

	sched.Start()
	log.WithField("interval", w.interval).Info("Giveaway expiry worker started")

	return func() {
		if err := sched.Shutdown(); err != nil {
			log.WithError(err).Warn("Giveaway expiry scheduler shutdown failed")
		}
		log.Info("Giveaway expiry worker stopped")
	}, nil
}

// CheckExpired publishes one expiry event per expired giveaway not yet
// announced and returns how many it published
func (w *GiveawayExpiryWorker) CheckExpired(ctx context.Context) (int, error) {
	giveaways, err := w.giveaways.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list giveaways: %w", err)
	}

	now := w.clock.Now()
	open := make(map[string]bool, len(giveaways))

	w.mu.Lock()
	defer w.mu.Unlock()

	published := 0
	for _, g := range giveaways {
		open[g.ID] = true
		if !g.IsExpired(now) || w.notified[g.ID] {
			continue
		}

		w.publisher.Publish(events.GiveawayExpiredEvent{
			GiveawayID:       g.ID,
			CreatedBy:        g.CreatedBy,
			EndsAt:           g.EndsAt,
			ParticipantCount: g.ParticipantCount(),
		})
		w.notified[g.ID] = true
		published++

		log.WithFields(log.Fields{
			"giveaway_id":  g.ID,
			"ends_at":      g.EndsAt,
			"participants": g.ParticipantCount(),
		}).Info("Giveaway deadline passed, draw is due")
	}

	// Forget giveaways that were drawn or cancelled
	for id := range w.notified {
		if !open[id] {
			delete(w.notified, id)
		}
	}

	return published, nil
}
