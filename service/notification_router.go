package service

import (
	"context"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

// NotificationRouter turns committed events into best-effort notifications
// for users other than the one who acted
type NotificationRouter struct {
	notifier Notifier
}

// NewNotificationRouter creates a router delivering through notifier
func NewNotificationRouter(notifier Notifier) *NotificationRouter {
	return &NotificationRouter{notifier: notifier}
}

// Register subscribes the router to the events it turns into notifications
func (r *NotificationRouter) Register(bus EventSubscriber) {
	bus.Subscribe(events.EventTypeReferralApplied, r.HandleEvent)
	bus.Subscribe(events.EventTypeGiveawayDrawn, r.HandleEvent)
	bus.Subscribe(events.EventTypeGiveawayExpired, r.HandleEvent)
	bus.Subscribe(events.EventTypeBroadcastRequested, r.HandleEvent)
}

// HandleEvent dispatches one event. Delivery failures are logged and dropped.
func (r *NotificationRouter) HandleEvent(ctx context.Context, event events.Event) {
	switch e := event.(type) {
	case events.ReferralAppliedEvent:
		r.send(ctx, e.ReferrerID, models.Notification{
			Kind:    models.NotificationReferralBonus,
			Amount:  e.Bonus,
			Balance: e.ReferrerBalance,
		})

	case events.GiveawayDrawnEvent:
		r.send(ctx, e.WinnerID, models.Notification{
			Kind:       models.NotificationGiveawayWon,
			Amount:     e.PrizeAmount,
			Balance:    e.WinnerBalance,
			GiveawayID: e.GiveawayID,
		})

	case events.GiveawayExpiredEvent:
		r.send(ctx, e.CreatedBy, models.Notification{
			Kind:         models.NotificationGiveawayExpired,
			GiveawayID:   e.GiveawayID,
			Participants: e.ParticipantCount,
		})

	case events.BroadcastRequestedEvent:
		delivered := 0
		for _, userID := range e.Recipients {
			if r.send(ctx, userID, models.Notification{
				Kind: models.NotificationBroadcast,
				Text: e.Text,
			}) {
				delivered++
			}
		}
		log.WithFields(log.Fields{
			"recipients": len(e.Recipients),
			"delivered":  delivered,
		}).Info("Broadcast delivered")
	}
}

func (r *NotificationRouter) send(ctx context.Context, userID int64, n models.Notification) bool {
	if err := r.notifier.Notify(ctx, userID, n); err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"kind":    n.Kind,
			"error":   err,
		}).Debug("Notification not delivered")
		return false
	}
	return true
}
