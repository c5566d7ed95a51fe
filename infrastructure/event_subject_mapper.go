package infrastructure

import (
	"fmt"

	"pointsbot/events"
)

// DomainEventStream is the JetStream stream holding forwarded events
const DomainEventStream = "economy_events"

var subjectsByType = map[events.EventType]string{
	events.EventTypeBalanceChange:      "economy.accounts.balance_changed",
	events.EventTypeAccountCreated:     "economy.accounts.created",
	events.EventTypeGameRound:          "economy.games.round_resolved",
	events.EventTypeReferralApplied:    "economy.referrals.applied",
	events.EventTypeGiveawayCreated:    "economy.giveaways.created",
	events.EventTypeGiveawayDrawn:      "economy.giveaways.drawn",
	events.EventTypeGiveawayCancelled:  "economy.giveaways.cancelled",
	events.EventTypeGiveawayExpired:    "economy.giveaways.expired",
	events.EventTypeBroadcastRequested: "economy.admin.broadcast_requested",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("economy.unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects this service publishes to, in event type order
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, subjectsByType[eventType])
	}
	return subjects
}
