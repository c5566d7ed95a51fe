package events

import (
	"context"
	"sync"
	"time"

	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange      EventType = "balance_change"
	EventTypeAccountCreated     EventType = "account_created"
	EventTypeGameRound          EventType = "game_round"
	EventTypeReferralApplied    EventType = "referral_applied"
	EventTypeGiveawayCreated    EventType = "giveaway_created"
	EventTypeGiveawayDrawn      EventType = "giveaway_drawn"
	EventTypeGiveawayCancelled  EventType = "giveaway_cancelled"
	EventTypeGiveawayExpired    EventType = "giveaway_expired"
	EventTypeBroadcastRequested EventType = "broadcast_requested"
)

// AllEventTypes lists every event type the core publishes
var AllEventTypes = []EventType{
	EventTypeBalanceChange,
	EventTypeAccountCreated,
	EventTypeGameRound,
	EventTypeReferralApplied,
	EventTypeGiveawayCreated,
	EventTypeGiveawayDrawn,
	EventTypeGiveawayCancelled,
	EventTypeGiveawayExpired,
	EventTypeBroadcastRequested,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64                  `json:"user_id"`
	OldBalance      int64                  `json:"old_balance"`
	NewBalance      int64                  `json:"new_balance"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                  `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account
type AccountCreatedEvent struct {
	UserID         int64  `json:"user_id"`
	DisplayName    string `json:"display_name,omitempty"`
	Handle         string `json:"handle,omitempty"`
	InitialBalance int64  `json:"initial_balance"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// GameRoundEvent represents a resolved round of a mini-game
type GameRoundEvent struct {
	UserID     int64           `json:"user_id"`
	Game       models.GameType `json:"game"`
	Bet        int64           `json:"bet"`
	Payout     int64           `json:"payout"`
	Won        bool            `json:"won"`
	NewBalance int64           `json:"new_balance"`
}

func (e GameRoundEvent) Type() EventType {
	return EventTypeGameRound
}

// ReferralAppliedEvent represents a referral bonus credited to a referrer
type ReferralAppliedEvent struct {
	ReferrerID      int64 `json:"referrer_id"`
	NewUserID       int64 `json:"new_user_id"`
	Bonus           int64 `json:"bonus"`
	ReferrerBalance int64 `json:"referrer_balance"`
}

func (e ReferralAppliedEvent) Type() EventType {
	return EventTypeReferralApplied
}

// GiveawayCreatedEvent represents a newly announced giveaway
type GiveawayCreatedEvent struct {
	GiveawayID  string    `json:"giveaway_id"`
	PrizeAmount int64     `json:"prize_amount"`
	CreatedBy   int64     `json:"created_by"`
	EndsAt      time.Time `json:"ends_at"`
}

func (e GiveawayCreatedEvent) Type() EventType {
	return EventTypeGiveawayCreated
}

// GiveawayDrawnEvent represents a giveaway paid out to a winner
type GiveawayDrawnEvent struct {
	GiveawayID       string `json:"giveaway_id"`
	PrizeAmount      int64  `json:"prize_amount"`
	WinnerID         int64  `json:"winner_id"`
	WinnerBalance    int64  `json:"winner_balance"`
	ParticipantCount int    `json:"participant_count"`
}

func (e GiveawayDrawnEvent) Type() EventType {
	return EventTypeGiveawayDrawn
}

// GiveawayCancelledEvent represents a giveaway removed without payout
type GiveawayCancelledEvent struct {
	GiveawayID  string `json:"giveaway_id"`
	PrizeAmount int64  `json:"prize_amount"`
	CreatedBy   int64  `json:"created_by"`
}

func (e GiveawayCancelledEvent) Type() EventType {
	return EventTypeGiveawayCancelled
}

// GiveawayExpiredEvent signals that a giveaway's deadline passed and a draw is due
type GiveawayExpiredEvent struct {
	GiveawayID       string    `json:"giveaway_id"`
	CreatedBy        int64     `json:"created_by"`
	EndsAt           time.Time `json:"ends_at"`
	ParticipantCount int       `json:"participant_count"`
}

func (e GiveawayExpiredEvent) Type() EventType {
	return EventTypeGiveawayExpired
}

// BroadcastRequestedEvent carries an administrator's message for every known account
type BroadcastRequestedEvent struct {
	RequestedBy int64   `json:"requested_by"`
	Text        string  `json:"text"`
	Recipients  []int64 `json:"recipients"`
}

func (e BroadcastRequestedEvent) Type() EventType {
	return EventTypeBroadcastRequested
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds the same handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never blocks the emitter
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits the event immediately. It lets the bus stand in for a
// TransactionalBus where no unit of work is involved.
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the events queued so far
func (b *TransactionalBus) Pending() []Event {
	return append([]Event(nil), b.pending...)
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events to event bus")

	// Handlers outlive the request that produced the events
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
