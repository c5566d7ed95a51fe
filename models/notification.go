package models

// NotificationKind identifies what a best-effort notification is about
type NotificationKind string

const (
	NotificationReferralBonus   NotificationKind = "referral_bonus"
	NotificationGiveawayWon     NotificationKind = "giveaway_won"
	NotificationGiveawayExpired NotificationKind = "giveaway_expired"
	NotificationBroadcast       NotificationKind = "broadcast"
)

// Notification is a structured message for a third party, rendered by the transport
type Notification struct {
	Kind         NotificationKind
	Amount       int64
	Balance      int64
	GiveawayID   string
	Participants int
	Text         string
}
