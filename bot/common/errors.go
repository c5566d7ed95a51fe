package common

import (
	"errors"

	"pointsbot/service"
)

// GenericErrorMessage is shown for failures the user cannot act on
const GenericErrorMessage = "⚠️ Something went wrong. Please try again."

var userMessages = []struct {
	err     error
	message string
}{
	{service.ErrInsufficientFunds, "❌ You don't have enough points for that."},
	{service.ErrInvalidBet, "❌ That bet is outside the allowed range."},
	{service.ErrInvalidChoice, "❌ Pick heads or tails."},
	{service.ErrInvalidAmount, "❌ The amount must be a positive number."},
	{service.ErrInvalidDuration, "❌ The duration must be a positive number of minutes."},
	{service.ErrEmptyMessage, "❌ The message cannot be empty."},
	{service.ErrAlreadyCheckedIn, "⏰ You already checked in today. Come back tomorrow!"},
	{service.ErrSelfReferral, "❌ You cannot refer yourself."},
	{service.ErrNotFound, "❌ Giveaway not found. It may have been drawn already."},
	{service.ErrAlreadyJoined, "ℹ️ You already joined this giveaway."},
	{service.ErrNotAuthorized, "⛔ Only the administrator can do that."},
	{service.ErrUserNotFound, "❌ User not found. They need to interact with the bot first."},
}

// UserMessage maps a service error to the text shown in chat
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return GenericErrorMessage
}
