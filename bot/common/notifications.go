package common

import (
	"fmt"

	"pointsbot/models"
)

// RenderNotification turns a structured notification into chat text
func RenderNotification(n models.Notification) string {
	switch n.Kind {
	case models.NotificationReferralBonus:
		return fmt.Sprintf("🎉 Someone joined using your referral link!\nYou earned %s. Balance: %s",
			FormatPoints(n.Amount), FormatPoints(n.Balance))
	case models.NotificationGiveawayWon:
		return fmt.Sprintf("🏆 You won giveaway %s and received %s!\nBalance: %s",
			n.GiveawayID, FormatPoints(n.Amount), FormatPoints(n.Balance))
	case models.NotificationGiveawayExpired:
		return fmt.Sprintf("⏰ Giveaway %s has ended with %d participant(s). Use draw %s to pick a winner.",
			n.GiveawayID, n.Participants, n.GiveawayID)
	case models.NotificationBroadcast:
		return "📢 " + n.Text
	default:
		return n.Text
	}
}
