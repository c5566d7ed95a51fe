package admin

import (
	"context"
	"fmt"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/models"
	"pointsbot/service"

	log "github.com/sirupsen/logrus"
)

type adjustFunc func(ctx context.Context, requesterID, targetID int64, amount int64) (*models.AdjustResult, error)

// HandleGrant adds points: grant <@user|reply> <amount>
func (f *Feature) HandleGrant(ctx context.Context, req common.Request) string {
	return f.adjust(ctx, req, "grant", f.adminService.Grant)
}

// HandleRevoke removes points, never below zero: revoke <@user|reply> <amount>
func (f *Feature) HandleRevoke(ctx context.Context, req common.Request) string {
	return f.adjust(ctx, req, "revoke", f.adminService.Revoke)
}

func (f *Feature) adjust(ctx context.Context, req common.Request, verb string, apply adjustFunc) string {
	if !f.adminService.IsAdmin(req.UserID) {
		return common.UserMessage(service.ErrNotAuthorized)
	}

	handle, rawAmount := req.Arg(0), req.Arg(1)
	if req.ReplyToUserID != 0 && len(req.Args) == 1 {
		handle, rawAmount = "", req.Arg(0)
	}
	amount, err := common.ParseAmount(rawAmount)
	if err != nil {
		return fmt.Sprintf("Usage: %s <@user> <amount>, or reply to a message with %s <amount>", verb, verb)
	}

	targetID, err := f.adminService.ResolveTarget(ctx, req.ReplyToUserID, handle)
	if err != nil {
		return common.UserMessage(err)
	}

	result, err := apply(ctx, req.UserID, targetID, amount)
	if err != nil {
		log.WithFields(log.Fields{
			"requester_id": req.UserID,
			"target_id":    targetID,
			"amount":       amount,
			"error":        err,
		}).Warn("Admin adjustment failed")
		return common.UserMessage(err)
	}

	target := targetLabel(handle, targetID)
	if verb == "grant" {
		return fmt.Sprintf("✅ Granted %s to %s. New balance: %s",
			common.FormatPoints(result.Applied), target, common.FormatPoints(result.NewBalance))
	}

	removed, requested := -result.Applied, -result.Requested
	msg := fmt.Sprintf("✅ Revoked %s from %s. New balance: %s",
		common.FormatPoints(removed), target, common.FormatPoints(result.NewBalance))
	if removed != requested {
		msg += fmt.Sprintf(" (requested %s, balance cannot go below zero)", common.FormatPoints(requested))
	}
	return msg
}

// HandleEconomy shows aggregate statistics
func (f *Feature) HandleEconomy(ctx context.Context, req common.Request) string {
	if !f.adminService.IsAdmin(req.UserID) {
		return common.UserMessage(service.ErrNotAuthorized)
	}

	snapshot, err := f.adminService.SnapshotStats(ctx)
	if err != nil {
		log.Errorf("Error building economy snapshot: %v", err)
		return common.UserMessage(err)
	}

	var b strings.Builder
	b.WriteString("📈 Economy\n\n")
	fmt.Fprintf(&b, "• Users: %d\n", snapshot.TotalUsers)
	fmt.Fprintf(&b, "• Points in circulation: %s\n", common.FormatBalance(snapshot.TotalPoints))
	fmt.Fprintf(&b, "• Games played: %d\n", snapshot.TotalGamesPlayed)
	fmt.Fprintf(&b, "• Open giveaways: %d", snapshot.OpenGiveawayCount)
	if len(snapshot.TopAccounts) > 0 {
		b.WriteString("\n\n🏅 Top balances")
		for _, entry := range snapshot.TopAccounts {
			fmt.Fprintf(&b, "\n%d. %s: %s", entry.Position, entryLabel(entry), common.FormatPoints(entry.Balance))
		}
	}
	return b.String()
}

// HandleBroadcast sends a message to every known user: broadcast <text>
func (f *Feature) HandleBroadcast(ctx context.Context, req common.Request) string {
	result, err := f.adminService.Broadcast(ctx, req.UserID, req.Text())
	if err != nil {
		return common.UserMessage(err)
	}
	return fmt.Sprintf("📢 Broadcast queued for %d user(s).", result.Recipients)
}

func targetLabel(handle string, userID int64) string {
	if handle = strings.TrimPrefix(strings.TrimSpace(handle), "@"); handle != "" {
		return "@" + handle
	}
	return fmt.Sprintf("user %d", userID)
}

func entryLabel(entry *models.LeaderboardEntry) string {
	switch {
	case entry.DisplayName != "":
		return entry.DisplayName
	case entry.Handle != "":
		return "@" + entry.Handle
	default:
		return fmt.Sprintf("user %d", entry.UserID)
	}
}
