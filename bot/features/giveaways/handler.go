package giveaways

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/service"

	log "github.com/sirupsen/logrus"
)

// HandleCreate announces a giveaway: giveaway <prize> <minutes>
func (f *Feature) HandleCreate(ctx context.Context, req common.Request) string {
	prize, err := common.ParseAmount(req.Arg(0))
	if err != nil {
		return "Usage: giveaway <prize> <minutes>"
	}
	minutes, err := common.ParseMinutes(req.Arg(1))
	if err != nil {
		return "Usage: giveaway <prize> <minutes>"
	}

	giveaway, err := f.giveawayService.Create(ctx, req.UserID, prize, minutes)
	if err != nil {
		f.logUnexpected(err, "Failed to create giveaway", req.UserID)
		return common.UserMessage(err)
	}

	return fmt.Sprintf("🎁 Giveaway %s started!\nPrize: %s\nEnds in: %s\nJoin with: join %s",
		giveaway.ID, common.FormatPoints(giveaway.PrizeAmount),
		common.FormatDuration(giveaway.EndsAt.Sub(f.clock.Now())), giveaway.ID)
}

// HandleJoin enters the caller into a giveaway: join <id>
func (f *Feature) HandleJoin(ctx context.Context, req common.Request) string {
	id := req.Arg(0)
	if id == "" {
		return "Usage: join <giveaway id>"
	}

	result, err := f.giveawayService.Join(ctx, id, req.UserID)
	if err != nil {
		f.logUnexpected(err, "Failed to join giveaway", req.UserID)
		return common.UserMessage(err)
	}

	return fmt.Sprintf("✅ You joined giveaway %s for %s. Participants: %d",
		result.GiveawayID, common.FormatPoints(result.PrizeAmount), result.ParticipantCount)
}

// HandleDraw picks a winner: draw <id>
func (f *Feature) HandleDraw(ctx context.Context, req common.Request) string {
	id := req.Arg(0)
	if id == "" {
		return "Usage: draw <giveaway id>"
	}

	result, err := f.giveawayService.Draw(ctx, id, req.UserID)
	if err != nil {
		f.logUnexpected(err, "Failed to draw giveaway", req.UserID)
		return common.UserMessage(err)
	}

	if result.Cancelled {
		return fmt.Sprintf("🚫 Giveaway %s was cancelled: nobody joined.", result.GiveawayID)
	}

	winner := result.WinnerName
	if winner == "" {
		winner = fmt.Sprintf("user %d", result.WinnerID)
	}
	return fmt.Sprintf("🏆 Giveaway %s winner: %s!\nPrize: %s (out of %d participants)",
		result.GiveawayID, winner, common.FormatPoints(result.PrizeAmount), result.ParticipantCount)
}

// HandleList shows every open giveaway
func (f *Feature) HandleList(ctx context.Context, req common.Request) string {
	giveaways, err := f.giveawayService.List(ctx)
	if err != nil {
		f.logUnexpected(err, "Failed to list giveaways", req.UserID)
		return common.UserMessage(err)
	}
	if len(giveaways) == 0 {
		return "🎁 No open giveaways right now."
	}

	now := f.clock.Now()
	var b strings.Builder
	b.WriteString("🎁 Open giveaways\n")
	for _, g := range giveaways {
		ends := "ended, awaiting draw"
		if !g.IsExpired(now) {
			ends = "ends in " + common.FormatDuration(g.EndsAt.Sub(now))
		}
		fmt.Fprintf(&b, "\n%s: %s, %d joined, %s", g.ID, common.FormatPoints(g.PrizeAmount), g.ParticipantCount(), ends)
	}
	return b.String()
}

func (f *Feature) logUnexpected(err error, msg string, userID int64) {
	for _, expected := range []error{
		service.ErrNotAuthorized, service.ErrInvalidAmount, service.ErrInvalidDuration,
		service.ErrNotFound, service.ErrAlreadyJoined,
	} {
		if errors.Is(err, expected) {
			return
		}
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"error":   err,
	}).Error(msg)
}
