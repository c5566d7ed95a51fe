package economy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/service"

	log "github.com/sirupsen/logrus"
)

// HandleStart greets the user and applies a referral when a referrer id is supplied
func (f *Feature) HandleStart(ctx context.Context, req common.Request) string {
	account, err := f.ledgerService.GetOrCreate(ctx, req.UserID, req.DisplayName, req.Handle)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id": req.UserID,
			"error":   err,
		}).Error("Failed to get or create account")
		return common.UserMessage(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎮 Welcome, %s!\n\n", displayName(req))
	fmt.Fprintf(&b, "Your balance: %s\n\n", common.FormatPoints(account.Balance))
	b.WriteString("Earn points with checkin, play dice, coin and slots, and join giveaways.\n")
	fmt.Fprintf(&b, "Invite friends with your referral code: %d", req.UserID)

	if ref := req.Arg(0); ref != "" {
		referrerID, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return b.String()
		}
		if _, err := f.referralService.ApplyReferral(ctx, referrerID, req.UserID); err != nil {
			if errors.Is(err, service.ErrSelfReferral) {
				return b.String() + "\n\n" + common.UserMessage(err)
			}
			log.WithFields(log.Fields{
				"referrer_id": referrerID,
				"new_user_id": req.UserID,
				"error":       err,
			}).Warn("Failed to apply referral")
		}
	}

	return b.String()
}

// HandleBalance shows the caller's balance
func (f *Feature) HandleBalance(ctx context.Context, req common.Request) string {
	account, err := f.ledgerService.GetOrCreate(ctx, req.UserID, req.DisplayName, req.Handle)
	if err != nil {
		log.Errorf("Error getting account %d: %v", req.UserID, err)
		return common.UserMessage(err)
	}
	return fmt.Sprintf("💰 %s, your current balance: %s", displayName(req), common.FormatPoints(account.Balance))
}

// HandleStats shows the account view with win rate and rank
func (f *Feature) HandleStats(ctx context.Context, req common.Request) string {
	if _, err := f.ledgerService.GetOrCreate(ctx, req.UserID, req.DisplayName, req.Handle); err != nil {
		log.Errorf("Error getting account %d: %v", req.UserID, err)
		return common.UserMessage(err)
	}

	stats, err := f.ledgerService.GetAccountStats(ctx, req.UserID)
	if err != nil {
		log.Errorf("Error getting stats for %d: %v", req.UserID, err)
		return common.UserMessage(err)
	}

	account := stats.Account
	var b strings.Builder
	b.WriteString("📊 Your Stats\n\n")
	if account.Handle != "" {
		fmt.Fprintf(&b, "• Username: @%s\n", account.Handle)
	}
	fmt.Fprintf(&b, "• Points: %s\n", common.FormatBalance(account.Balance))
	fmt.Fprintf(&b, "• Referrals: %d\n", account.ReferralCount)
	fmt.Fprintf(&b, "• Games: %d played, %d won (%d%%)\n", account.GamesPlayed, account.GamesWon, stats.WinRate)
	fmt.Fprintf(&b, "• Total winnings: %s\n", common.FormatBalance(account.TotalWinnings))
	fmt.Fprintf(&b, "• Joined: %s\n", account.JoinedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "• Rank: %s", common.RankLabel(stats.Rank))
	return b.String()
}

// HandleHistory lists the most recent balance changes
func (f *Feature) HandleHistory(ctx context.Context, req common.Request) string {
	entries, err := f.ledgerService.History(ctx, req.UserID, HistoryLimit)
	if err != nil {
		log.Errorf("Error getting history for %d: %v", req.UserID, err)
		return common.UserMessage(err)
	}
	if len(entries) == 0 {
		return "📜 No balance changes yet."
	}

	var b strings.Builder
	b.WriteString("📜 Recent activity\n")
	for _, entry := range entries {
		sign := "+"
		if entry.ChangeAmount < 0 {
			sign = ""
		}
		fmt.Fprintf(&b, "\n%s  %s%s  %s → %s",
			strings.ReplaceAll(string(entry.TransactionType), "_", " "),
			sign, common.FormatBalance(entry.ChangeAmount),
			common.FormatBalance(entry.BalanceBefore), common.FormatBalance(entry.BalanceAfter))
	}
	return b.String()
}

// HandleCheckIn grants the daily bonus
func (f *Feature) HandleCheckIn(ctx context.Context, req common.Request) string {
	result, err := f.ledgerService.CheckIn(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, service.ErrAlreadyCheckedIn) {
			log.Errorf("Error checking in %d: %v", req.UserID, err)
		}
		return common.UserMessage(err)
	}
	return fmt.Sprintf("✅ Daily check-in complete! +%s\nBalance: %s",
		common.FormatPoints(result.Bonus), common.FormatPoints(result.NewBalance))
}

func displayName(req common.Request) string {
	if req.DisplayName != "" {
		return req.DisplayName
	}
	if req.Handle != "" {
		return "@" + req.Handle
	}
	return "there"
}
