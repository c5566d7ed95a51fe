package common

import (
	"fmt"
	"strings"
	"time"

	"pointsbot/models"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	sign := ""
	if balance < 0 {
		sign = "-"
		balance = -balance
	}
	str := fmt.Sprintf("%d", balance)

	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatPoints formats an amount with its unit
func FormatPoints(amount int64) string {
	if amount == 1 {
		return "1 point"
	}
	return FormatBalance(amount) + " points"
}

var slotEmoji = map[models.SlotSymbol]string{
	models.SlotCherry: "🍒",
	models.SlotLemon:  "🍋",
	models.SlotGem:    "💎",
	models.SlotSeven:  "7️⃣",
}

// SlotEmoji returns the reel glyph for a symbol
func SlotEmoji(symbol models.SlotSymbol) string {
	if e, ok := slotEmoji[symbol]; ok {
		return e
	}
	return "❔"
}

var rankLabels = map[models.Rank]string{
	models.RankBronze:   "🥉 Bronze",
	models.RankSilver:   "🥈 Silver",
	models.RankGold:     "🥇 Gold",
	models.RankPlatinum: "💠 Platinum",
}

// RankLabel returns the display name of a tier
func RankLabel(rank models.Rank) string {
	if label, ok := rankLabels[rank]; ok {
		return label
	}
	return string(rank)
}

// FormatOutcome describes the random draw of a round
func FormatOutcome(result *models.RoundResult) string {
	switch result.Game {
	case models.GameDice:
		return fmt.Sprintf("🎲 You rolled a %d", result.Outcome.DiceRoll)
	case models.GameCoin:
		return fmt.Sprintf("🪙 The coin landed on %s (you picked %s)", result.Outcome.CoinFlip, result.Choice)
	case models.GameSlots:
		glyphs := make([]string, len(result.Outcome.Reels))
		for i, symbol := range result.Outcome.Reels {
			glyphs[i] = SlotEmoji(symbol)
		}
		return "🎰 [ " + strings.Join(glyphs, " | ") + " ]"
	default:
		return ""
	}
}

// FormatRoundResult formats the result of a game round
func FormatRoundResult(result *models.RoundResult) string {
	var b strings.Builder
	b.WriteString(FormatOutcome(result))
	b.WriteString("\n")
	if result.Won {
		fmt.Fprintf(&b, "🎉 You won %s (x%d)!", FormatPoints(result.Payout), result.Multiplier)
	} else {
		fmt.Fprintf(&b, "😔 You lost %s.", FormatPoints(result.Bet))
	}
	fmt.Fprintf(&b, "\nBalance: %s | Win rate: %d%%", FormatPoints(result.NewBalance), result.WinRate)
	return b.String()
}

// FormatDuration formats a remaining time span in minutes precision
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "less than a minute"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// FormatBounds formats a bet range
func FormatBounds(bounds models.BetBounds) string {
	return fmt.Sprintf("%s-%s", FormatBalance(bounds.Min), FormatBalance(bounds.Max))
}
