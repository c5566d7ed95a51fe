package service

import (
	"fmt"

	"pointsbot/models"
)

// Payout multipliers for each game
const (
	DiceLowMultiplier  int64 = 2 // roll 4 or 5
	DiceHighMultiplier int64 = 3 // roll 6
	CoinMultiplier     int64 = 2
	SlotReelCount            = 3
)

// diceMultiplier maps a roll in [1,6] to its payout multiplier
func diceMultiplier(roll int) int64 {
	switch {
	case roll == 6:
		return DiceHighMultiplier
	case roll >= 4:
		return DiceLowMultiplier
	default:
		return 0
	}
}

// coinMultiplier pays out only when the call matches the flip
func coinMultiplier(choice, flip models.CoinSide) int64 {
	if choice == flip {
		return CoinMultiplier
	}
	return 0
}

// slotsMultiplier pays out on three of a kind only
func slotsMultiplier(reels []models.SlotSymbol) int64 {
	if len(reels) != SlotReelCount {
		return 0
	}
	for _, s := range reels[1:] {
		if s != reels[0] {
			return 0
		}
	}
	return reels[0].Multiplier()
}

// drawOutcome draws the random part of a round
func drawOutcome(rng RandomSource, game models.GameType) (models.Outcome, error) {
	switch game {
	case models.GameDice:
		n, err := rng.IntN(6)
		if err != nil {
			return models.Outcome{}, err
		}
		return models.Outcome{DiceRoll: n + 1}, nil

	case models.GameCoin:
		n, err := rng.IntN(len(models.CoinSides))
		if err != nil {
			return models.Outcome{}, err
		}
		return models.Outcome{CoinFlip: models.CoinSides[n]}, nil

	case models.GameSlots:
		reels := make([]models.SlotSymbol, SlotReelCount)
		for i := range reels {
			n, err := rng.IntN(len(models.SlotSymbols))
			if err != nil {
				return models.Outcome{}, err
			}
			reels[i] = models.SlotSymbols[n]
		}
		return models.Outcome{Reels: reels}, nil

	default:
		return models.Outcome{}, fmt.Errorf("unknown game %q", game)
	}
}

// resolveMultiplier computes the payout multiplier for a drawn outcome
func resolveMultiplier(game models.GameType, choice models.CoinSide, outcome models.Outcome) int64 {
	switch game {
	case models.GameDice:
		return diceMultiplier(outcome.DiceRoll)
	case models.GameCoin:
		return coinMultiplier(choice, outcome.CoinFlip)
	case models.GameSlots:
		return slotsMultiplier(outcome.Reels)
	default:
		return 0
	}
}
