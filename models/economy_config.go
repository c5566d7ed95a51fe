package models

import (
	"errors"
	"fmt"
)

// BetBounds is the inclusive bet range for one game
type BetBounds struct {
	Min int64
	Max int64
}

// Contains reports whether bet lies within the bounds
func (b BetBounds) Contains(bet int64) bool {
	return bet >= b.Min && bet <= b.Max
}

// GameBounds holds the bet range for every game
type GameBounds struct {
	Dice  BetBounds
	Coin  BetBounds
	Slots BetBounds
}

// For returns the bounds configured for a game
func (g GameBounds) For(game GameType) (BetBounds, bool) {
	switch game {
	case GameDice:
		return g.Dice, true
	case GameCoin:
		return g.Coin, true
	case GameSlots:
		return g.Slots, true
	default:
		return BetBounds{}, false
	}
}

// EconomyConfig is the static configuration handed to the core at construction
type EconomyConfig struct {
	StartingBonus int64
	CheckInBonus  int64
	ReferralBonus int64
	GameBounds    GameBounds
	AdminUserID   int64
}

// DefaultEconomyConfig returns the reference economy settings
func DefaultEconomyConfig(adminUserID int64) EconomyConfig {
	return EconomyConfig{
		StartingBonus: 100,
		CheckInBonus:  10,
		ReferralBonus: 50,
		GameBounds: GameBounds{
			Dice:  BetBounds{Min: 10, Max: 100},
			Coin:  BetBounds{Min: 5, Max: 50},
			Slots: BetBounds{Min: 20, Max: 200},
		},
		AdminUserID: adminUserID,
	}
}

// Validate checks bonuses, bet ranges and the administrator id
func (c EconomyConfig) Validate() error {
	if c.StartingBonus < 0 || c.CheckInBonus < 0 || c.ReferralBonus < 0 {
		return errors.New("bonuses must not be negative")
	}
	if c.AdminUserID == 0 {
		return errors.New("admin user id is required")
	}
	for _, game := range AllGames {
		bounds, _ := c.GameBounds.For(game)
		if bounds.Min <= 0 || bounds.Min > bounds.Max {
			return fmt.Errorf("invalid bet bounds for %s: %d-%d", game, bounds.Min, bounds.Max)
		}
	}
	return nil
}
