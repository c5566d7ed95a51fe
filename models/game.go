package models

// GameType identifies one of the mini-games
type GameType string

const (
	GameDice  GameType = "dice"
	GameCoin  GameType = "coin"
	GameSlots GameType = "slots"
)

// AllGames lists every game in display order
var AllGames = []GameType{GameDice, GameCoin, GameSlots}

// CoinSide is one face of the coin
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// CoinSides is the draw alphabet for the coin flip
var CoinSides = []CoinSide{CoinHeads, CoinTails}

// ParseCoinSide converts user input into a side
func ParseCoinSide(s string) (CoinSide, bool) {
	switch CoinSide(s) {
	case CoinHeads, CoinTails:
		return CoinSide(s), true
	default:
		return "", false
	}
}

// SlotSymbol is a symbol on a slot reel
type SlotSymbol string

const (
	SlotCherry SlotSymbol = "cherry"
	SlotLemon  SlotSymbol = "lemon"
	SlotGem    SlotSymbol = "gem"
	SlotSeven  SlotSymbol = "seven"
)

// SlotSymbols is the reel alphabet
var SlotSymbols = []SlotSymbol{SlotCherry, SlotLemon, SlotGem, SlotSeven}

// Multiplier returns the three-of-a-kind payout multiplier for the symbol
func (s SlotSymbol) Multiplier() int64 {
	switch s {
	case SlotCherry:
		return 3
	case SlotLemon:
		return 5
	case SlotGem:
		return 10
	case SlotSeven:
		return 20
	default:
		return 0
	}
}

// Outcome is the random draw of a round, only the field for the played game is set
type Outcome struct {
	DiceRoll int
	CoinFlip CoinSide
	Reels    []SlotSymbol
}

// RoundResult represents the outcome of one resolved round (returned to the user)
type RoundResult struct {
	Game       GameType
	Bet        int64
	Choice     CoinSide
	Outcome    Outcome
	Multiplier int64
	Payout     int64
	Won        bool
	NewBalance int64
	WinRate    int
}

// NetChange is the balance delta produced by the round
func (r *RoundResult) NetChange() int64 {
	return r.Payout - r.Bet
}
