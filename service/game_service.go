package service

import (
	"context"
	"fmt"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
	ledger     *ledger
	rng        RandomSource
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory, cfg models.EconomyConfig, clock Clock, rng RandomSource) GameService {
	return &gameService{
		uowFactory: uowFactory,
		ledger:     &ledger{cfg: cfg, clock: clock},
		rng:        rng,
	}
}

func (s *gameService) Bounds(game models.GameType) models.BetBounds {
	bounds, _ := s.ledger.cfg.GameBounds.For(game)
	return bounds
}

func (s *gameService) PlayDice(ctx context.Context, userID int64, bet int64) (*models.RoundResult, error) {
	return s.playRound(ctx, userID, models.GameDice, "", bet)
}

func (s *gameService) PlayCoin(ctx context.Context, userID int64, choice models.CoinSide, bet int64) (*models.RoundResult, error) {
	if _, ok := models.ParseCoinSide(string(choice)); !ok {
		return nil, fmt.Errorf("%w: %q is not heads or tails", ErrInvalidChoice, choice)
	}
	return s.playRound(ctx, userID, models.GameCoin, choice, bet)
}

func (s *gameService) PlaySlots(ctx context.Context, userID int64, bet int64) (*models.RoundResult, error) {
	return s.playRound(ctx, userID, models.GameSlots, "", bet)
}

// playRound debits the bet, draws, and credits any payout as one unit of work
func (s *gameService) playRound(ctx context.Context, userID int64, game models.GameType, choice models.CoinSide, bet int64) (*models.RoundResult, error) {
	bounds := s.Bounds(game)
	if !bounds.Contains(bet) {
		return nil, fmt.Errorf("%w: %s bets must be between %d and %d", ErrInvalidBet, game, bounds.Min, bounds.Max)
	}

	uow := s.uowFactory.Create(AccountLock(userID))
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := s.ledger.ensureAccount(ctx, uow, userID, "", "")
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"game": string(game),
		"bet":  bet,
	}

	// The draw only happens once the stake is taken
	if err := s.ledger.debit(ctx, uow, account, bet, models.TransactionTypeGameBet, metadata); err != nil {
		return nil, err
	}
	account.GamesPlayed++

	outcome, err := drawOutcome(s.rng, game)
	if err != nil {
		return nil, fmt.Errorf("failed to draw %s outcome: %w", game, err)
	}

	multiplier := resolveMultiplier(game, choice, outcome)
	payout := bet * multiplier
	if payout > 0 {
		account.GamesWon++
		account.TotalWinnings += payout
		if err := s.ledger.credit(ctx, uow, account, payout, models.TransactionTypeGameWin, metadata); err != nil {
			return nil, err
		}
	}

	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update game counters: %w", err)
	}

	result := &models.RoundResult{
		Game:       game,
		Bet:        bet,
		Choice:     choice,
		Outcome:    outcome,
		Multiplier: multiplier,
		Payout:     payout,
		Won:        payout > 0,
		NewBalance: account.Balance,
		WinRate:    account.WinRate(),
	}

	uow.EventBus().Publish(events.GameRoundEvent{
		UserID:     userID,
		Game:       game,
		Bet:        bet,
		Payout:     payout,
		Won:        result.Won,
		NewBalance: account.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"game":       game,
		"bet":        bet,
		"payout":     payout,
		"new_balance": account.Balance,
	}).Debug("Round resolved")

	return result, nil
}
