package games

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/models"
	"pointsbot/service"

	log "github.com/sirupsen/logrus"
)

// HandleDice plays one dice round: dice <bet>
func (f *Feature) HandleDice(ctx context.Context, req common.Request) string {
	bet, err := common.ParseAmount(req.Arg(0))
	if err != nil {
		return f.usage(models.GameDice, "dice <bet>")
	}
	result, err := f.gameService.PlayDice(ctx, req.UserID, bet)
	return f.render(models.GameDice, req.UserID, result, err)
}

// HandleCoin plays one coin flip: coin <heads|tails> <bet>
func (f *Feature) HandleCoin(ctx context.Context, req common.Request) string {
	bet, err := common.ParseAmount(req.Arg(1))
	if err != nil || req.Arg(0) == "" {
		return f.usage(models.GameCoin, "coin <heads|tails> <bet>")
	}
	result, err := f.gameService.PlayCoin(ctx, req.UserID, models.CoinSide(strings.ToLower(req.Arg(0))), bet)
	return f.render(models.GameCoin, req.UserID, result, err)
}

// HandleSlots plays one slots spin: slots <bet>
func (f *Feature) HandleSlots(ctx context.Context, req common.Request) string {
	bet, err := common.ParseAmount(req.Arg(0))
	if err != nil {
		return f.usage(models.GameSlots, "slots <bet>")
	}
	result, err := f.gameService.PlaySlots(ctx, req.UserID, bet)
	return f.render(models.GameSlots, req.UserID, result, err)
}

func (f *Feature) usage(game models.GameType, syntax string) string {
	return fmt.Sprintf("Usage: %s (bet %s)", syntax, common.FormatBounds(f.gameService.Bounds(game)))
}

func (f *Feature) render(game models.GameType, userID int64, result *models.RoundResult, err error) string {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBet):
			return fmt.Sprintf("%s Bets for %s must be %s.", common.UserMessage(err), game, common.FormatBounds(f.gameService.Bounds(game)))
		case errors.Is(err, service.ErrInsufficientFunds), errors.Is(err, service.ErrInvalidChoice):
			return common.UserMessage(err)
		}
		log.WithFields(log.Fields{
			"user_id": userID,
			"game":    game,
			"error":   err,
		}).Error("Failed to play round")
		return common.UserMessage(err)
	}
	return common.FormatRoundResult(result)
}
