package games

import (
	"pointsbot/service"
)

type Feature struct {
	gameService service.GameService
}

func New(gameService service.GameService) *Feature {
	return &Feature{
		gameService: gameService,
	}
}
