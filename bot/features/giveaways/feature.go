package giveaways

import (
	"pointsbot/service"
)

type Feature struct {
	giveawayService service.GiveawayService
	clock           service.Clock
}

func New(giveawayService service.GiveawayService, clock service.Clock) *Feature {
	return &Feature{
		giveawayService: giveawayService,
		clock:           clock,
	}
}
