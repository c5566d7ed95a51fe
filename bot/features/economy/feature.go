package economy

import (
	"pointsbot/service"
)

// HistoryLimit is the number of journal entries shown by the history command
const HistoryLimit = 10

type Feature struct {
	ledgerService   service.LedgerService
	referralService service.ReferralService
}

func New(ledgerService service.LedgerService, referralService service.ReferralService) *Feature {
	return &Feature{
		ledgerService:   ledgerService,
		referralService: referralService,
	}
}
