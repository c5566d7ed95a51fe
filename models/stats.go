package models

// LeaderboardEntry represents one account in the top balances list
type LeaderboardEntry struct {
	Position    int
	UserID      int64
	DisplayName string
	Handle      string
	Balance     int64
}

// EconomySnapshot is a read-only aggregate over every account
type EconomySnapshot struct {
	TotalUsers        int
	TotalPoints       int64
	TotalGamesPlayed  int64
	OpenGiveawayCount int
	TopAccounts       []*LeaderboardEntry
}
