package observability

// Metric name prefixes
const (
	MetricPrefix = "pointsbot"
)

// Metric names
const (
	// Chat metrics
	CommandsHandledTotal = MetricPrefix + ".commands.handled_total"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"
	AccountsCreatedTotal     = MetricPrefix + ".accounts.created_total"

	// Game metrics
	GameRoundsTotal        = MetricPrefix + ".games.rounds_total"
	GamePointsWageredTotal = MetricPrefix + ".games.points_wagered_total"
	GamePointsPaidOutTotal = MetricPrefix + ".games.points_paid_out_total"

	// Giveaway metrics
	GiveawaysOpen       = MetricPrefix + ".giveaways.open"
	GiveawayEventsTotal = MetricPrefix + ".giveaways.events_total"
	ReferralsTotal      = MetricPrefix + ".referrals.applied_total"
)

// Label keys
const (
	LabelType    = "type"
	LabelCommand = "command"
	LabelGame    = "game"
	LabelOutcome = "outcome"
)

// Round outcomes
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
)

// Giveaway event kinds
const (
	GiveawayCreated   = "created"
	GiveawayDrawn     = "drawn"
	GiveawayCancelled = "cancelled"
	GiveawayExpired   = "expired"
)
