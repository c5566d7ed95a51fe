package bot

import (
	"context"
	"sort"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/bot/features/admin"
	"pointsbot/bot/features/economy"
	"pointsbot/bot/features/games"
	"pointsbot/bot/features/giveaways"
	"pointsbot/service"

	log "github.com/sirupsen/logrus"
)

// HandlerFunc renders the reply for one command
type HandlerFunc func(ctx context.Context, req common.Request) string

// CommandRecorder counts handled commands
type CommandRecorder interface {
	RecordCommand(command string)
}

// Services bundles the core services the chat commands call
type Services struct {
	Ledger    service.LedgerService
	Games     service.GameService
	Referrals service.ReferralService
	Giveaways service.GiveawayService
	Admin     service.AdminService
	Clock     service.Clock
	// Metrics is optional
	Metrics CommandRecorder
}

type route struct {
	handler HandlerFunc
	usage   string
	admin   bool
}

// Router dispatches platform-neutral requests to the command features
type Router struct {
	ledger  service.LedgerService
	metrics CommandRecorder
	routes  map[string]route
}

// NewRouter wires every command feature
func NewRouter(s Services) *Router {
	economyFeature := economy.New(s.Ledger, s.Referrals)
	gamesFeature := games.New(s.Games)
	giveawaysFeature := giveaways.New(s.Giveaways, s.Clock)
	adminFeature := admin.New(s.Admin)

	r := &Router{
		ledger:  s.Ledger,
		metrics: s.Metrics,
		routes:  make(map[string]route),
	}

	r.register("start", economyFeature.HandleStart, "start - open your account", false)
	r.register("balance", economyFeature.HandleBalance, "balance - show your points", false)
	r.register("stats", economyFeature.HandleStats, "stats - your stats and rank", false)
	r.register("history", economyFeature.HandleHistory, "history - recent balance changes", false)
	r.register("checkin", economyFeature.HandleCheckIn, "checkin - claim the daily bonus", false)

	r.register("dice", gamesFeature.HandleDice, "dice <bet> - roll 4-5 for x2, 6 for x3", false)
	r.register("coin", gamesFeature.HandleCoin, "coin <heads|tails> <bet> - call it for x2", false)
	r.register("slots", gamesFeature.HandleSlots, "slots <bet> - three of a kind pays up to x20", false)

	r.register("giveaways", giveawaysFeature.HandleList, "giveaways - list open giveaways", false)
	r.register("join", giveawaysFeature.HandleJoin, "join <id> - enter a giveaway", false)
	r.register("giveaway", giveawaysFeature.HandleCreate, "giveaway <prize> <minutes> - start a giveaway", true)
	r.register("draw", giveawaysFeature.HandleDraw, "draw <id> - pick a giveaway winner", true)

	r.register("grant", adminFeature.HandleGrant, "grant <@user> <amount> - add points", true)
	r.register("revoke", adminFeature.HandleRevoke, "revoke <@user> <amount> - remove points", true)
	r.register("economy", adminFeature.HandleEconomy, "economy - aggregate statistics", true)
	r.register("broadcast", adminFeature.HandleBroadcast, "broadcast <text> - message every user", true)

	r.register("help", r.handleHelp, "help - list commands", false)

	return r
}

func (r *Router) register(command string, handler HandlerFunc, usage string, adminOnly bool) {
	r.routes[command] = route{handler: handler, usage: usage, admin: adminOnly}
}

// Handle renders the reply for a request. An empty reply means nothing should be sent.
func (r *Router) Handle(ctx context.Context, req common.Request) string {
	if req.Command == "" {
		return ""
	}

	rt, ok := r.routes[req.Command]
	if !ok {
		return "ℹ️ Unknown command. Use help for the list of commands."
	}

	// Keep the handle current so admin lookups by @handle resolve
	if req.Command != "start" && (req.DisplayName != "" || req.Handle != "") {
		if _, err := r.ledger.GetOrCreate(ctx, req.UserID, req.DisplayName, req.Handle); err != nil {
			log.WithFields(log.Fields{
				"user_id": req.UserID,
				"error":   err,
			}).Error("Failed to refresh account")
			return common.UserMessage(err)
		}
	}

	log.WithFields(log.Fields{
		"user_id": req.UserID,
		"command": req.Command,
	}).Debug("Handling command")
	if r.metrics != nil {
		r.metrics.RecordCommand(req.Command)
	}

	return rt.handler(ctx, req)
}

// Commands returns the registered command names in alphabetical order
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Router) handleHelp(ctx context.Context, req common.Request) string {
	var b strings.Builder
	b.WriteString("📖 Commands\n")
	var adminLines []string
	for _, name := range r.Commands() {
		rt := r.routes[name]
		if rt.admin {
			adminLines = append(adminLines, rt.usage)
			continue
		}
		b.WriteString("\n" + rt.usage)
	}
	b.WriteString("\n\nAdministrator\n")
	b.WriteString(strings.Join(adminLines, "\n"))
	return b.String()
}
