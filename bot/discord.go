package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// DiscordCommandPrefix marks a message as a command
const DiscordCommandPrefix = "!"

// DiscordBot serves chat commands from Discord message events
type DiscordBot struct {
	session *discordgo.Session
	router  *Router
	ctx     context.Context
}

// NewDiscordBot creates the session; the websocket opens in Run
func NewDiscordBot(token string, router *Router) (*DiscordBot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	b := &DiscordBot{
		session: dg,
		router:  router,
		ctx:     context.Background(),
	}
	dg.AddHandler(b.handleMessageCreate)

	return b, nil
}

// Run opens the websocket and blocks until ctx is cancelled
func (b *DiscordBot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	log.Info("Connected to Discord")

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("error closing discord session: %w", err)
	}
	return nil
}

func (b *DiscordBot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	req, ok := discordRequest(m.Message, DiscordCommandPrefix)
	if !ok {
		return
	}

	reply := b.router.Handle(b.ctx, req)
	if reply == "" {
		return
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		log.WithFields(log.Fields{
			"channel_id": m.ChannelID,
			"command":    req.Command,
			"error":      err,
		}).Error("Failed to send discord reply")
	}
}

// Notify sends a direct message
func (b *DiscordBot) Notify(ctx context.Context, userID int64, n models.Notification) error {
	channel, err := b.session.UserChannelCreate(strconv.FormatInt(userID, 10))
	if err != nil {
		return fmt.Errorf("failed to open DM channel with %d: %w", userID, err)
	}
	if _, err := b.session.ChannelMessageSend(channel.ID, common.RenderNotification(n)); err != nil {
		return fmt.Errorf("failed to send DM to %d: %w", userID, err)
	}
	return nil
}

// discordRequest converts a prefixed message. The first mentioned user, or the
// author of the referenced message, is the explicit target; mention tokens are
// removed from the arguments.
func discordRequest(msg *discordgo.Message, prefix string) (common.Request, bool) {
	if msg == nil || msg.Author == nil || !strings.HasPrefix(msg.Content, prefix) {
		return common.Request{}, false
	}

	userID, err := strconv.ParseInt(msg.Author.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", msg.Author.ID, err)
		return common.Request{}, false
	}

	fields := strings.Fields(msg.Content)
	if len(fields) == 0 || fields[0] == prefix {
		return common.Request{}, false
	}

	displayName := msg.Author.GlobalName
	if displayName == "" {
		displayName = msg.Author.Username
	}

	req := common.Request{
		UserID:      userID,
		DisplayName: displayName,
		Handle:      msg.Author.Username,
		Command:     common.NormalizeCommand(fields[0], prefix),
	}

	for _, arg := range fields[1:] {
		if isMentionToken(arg) {
			continue
		}
		req.Args = append(req.Args, arg)
	}

	switch {
	case len(msg.Mentions) > 0:
		req.ReplyToUserID = parseUserID(msg.Mentions[0])
	case msg.ReferencedMessage != nil && msg.ReferencedMessage.Author != nil && !msg.ReferencedMessage.Author.Bot:
		req.ReplyToUserID = parseUserID(msg.ReferencedMessage.Author)
	}

	return req, true
}

func isMentionToken(s string) bool {
	return strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">")
}

func parseUserID(u *discordgo.User) int64 {
	if u == nil {
		return 0
	}
	id, err := strconv.ParseInt(u.ID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
