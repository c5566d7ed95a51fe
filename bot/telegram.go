package bot

import (
	"context"
	"fmt"
	"strings"

	"pointsbot/bot/common"
	"pointsbot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// TelegramBot serves chat commands over Telegram long polling
type TelegramBot struct {
	api    *tgbotapi.BotAPI
	router *Router
}

// NewTelegramBot authenticates with the Bot API
func NewTelegramBot(token string, router *Router) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}

	log.WithField("username", api.Self.UserName).Info("Authorized on Telegram")

	return &TelegramBot{
		api:    api,
		router: router,
	}, nil
}

// Run consumes updates until ctx is cancelled
func (b *TelegramBot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *TelegramBot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	req, ok := telegramRequest(msg)
	if !ok {
		return
	}

	reply := b.router.Handle(ctx, req)
	if reply == "" {
		return
	}

	response := tgbotapi.NewMessage(msg.Chat.ID, reply)
	response.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(response); err != nil {
		log.WithFields(log.Fields{
			"chat_id": msg.Chat.ID,
			"command": req.Command,
			"error":   err,
		}).Error("Failed to send telegram reply")
	}
}

// Notify sends a private message. Telegram private chat ids equal user ids.
func (b *TelegramBot) Notify(ctx context.Context, userID int64, n models.Notification) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(userID, common.RenderNotification(n))); err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", userID, err)
	}
	return nil
}

// telegramRequest converts a command message; non-command messages are ignored
func telegramRequest(msg *tgbotapi.Message) (common.Request, bool) {
	if msg == nil || msg.From == nil || msg.From.IsBot || !msg.IsCommand() {
		return common.Request{}, false
	}

	req := common.Request{
		UserID:      msg.From.ID,
		DisplayName: strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName),
		Handle:      msg.From.UserName,
		Command:     common.NormalizeCommand(msg.Command(), "/"),
		Args:        strings.Fields(msg.CommandArguments()),
	}

	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil && !reply.From.IsBot {
		req.ReplyToUserID = reply.From.ID
	}

	return req, true
}
