package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func telegramCommand(text string, commandLength int) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 10,
		From:      &tgbotapi.User{ID: 42, FirstName: "Ada", LastName: "Lovelace", UserName: "ada"},
		Chat:      &tgbotapi.Chat{ID: 42},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: commandLength}},
	}
}

func TestTelegramRequest_Command(t *testing.T) {
	req, ok := telegramRequest(telegramCommand("/coin heads 10", 5))
	require.True(t, ok)

	assert.Equal(t, int64(42), req.UserID)
	assert.Equal(t, "Ada Lovelace", req.DisplayName)
	assert.Equal(t, "ada", req.Handle)
	assert.Equal(t, "coin", req.Command)
	assert.Equal(t, []string{"heads", "10"}, req.Args)
	assert.Zero(t, req.ReplyToUserID)
}

func TestTelegramRequest_BotSuffixAndDeepLink(t *testing.T) {
	req, ok := telegramRequest(telegramCommand("/Start@points_bot 1234", 17))
	require.True(t, ok)

	assert.Equal(t, "start", req.Command)
	assert.Equal(t, []string{"1234"}, req.Args)
}

func TestTelegramRequest_ReplyTarget(t *testing.T) {
	msg := telegramCommand("/grant 50", 6)
	msg.ReplyToMessage = &tgbotapi.Message{From: &tgbotapi.User{ID: 7, FirstName: "Bob"}}

	req, ok := telegramRequest(msg)
	require.True(t, ok)

	assert.Equal(t, int64(7), req.ReplyToUserID)
	assert.Equal(t, []string{"50"}, req.Args)
}

func TestTelegramRequest_IgnoresReplyToBot(t *testing.T) {
	msg := telegramCommand("/grant 50", 6)
	msg.ReplyToMessage = &tgbotapi.Message{From: &tgbotapi.User{ID: 8, IsBot: true}}

	req, ok := telegramRequest(msg)
	require.True(t, ok)
	assert.Zero(t, req.ReplyToUserID)
}

func TestTelegramRequest_IgnoresPlainText(t *testing.T) {
	_, ok := telegramRequest(&tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Text: "hello"})
	assert.False(t, ok)

	_, ok = telegramRequest(nil)
	assert.False(t, ok)
}

func TestDiscordRequest_Command(t *testing.T) {
	req, ok := discordRequest(&discordgo.Message{
		Content: "!Dice 25",
		Author:  &discordgo.User{ID: "1001", Username: "ada", GlobalName: "Ada"},
	}, DiscordCommandPrefix)
	require.True(t, ok)

	assert.Equal(t, int64(1001), req.UserID)
	assert.Equal(t, "Ada", req.DisplayName)
	assert.Equal(t, "ada", req.Handle)
	assert.Equal(t, "dice", req.Command)
	assert.Equal(t, []string{"25"}, req.Args)
}

func TestDiscordRequest_MentionIsTarget(t *testing.T) {
	req, ok := discordRequest(&discordgo.Message{
		Content:  "!grant <@2002> 50",
		Author:   &discordgo.User{ID: "1001", Username: "admin"},
		Mentions: []*discordgo.User{{ID: "2002", Username: "bob"}},
	}, DiscordCommandPrefix)
	require.True(t, ok)

	assert.Equal(t, "admin", req.DisplayName)
	assert.Equal(t, int64(2002), req.ReplyToUserID)
	assert.Equal(t, []string{"50"}, req.Args)
}

func TestDiscordRequest_ReferencedMessageIsTarget(t *testing.T) {
	req, ok := discordRequest(&discordgo.Message{
		Content:           "!revoke 5",
		Author:            &discordgo.User{ID: "1001", Username: "admin"},
		ReferencedMessage: &discordgo.Message{Author: &discordgo.User{ID: "3003"}},
	}, DiscordCommandPrefix)
	require.True(t, ok)

	assert.Equal(t, int64(3003), req.ReplyToUserID)
}

func TestDiscordRequest_Ignored(t *testing.T) {
	author := &discordgo.User{ID: "1001", Username: "ada"}

	for _, content := range []string{"hello", "!", "! dice"} {
		_, ok := discordRequest(&discordgo.Message{Content: content, Author: author}, DiscordCommandPrefix)
		assert.False(t, ok, content)
	}

	_, ok := discordRequest(&discordgo.Message{Content: "!dice 10", Author: &discordgo.User{ID: "not-a-number"}}, DiscordCommandPrefix)
	assert.False(t, ok)
}
