package bot

import (
	"context"
	"fmt"

	"pointsbot/config"
	"pointsbot/service"
)

// Platform is a chat transport: it routes commands and delivers notifications
type Platform interface {
	service.Notifier
	Run(ctx context.Context) error
}

// NewPlatform builds the transport selected by configuration
func NewPlatform(cfg *config.Config, router *Router) (Platform, error) {
	switch cfg.Platform {
	case config.PlatformTelegram:
		telegramBot, err := NewTelegramBot(cfg.TelegramToken, router)
		if err != nil {
			return nil, err
		}
		return telegramBot, nil
	case config.PlatformDiscord:
		discordBot, err := NewDiscordBot(cfg.DiscordToken, router)
		if err != nil {
			return nil, err
		}
		return discordBot, nil
	default:
		return nil, fmt.Errorf("unsupported platform %q", cfg.Platform)
	}
}
