package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"pointsbot/models"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported chat platforms
const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

// Config holds all application configuration
type Config struct {
	// Transport configuration
	Platform      string `env:"PLATFORM" envDefault:"telegram"`
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	DiscordToken  string `env:"DISCORD_TOKEN"`

	// Economy configuration
	AdminUserID   int64 `env:"ADMIN_USER_ID"`
	StartingBonus int64 `env:"STARTING_BONUS" envDefault:"100"`
	CheckInBonus  int64 `env:"CHECKIN_BONUS" envDefault:"10"`
	ReferralBonus int64 `env:"REFERRAL_BONUS" envDefault:"50"`

	// Per-game bet bounds
	DiceMinBet  int64 `env:"DICE_MIN_BET" envDefault:"10"`
	DiceMaxBet  int64 `env:"DICE_MAX_BET" envDefault:"100"`
	CoinMinBet  int64 `env:"COIN_MIN_BET" envDefault:"5"`
	CoinMaxBet  int64 `env:"COIN_MAX_BET" envDefault:"50"`
	SlotsMinBet int64 `env:"SLOTS_MIN_BET" envDefault:"20"`
	SlotsMaxBet int64 `env:"SLOTS_MAX_BET" envDefault:"200"`

	// Timezone defines the calendar used for daily check-ins
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	// Giveaway expiry scan configuration
	GiveawayExpiryCheckInterval time.Duration `env:"GIVEAWAY_EXPIRY_CHECK_INTERVAL" envDefault:"1m"`

	// NATS configuration
	NATSServers string `env:"NATS_SERVERS"` // comma-separated, empty disables event forwarding

	// OpenTelemetry metrics configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"pointsbot"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"` // "console", "otlp" or "none"
	OTelOTLPEndpoint         string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"60000"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads configuration from a .env file, if present, and the environment
func Load() (*Config, error) {
	// Variables already set in the environment take precedence over .env
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings and the economy configuration
func (c *Config) Validate() error {
	if c.Environment != "test" {
		switch c.Platform {
		case PlatformTelegram:
			if c.TelegramToken == "" {
				return fmt.Errorf("TELEGRAM_TOKEN is required")
			}
		case PlatformDiscord:
			if c.DiscordToken == "" {
				return fmt.Errorf("DISCORD_TOKEN is required")
			}
		default:
			return fmt.Errorf("unsupported PLATFORM %q", c.Platform)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.GiveawayExpiryCheckInterval <= 0 {
		return fmt.Errorf("GIVEAWAY_EXPIRY_CHECK_INTERVAL must be positive")
	}
	if c.OTelEnabled {
		switch c.OTelExporterType {
		case "console", "otlp", "none":
		default:
			return fmt.Errorf("unsupported OTEL_EXPORTER_TYPE %q", c.OTelExporterType)
		}
		if c.OTelExportIntervalMillis <= 0 {
			return fmt.Errorf("OTEL_EXPORT_INTERVAL_MILLIS must be positive")
		}
	}
	if err := c.Economy().Validate(); err != nil {
		return fmt.Errorf("invalid economy configuration: %w", err)
	}
	return nil
}

// Economy returns the static configuration handed to the core services
func (c *Config) Economy() models.EconomyConfig {
	return models.EconomyConfig{
		StartingBonus: c.StartingBonus,
		CheckInBonus:  c.CheckInBonus,
		ReferralBonus: c.ReferralBonus,
		GameBounds: models.GameBounds{
			Dice:  models.BetBounds{Min: c.DiceMinBet, Max: c.DiceMaxBet},
			Coin:  models.BetBounds{Min: c.CoinMinBet, Max: c.CoinMaxBet},
			Slots: models.BetBounds{Min: c.SlotsMinBet, Max: c.SlotsMaxBet},
		},
		AdminUserID: c.AdminUserID,
	}
}

// Location resolves the check-in timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NATSServerList splits NATSServers into individual URLs
func (c *Config) NATSServerList() []string {
	var servers []string
	for _, s := range strings.Split(c.NATSServers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	return servers
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a config with the reference economy suitable for unit tests
func NewTestConfig() *Config {
	economy := models.DefaultEconomyConfig(999999)
	return &Config{
		Platform:                    PlatformTelegram,
		AdminUserID:                 economy.AdminUserID,
		StartingBonus:               economy.StartingBonus,
		CheckInBonus:                economy.CheckInBonus,
		ReferralBonus:               economy.ReferralBonus,
		DiceMinBet:                  economy.GameBounds.Dice.Min,
		DiceMaxBet:                  economy.GameBounds.Dice.Max,
		CoinMinBet:                  economy.GameBounds.Coin.Min,
		CoinMaxBet:                  economy.GameBounds.Coin.Max,
		SlotsMinBet:                 economy.GameBounds.Slots.Min,
		SlotsMaxBet:                 economy.GameBounds.Slots.Max,
		Timezone:                    "UTC",
		GiveawayExpiryCheckInterval: time.Minute,
		OTelServiceName:             "pointsbot-test",
		OTelExporterType:            "none",
		OTelExportIntervalMillis:    1000,
		LogLevel:                    "debug",
		Environment:                 "test",
	}
}
