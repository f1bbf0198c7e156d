package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	LogLevel      string
	Env           string // dev|prod
	SentryDSN     string
	AdminEmail    string
	AdminPassword string
	SessionTTL    time.Duration
	BotToken      string // optional; enables Telegram score notifications
	NotifyChatID  int64  // announcement chat for posted scores
}

func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	var chatID int64
	if v := os.Getenv("NOTIFY_CHAT_ID"); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_CHAT_ID: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:   mustEnv("DATABASE_URL"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Env:           getenv("ENV", "dev"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		AdminEmail:    mustEnv("ADMIN_EMAIL"),
		AdminPassword: mustEnv("ADMIN_PASSWORD"),
		SessionTTL:    ttl,
		BotToken:      os.Getenv("BOT_TOKEN"),
		NotifyChatID:  chatID,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
