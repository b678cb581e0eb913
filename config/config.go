package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken    string
	OwnerTelegramID  int64
	AdminTelegramIDs []int64
	DatabasePath     string
	Timezone         *time.Location
	MorningTime      string
	WebhookURL       string
	ServerPort       string
	APIUsername      string
	APIPassword      string
	CalDAVURL        string
	CalDAVUsername   string
	CalDAVPassword   string
	CalDAVCalendar   string
}

func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	ownerID, err := strconv.ParseInt(os.Getenv("OWNER_TELEGRAM_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("OWNER_TELEGRAM_ID is required and must be a number")
	}

	var adminIDs []int64
	if raw := os.Getenv("ADMIN_TELEGRAM_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_IDS entry %q", part)
			}
			adminIDs = append(adminIDs, id)
		}
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/timelence.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Ho_Chi_Minh"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	morningTime := os.Getenv("MORNING_TIME")
	if morningTime == "" {
		morningTime = "07:00"
	}

	webhookURL := os.Getenv("WEBHOOK_URL")
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	return &Config{
		TelegramToken:    token,
		OwnerTelegramID:  ownerID,
		AdminTelegramIDs: adminIDs,
		DatabasePath:     dbPath,
		Timezone:         tz,
		MorningTime:      morningTime,
		WebhookURL:       webhookURL,
		ServerPort:       serverPort,
		APIUsername:      os.Getenv("API_USERNAME"),
		APIPassword:      os.Getenv("API_PASSWORD"),
		CalDAVURL:        os.Getenv("CALDAV_URL"),
		CalDAVUsername:   os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:   os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendar:   os.Getenv("CALDAV_CALENDAR"),
	}, nil
}

// IsAdminUser reports whether the Telegram ID belongs to an admin
func (c *Config) IsAdminUser(telegramID int64) bool {
	if telegramID == c.OwnerTelegramID {
		return true
	}
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
