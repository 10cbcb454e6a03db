package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Bot       BotConfig
	Sheets    SheetsConfig
	Mail      MailConfig
	AutoOrder AutoOrderConfig
	Server    ServerConfig
	Log       LogConfig
}

type BotConfig struct {
	Token    string
	AdminIDs []int64
}

type SheetsConfig struct {
	CredentialsFile string
	OrdersID        string
	StockID         string
}

type MailConfig struct {
	Address    string
	Password   string
	SMTPServer string
	SMTPPort   int
	Recipients []string
	Retries    int
}

type AutoOrderConfig struct {
	DailyCron string
}

type ServerConfig struct {
	Port int
}

type LogConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("MAIL_RETRIES", 3)
	viper.SetDefault("AUTO_ORDER_DAILY_CRON", "0 2 * * *")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "bot.log")

	adminIDs, err := parseAdminIDs(viper.GetString("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("parsing ADMIN_IDS: %w", err)
	}

	cfg := &Config{
		Bot: BotConfig{
			Token:    viper.GetString("BOT_TOKEN"),
			AdminIDs: adminIDs,
		},
		Sheets: SheetsConfig{
			CredentialsFile: viper.GetString("GSHEET_JSON"),
			OrdersID:        viper.GetString("GSHEET_ID_ORDERS"),
			StockID:         viper.GetString("GSHEET_ID_STOCK"),
		},
		Mail: MailConfig{
			Address:    viper.GetString("EMAIL_ADDRESS"),
			Password:   viper.GetString("EMAIL_PASSWORD"),
			SMTPServer: viper.GetString("SMTP_SERVER"),
			SMTPPort:   viper.GetInt("SMTP_PORT"),
			Recipients: splitList(viper.GetString("AUTO_ORDER_EMAIL")),
			Retries:    viper.GetInt("MAIL_RETRIES"),
		},
		AutoOrder: AutoOrderConfig{
			DailyCron: viper.GetString("AUTO_ORDER_DAILY_CRON"),
		},
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
			File:  viper.GetString("LOG_FILE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Sheets.CredentialsFile == "" {
		return fmt.Errorf("GSHEET_JSON is required")
	}
	if c.Sheets.OrdersID == "" || c.Sheets.StockID == "" {
		return fmt.Errorf("GSHEET_ID_ORDERS and GSHEET_ID_STOCK are required")
	}
	return nil
}

// IsAdmin reports whether the given chat identity belongs to the fixed
// administrator set.
func (c BotConfig) IsAdmin(id int64) bool {
	for _, admin := range c.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

func parseAdminIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
