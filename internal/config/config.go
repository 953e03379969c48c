package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WatchlistItem represents an item being tracked for price alerts.
type WatchlistItem struct {
	TypeID         int32   `json:"type_id" yaml:"type_id"`
	TypeName       string  `json:"type_name" yaml:"type_name"`
	AddedAt        string  `json:"added_at" yaml:"added_at"`
	AlertEnabled   bool    `json:"alert_enabled" yaml:"alert_enabled"`
	AlertMetric    string  `json:"alert_metric" yaml:"alert_metric"`       // profit | roi | quantity | risk_score
	AlertThreshold float64 `json:"alert_threshold" yaml:"alert_threshold"` // threshold for selected metric
}

// Config holds application settings (in-memory representation).
// Bootstrap values come from an optional YAML file; persistence of
// user edits is handled by internal/db.
type Config struct {
	// Default haul query constraints.
	MinProfit        float64 `json:"min_profit" yaml:"min_profit"` // ISK
	MinROI           float64 `json:"min_roi" yaml:"min_roi"`       // percent
	MaxBudget        float64 `json:"max_budget" yaml:"max_budget"` // ISK
	CargoCapacity    float64 `json:"cargo_capacity" yaml:"cargo_capacity"` // m³
	SalesTaxPercent  float64 `json:"sales_tax_percent" yaml:"sales_tax_percent"`
	BrokerFeePercent float64 `json:"broker_fee_percent" yaml:"broker_fee_percent"`
	MaxResults       int     `json:"max_results" yaml:"max_results"`

	// Default query locations (region IDs; 0 = unset).
	FromRegionID   int32  `json:"from_region_id" yaml:"from_region_id"`
	ToRegionID     int32  `json:"to_region_id" yaml:"to_region_id"`
	FromPreference string `json:"from_preference" yaml:"from_preference"` // buy | sell
	ToPreference   string `json:"to_preference" yaml:"to_preference"`

	// Watchlist scan schedule (cron spec with seconds, see robfig/cron).
	ScanCron string `json:"scan_cron" yaml:"scan_cron"`

	// Alert channels.
	AlertTelegram       bool   `json:"alert_telegram" yaml:"alert_telegram"`
	AlertTelegramToken  string `json:"alert_telegram_token" yaml:"alert_telegram_token"`
	AlertTelegramChatID string `json:"alert_telegram_chat_id" yaml:"alert_telegram_chat_id"`
	AlertDiscord        bool   `json:"alert_discord" yaml:"alert_discord"`
	AlertDiscordWebhook string `json:"alert_discord_webhook" yaml:"alert_discord_webhook"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		MinProfit:        100000,
		MinROI:           5,
		MaxBudget:        1000000000,
		CargoCapacity:    5000,
		SalesTaxPercent:  8,
		BrokerFeePercent: 0,
		MaxResults:       100,
		FromRegionID:     10000002, // The Forge
		ToRegionID:       10000043, // Domain
		FromPreference:   "sell",
		ToPreference:     "buy",
		ScanCron:         "0 */15 * * * *",
	}
}

// Load reads config from a YAML file (if present), then applies
// environment variable overrides on top of defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("HAULER_TELEGRAM_TOKEN"); v != "" {
		cfg.AlertTelegramToken = v
		cfg.AlertTelegram = true
	}
	if v := os.Getenv("HAULER_TELEGRAM_CHAT_ID"); v != "" {
		cfg.AlertTelegramChatID = v
	}
	if v := os.Getenv("HAULER_DISCORD_WEBHOOK"); v != "" {
		cfg.AlertDiscordWebhook = v
		cfg.AlertDiscord = true
	}
	if v := os.Getenv("HAULER_SCAN_CRON"); v != "" {
		cfg.ScanCron = v
	}
	if v := os.Getenv("HAULER_SALES_TAX"); v != "" {
		if tax, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SalesTaxPercent = tax
		}
	}

	return cfg, nil
}
