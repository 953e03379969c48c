package db

import (
	"strconv"

	"eve-hauler/internal/config"
)

// LoadConfig reads config from SQLite on top of the given bootstrap
// values. Keys never saved keep their bootstrap value.
func (d *DB) LoadConfig(base *config.Config) *config.Config {
	cfg := *base

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return &cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}
	if len(m) == 0 {
		return &cfg
	}

	if v, ok := m["min_profit"]; ok {
		cfg.MinProfit, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["min_roi"]; ok {
		cfg.MinROI, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["max_budget"]; ok {
		cfg.MaxBudget, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["cargo_capacity"]; ok {
		cfg.CargoCapacity, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["sales_tax_percent"]; ok {
		cfg.SalesTaxPercent, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["broker_fee_percent"]; ok {
		cfg.BrokerFeePercent, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["max_results"]; ok {
		cfg.MaxResults, _ = strconv.Atoi(v)
	}
	if v, ok := m["from_region_id"]; ok {
		id, _ := strconv.ParseInt(v, 10, 32)
		cfg.FromRegionID = int32(id)
	}
	if v, ok := m["to_region_id"]; ok {
		id, _ := strconv.ParseInt(v, 10, 32)
		cfg.ToRegionID = int32(id)
	}
	if v, ok := m["from_preference"]; ok {
		cfg.FromPreference = v
	}
	if v, ok := m["to_preference"]; ok {
		cfg.ToPreference = v
	}
	if v, ok := m["scan_cron"]; ok {
		cfg.ScanCron = v
	}
	if v, ok := m["alert_telegram"]; ok {
		cfg.AlertTelegram = v == "1"
	}
	if v, ok := m["alert_telegram_token"]; ok {
		cfg.AlertTelegramToken = v
	}
	if v, ok := m["alert_telegram_chat_id"]; ok {
		cfg.AlertTelegramChatID = v
	}
	if v, ok := m["alert_discord"]; ok {
		cfg.AlertDiscord = v == "1"
	}
	if v, ok := m["alert_discord_webhook"]; ok {
		cfg.AlertDiscordWebhook = v
	}
	return &cfg
}

// SaveConfig persists every config key to SQLite.
func (d *DB) SaveConfig(cfg *config.Config) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	boolVal := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}

	pairs := map[string]string{
		"min_profit":             strconv.FormatFloat(cfg.MinProfit, 'f', -1, 64),
		"min_roi":                strconv.FormatFloat(cfg.MinROI, 'f', -1, 64),
		"max_budget":             strconv.FormatFloat(cfg.MaxBudget, 'f', -1, 64),
		"cargo_capacity":         strconv.FormatFloat(cfg.CargoCapacity, 'f', -1, 64),
		"sales_tax_percent":      strconv.FormatFloat(cfg.SalesTaxPercent, 'f', -1, 64),
		"broker_fee_percent":     strconv.FormatFloat(cfg.BrokerFeePercent, 'f', -1, 64),
		"max_results":            strconv.Itoa(cfg.MaxResults),
		"from_region_id":         strconv.FormatInt(int64(cfg.FromRegionID), 10),
		"to_region_id":           strconv.FormatInt(int64(cfg.ToRegionID), 10),
		"from_preference":        cfg.FromPreference,
		"to_preference":          cfg.ToPreference,
		"scan_cron":              cfg.ScanCron,
		"alert_telegram":         boolVal(cfg.AlertTelegram),
		"alert_telegram_token":   cfg.AlertTelegramToken,
		"alert_telegram_chat_id": cfg.AlertTelegramChatID,
		"alert_discord":          boolVal(cfg.AlertDiscord),
		"alert_discord_webhook":  cfg.AlertDiscordWebhook,
	}
	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
