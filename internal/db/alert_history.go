package db

import (
	"encoding/json"
	"time"
)

// AlertHistoryEntry represents a sent alert notification.
type AlertHistoryEntry struct {
	ID           int64    `json:"id"`
	TypeID       int32    `json:"type_id"`
	TypeName     string   `json:"type_name"`
	Metric       string   `json:"metric"`
	Threshold    float64  `json:"threshold"`
	CurrentValue float64  `json:"current_value"`
	Message      string   `json:"message"`
	ChannelsSent []string `json:"channels_sent"`
	SentAt       string   `json:"sent_at"`
	ScanID       int64    `json:"scan_id,omitempty"`
}

// SaveAlertHistory records a sent alert.
func (d *DB) SaveAlertHistory(entry AlertHistoryEntry) error {
	channelsJSON, _ := json.Marshal(entry.ChannelsSent)
	if entry.SentAt == "" {
		entry.SentAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := d.sql.Exec(`
		INSERT INTO alert_history (
			type_id, type_name, metric, threshold, current_value,
			message, channels_sent, sent_at, scan_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TypeID, entry.TypeName, entry.Metric, entry.Threshold, entry.CurrentValue,
		entry.Message, string(channelsJSON), entry.SentAt, entry.ScanID,
	)
	return err
}

// GetLastAlertTime returns when the same item/metric/threshold alert last
// fired, or the zero time if it never did. Used for cooldown checks.
func (d *DB) GetLastAlertTime(typeID int32, metric string, threshold float64) (time.Time, error) {
	var sentAt string
	err := d.sql.QueryRow(`
		SELECT sent_at FROM alert_history
		 WHERE type_id = ? AND metric = ? AND threshold = ?
		 ORDER BY id DESC LIMIT 1`,
		typeID, metric, threshold).Scan(&sentAt)
	if err != nil {
		return time.Time{}, nil // no prior alert
	}
	t, err := time.Parse(time.RFC3339, sentAt)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// GetAlertHistory returns recent alerts, newest first.
func (d *DB) GetAlertHistory(limit int) []AlertHistoryEntry {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(`
		SELECT id, type_id, type_name, metric, threshold, current_value,
		       message, channels_sent, sent_at, COALESCE(scan_id, 0)
		  FROM alert_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return []AlertHistoryEntry{}
	}
	defer rows.Close()

	var entries []AlertHistoryEntry
	for rows.Next() {
		var e AlertHistoryEntry
		var channelsJSON string
		rows.Scan(&e.ID, &e.TypeID, &e.TypeName, &e.Metric, &e.Threshold, &e.CurrentValue,
			&e.Message, &channelsJSON, &e.SentAt, &e.ScanID)
		json.Unmarshal([]byte(channelsJSON), &e.ChannelsSent)
		entries = append(entries, e)
	}
	if entries == nil {
		return []AlertHistoryEntry{}
	}
	return entries
}
