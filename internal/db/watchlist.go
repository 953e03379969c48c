package db

import (
	"time"

	"eve-hauler/internal/config"
)

// GetWatchlist returns all watchlist items, newest first.
func (d *DB) GetWatchlist() []config.WatchlistItem {
	rows, err := d.sql.Query(`
		SELECT type_id, type_name, added_at, alert_enabled, alert_metric, alert_threshold
		  FROM watchlist
		 ORDER BY added_at DESC
	`)
	if err != nil {
		return []config.WatchlistItem{}
	}
	defer rows.Close()

	var items []config.WatchlistItem
	for rows.Next() {
		var item config.WatchlistItem
		rows.Scan(
			&item.TypeID,
			&item.TypeName,
			&item.AddedAt,
			&item.AlertEnabled,
			&item.AlertMetric,
			&item.AlertThreshold,
		)
		if item.AlertMetric == "" {
			item.AlertMetric = "profit"
		}
		items = append(items, item)
	}
	if items == nil {
		return []config.WatchlistItem{}
	}
	return items
}

// AddWatchlistItem inserts or replaces a watchlist entry.
func (d *DB) AddWatchlistItem(item config.WatchlistItem) error {
	if item.AddedAt == "" {
		item.AddedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := d.sql.Exec(`
		INSERT OR REPLACE INTO watchlist
			(type_id, type_name, added_at, alert_enabled, alert_metric, alert_threshold)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.TypeID, item.TypeName, item.AddedAt,
		item.AlertEnabled, item.AlertMetric, item.AlertThreshold,
	)
	return err
}

// UpdateWatchlistItem updates the alert settings of an existing entry.
func (d *DB) UpdateWatchlistItem(item config.WatchlistItem) error {
	_, err := d.sql.Exec(`
		UPDATE watchlist
		   SET alert_enabled = ?, alert_metric = ?, alert_threshold = ?
		 WHERE type_id = ?`,
		item.AlertEnabled, item.AlertMetric, item.AlertThreshold, item.TypeID,
	)
	return err
}

// DeleteWatchlistItem removes a watchlist entry.
func (d *DB) DeleteWatchlistItem(typeID int32) error {
	_, err := d.sql.Exec("DELETE FROM watchlist WHERE type_id = ?", typeID)
	return err
}
