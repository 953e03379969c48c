package db

import (
	"log"
	"time"

	"eve-hauler/internal/engine"
)

// ScanEntry is one recorded haul query run.
type ScanEntry struct {
	ID          int64  `json:"id"`
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"kind"` // station | region | nearby | watchlist
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Count       int    `json:"count"`
	TopProfit   int64  `json:"top_profit"`
}

// SaveScan records a query run and its results; returns the scan ID.
func (d *DB) SaveScan(kind, origin, destination string, results []engine.Record) int64 {
	var topProfit int64
	for _, r := range results {
		if r.Profit > topProfit {
			topProfit = r.Profit
		}
	}

	res, err := d.sql.Exec(`
		INSERT INTO scan_history (timestamp, kind, origin, destination, count, top_profit)
		VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), kind, origin, destination, len(results), topProfit,
	)
	if err != nil {
		log.Printf("[DB] SaveScan: %v", err)
		return 0
	}
	scanID, _ := res.LastInsertId()
	d.insertHaulResults(scanID, results)
	return scanID
}

// insertHaulResults bulk-inserts records linked to a scan history row.
func (d *DB) insertHaulResults(scanID int64, results []engine.Record) {
	if scanID == 0 || len(results) == 0 {
		return
	}

	tx, err := d.sql.Begin()
	if err != nil {
		log.Printf("[DB] insertHaulResults begin tx: %v", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO haul_results (
		scan_id, item_id, item, from_label, to_label, quantity,
		buy_price, sell_price, profit, roi, profit_per_jump, jumps,
		from_location, to_location, score, risk_score, risk_level
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		log.Printf("[DB] insertHaulResults prepare: %v", err)
		return
	}
	defer stmt.Close()

	for _, r := range results {
		stmt.Exec(
			scanID, r.ItemID, r.Item, r.From, r.TakeTo, r.Quantity,
			r.BuyPrice, r.SellPrice, r.Profit, r.ROI, r.ProfitPerJump, r.Jumps,
			r.FromLocation, r.ToLocation, r.Score, r.RiskScore, r.RiskLevel,
		)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[DB] insertHaulResults commit: %v", err)
	}
}

// GetScans returns recent scan history entries, newest first.
func (d *DB) GetScans(limit int) []ScanEntry {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(`
		SELECT id, timestamp, kind, origin, destination, count, top_profit
		  FROM scan_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return []ScanEntry{}
	}
	defer rows.Close()

	var entries []ScanEntry
	for rows.Next() {
		var e ScanEntry
		rows.Scan(&e.ID, &e.Timestamp, &e.Kind, &e.Origin, &e.Destination, &e.Count, &e.TopProfit)
		entries = append(entries, e)
	}
	if entries == nil {
		return []ScanEntry{}
	}
	return entries
}

// GetScan returns a single scan history entry.
func (d *DB) GetScan(id int64) (ScanEntry, bool) {
	var e ScanEntry
	err := d.sql.QueryRow(`
		SELECT id, timestamp, kind, origin, destination, count, top_profit
		  FROM scan_history WHERE id = ?`, id).
		Scan(&e.ID, &e.Timestamp, &e.Kind, &e.Origin, &e.Destination, &e.Count, &e.TopProfit)
	return e, err == nil
}

// GetScanResults retrieves the saved records for a scan.
func (d *DB) GetScanResults(scanID int64) []engine.Record {
	rows, err := d.sql.Query(`
		SELECT item_id, item, from_label, to_label, quantity,
		       buy_price, sell_price, profit, roi, profit_per_jump, jumps,
		       from_location, to_location, score, risk_score, risk_level
		  FROM haul_results WHERE scan_id = ?`, scanID)
	if err != nil {
		return []engine.Record{}
	}
	defer rows.Close()

	var results []engine.Record
	for rows.Next() {
		var r engine.Record
		rows.Scan(
			&r.ItemID, &r.Item, &r.From, &r.TakeTo, &r.Quantity,
			&r.BuyPrice, &r.SellPrice, &r.Profit, &r.ROI, &r.ProfitPerJump, &r.Jumps,
			&r.FromLocation, &r.ToLocation, &r.Score, &r.RiskScore, &r.RiskLevel,
		)
		results = append(results, r)
	}
	if results == nil {
		return []engine.Record{}
	}
	return results
}

// DeleteScan removes a scan and its results.
func (d *DB) DeleteScan(id int64) error {
	if _, err := d.sql.Exec("DELETE FROM haul_results WHERE scan_id = ?", id); err != nil {
		return err
	}
	_, err := d.sql.Exec("DELETE FROM scan_history WHERE id = ?", id)
	return err
}

// ClearScans removes all scan history.
func (d *DB) ClearScans() error {
	if _, err := d.sql.Exec("DELETE FROM haul_results"); err != nil {
		return err
	}
	_, err := d.sql.Exec("DELETE FROM scan_history")
	return err
}
