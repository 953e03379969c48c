package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"eve-hauler/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

// DefaultPath returns the database location: next to the working directory
// so the DB is stable across go run / go build, falling back to the
// executable directory for deployed builds.
func DefaultPath() string {
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "hauler.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "hauler.db")
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS stations (
				location_id INTEGER PRIMARY KEY,
				name        TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS watchlist (
				type_id         INTEGER PRIMARY KEY,
				type_name       TEXT NOT NULL,
				added_at        TEXT NOT NULL,
				alert_enabled   INTEGER NOT NULL DEFAULT 0,
				alert_metric    TEXT NOT NULL DEFAULT 'profit',
				alert_threshold REAL NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS scan_history (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp   TEXT NOT NULL,
				kind        TEXT NOT NULL,
				origin      TEXT NOT NULL,
				destination TEXT NOT NULL,
				count       INTEGER NOT NULL,
				top_profit  INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_scan_history_ts ON scan_history(timestamp);

			CREATE TABLE IF NOT EXISTS haul_results (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				scan_id         INTEGER NOT NULL REFERENCES scan_history(id),
				item_id         INTEGER,
				item            TEXT,
				from_label      TEXT,
				to_label        TEXT,
				quantity        INTEGER,
				buy_price       REAL,
				sell_price      REAL,
				profit          INTEGER,
				roi             REAL,
				profit_per_jump INTEGER,
				jumps           TEXT,
				from_location   TEXT,
				to_location     TEXT,
				score           REAL,
				risk_score      REAL,
				risk_level      TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_haul_scan ON haul_results(scan_id);
			CREATE INDEX IF NOT EXISTS idx_haul_item ON haul_results(item_id);

			CREATE TABLE IF NOT EXISTS alert_history (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				type_id       INTEGER NOT NULL,
				type_name     TEXT NOT NULL,
				metric        TEXT NOT NULL,
				threshold     REAL NOT NULL,
				current_value REAL NOT NULL,
				message       TEXT NOT NULL,
				channels_sent TEXT NOT NULL DEFAULT '[]',
				sent_at       TEXT NOT NULL,
				scan_id       INTEGER
			);
			CREATE INDEX IF NOT EXISTS idx_alert_history_type ON alert_history(type_id, metric, threshold);

			INSERT OR REPLACE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return err
		}
	}
	return nil
}
