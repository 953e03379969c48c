package db

// GetStation returns a cached station name. Implements esi.StationStore.
func (d *DB) GetStation(locationID int64) (string, bool) {
	var name string
	err := d.sql.QueryRow("SELECT name FROM stations WHERE location_id = ?", locationID).Scan(&name)
	if err != nil {
		return "", false
	}
	return name, true
}

// SetStation stores a station name in the persistent cache.
func (d *DB) SetStation(locationID int64, name string) {
	d.sql.Exec("INSERT OR REPLACE INTO stations (location_id, name) VALUES (?, ?)", locationID, name)
}
