package sqlite

import "fmt"

// migrate creates the catalog schema if it doesn't exist.
func (c *Catalog) migrate() error {
	for i, stmt := range migrations {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stations (
		site_no    TEXT PRIMARY KEY,
		station_nm TEXT NOT NULL,
		first_seen TEXT NOT NULL,
		last_seen  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stations_last_seen ON stations(last_seen)`,
}
