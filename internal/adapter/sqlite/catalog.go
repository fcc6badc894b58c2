// Package sqlite keeps a catalog of every station the import has seen.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/couchcryptid/usgs-station-import/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const upsertStation = `
	INSERT INTO stations (site_no, station_nm, first_seen, last_seen)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(site_no) DO UPDATE SET
		station_nm = excluded.station_nm,
		last_seen  = excluded.last_seen`

// Entry is one catalog row.
type Entry struct {
	ID        string
	Name      string
	FirstSeen string
	LastSeen  string
}

// Catalog upserts accepted stations within a single transaction per run.
// It implements pipeline.Loader and pipeline.Flusher.
type Catalog struct {
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	runDate string
	logger  *slog.Logger
}

// Open creates or opens the catalog database at path and applies migrations.
func Open(path string, logger *slog.Logger) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}

	c := &Catalog{db: db, runDate: domain.RunDate(), logger: logger}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}

	logger.Info("station catalog opened", "path", path)
	return c, nil
}

// Load upserts a station, stamping it with the run date.
func (c *Catalog) Load(ctx context.Context, s domain.Station) error {
	if c.tx == nil {
		if err := c.begin(ctx); err != nil {
			return err
		}
	}
	if _, err := c.stmt.ExecContext(ctx, s.ID, s.Name, c.runDate, c.runDate); err != nil {
		return fmt.Errorf("upsert station %s: %w", s.ID, err)
	}
	return nil
}

// Flush commits the stations loaded since the last flush.
func (c *Catalog) Flush(_ context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx, stmt := c.tx, c.stmt
	c.tx, c.stmt = nil, nil

	closeErr := stmt.Close()
	if err := tx.Commit(); err != nil {
		return errors.Join(fmt.Errorf("commit catalog: %w", err), closeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close upsert statement: %w", closeErr)
	}
	return nil
}

// Stations lists the catalog ordered by site number.
func (c *Catalog) Stations(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT site_no, station_nm, first_seen, last_seen FROM stations ORDER BY site_no`)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.FirstSeen, &e.LastSeen); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close rolls back anything not flushed and closes the database.
func (c *Catalog) Close() error {
	var txErr error
	if c.tx != nil {
		txErr = errors.Join(c.stmt.Close(), c.tx.Rollback())
		c.tx, c.stmt = nil, nil
	}
	return errors.Join(txErr, c.db.Close())
}

func (c *Catalog) begin(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, upsertStation)
	if err != nil {
		return errors.Join(fmt.Errorf("prepare upsert: %w", err), tx.Rollback())
	}
	c.tx, c.stmt = tx, stmt
	return nil
}

// dsn builds a SQLite URI filename. The path is percent-encoded so that
// characters such as '?' and '#' stay part of the file name.
func dsn(path string) string {
	escaped := (&url.URL{Path: path}).EscapedPath()
	return "file:" + escaped + "?_journal_mode=WAL&_busy_timeout=5000"
}
