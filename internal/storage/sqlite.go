// Package storage implements the local usage cache using SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/watthour/amber-tools/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore caches fetched usage records so repeated runs over the same
// date range don't hit the metering API again.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

const schema = `
CREATE TABLE IF NOT EXISTS usage_records (
	site_id          TEXT NOT NULL,
	channel_id       TEXT NOT NULL,
	start_time       TEXT NOT NULL,
	date             TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL,
	kwh              REAL NOT NULL,
	cost_cents       REAL NOT NULL,
	spot_per_kwh     REAL NOT NULL,
	channel_type     TEXT NOT NULL,
	period           TEXT NOT NULL,
	PRIMARY KEY (site_id, channel_id, start_time)
);
CREATE INDEX IF NOT EXISTS idx_usage_records_site_date ON usage_records(site_id, date);

CREATE TABLE IF NOT EXISTS fetched_days (
	site_id TEXT NOT NULL,
	date    TEXT NOT NULL,
	PRIMARY KEY (site_id, date)
);
`

// NewSQLiteStore opens (or creates) the cache database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveUsage stores the records and marks the given dates as fully fetched
// for the site. Records are upserted so overlapping fetches stay
// consistent.
func (s *SQLiteStore) SaveUsage(ctx context.Context, siteID string, days []time.Time, records []model.UsageRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO usage_records (
			site_id, channel_id, start_time, date, duration_minutes,
			kwh, cost_cents, spot_per_kwh, channel_type, period
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			siteID,
			r.ChannelID,
			r.StartTime.UTC().Format(time.RFC3339),
			r.Date.Format("2006-01-02"),
			r.DurationMinutes,
			r.KWH,
			r.CostCents,
			r.SpotPerKWH,
			string(r.ChannelType),
			string(r.Period),
		)
		if err != nil {
			return fmt.Errorf("failed to save usage record: %w", err)
		}
	}

	dayStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO fetched_days (site_id, date) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = dayStmt.Close() }()

	for _, d := range days {
		if _, err := dayStmt.ExecContext(ctx, siteID, d.Format("2006-01-02")); err != nil {
			return fmt.Errorf("failed to mark fetched day: %w", err)
		}
	}

	return tx.Commit()
}

// GetUsage returns the cached records for the site between start and end
// (inclusive), ordered by start time then channel.
func (s *SQLiteStore) GetUsage(ctx context.Context, siteID string, start, end time.Time) ([]model.UsageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT channel_id, start_time, date, duration_minutes,
		       kwh, cost_cents, spot_per_kwh, channel_type, period
		FROM usage_records
		WHERE site_id = ? AND date >= ? AND date <= ?
		ORDER BY start_time, channel_id
	`, siteID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.UsageRecord
	for rows.Next() {
		var r model.UsageRecord
		var startTime, date, channelType, period string
		if err := rows.Scan(&r.ChannelID, &startTime, &date, &r.DurationMinutes,
			&r.KWH, &r.CostCents, &r.SpotPerKWH, &channelType, &period); err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		if r.StartTime, err = time.Parse(time.RFC3339, startTime); err != nil {
			return nil, fmt.Errorf("corrupt start_time %q: %w", startTime, err)
		}
		if r.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("corrupt date %q: %w", date, err)
		}
		r.ChannelType = model.ChannelType(channelType)
		r.Period = model.TariffPeriod(period)
		records = append(records, r)
	}
	return records, rows.Err()
}

// MissingDays returns the dates in [start, end] not yet fetched for the
// site, ascending.
func (s *SQLiteStore) MissingDays(ctx context.Context, siteID string, start, end time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date FROM fetched_days WHERE site_id = ? AND date >= ? AND date <= ?`,
		siteID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query fetched days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	fetched := make(map[string]bool)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan fetched day: %w", err)
		}
		fetched[d] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !fetched[d.Format("2006-01-02")] {
			missing = append(missing, d)
		}
	}
	return missing, nil
}
