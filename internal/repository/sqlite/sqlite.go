// Package sqlite implements repository.Repository on an embedded SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/JunHCha/networkst/internal/domain"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS discovery_runs (
		id TEXT PRIMARY KEY,
		device_ip TEXT NOT NULL,
		hostname TEXT,
		cdp JSON NOT NULL,
		lldp JSON NOT NULL,
		neighbors JSON NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_device ON discovery_runs(device_ip, started_at DESC);
	`
	_, err := r.db.Exec(schema)
	return err
}

// SaveRun persists a completed discovery run
func (r *Repository) SaveRun(ctx context.Context, run *domain.DiscoveryRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	cdp, err := marshalJSON(run.CDP)
	if err != nil {
		return fmt.Errorf("marshal cdp entries: %w", err)
	}
	lldp, err := marshalJSON(run.LLDP)
	if err != nil {
		return fmt.Errorf("marshal lldp entries: %w", err)
	}
	neighbors, err := marshalJSON(run.Neighbors)
	if err != nil {
		return fmt.Errorf("marshal neighbors: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO discovery_runs (id, device_ip, hostname, cdp, lldp, neighbors, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DeviceIP.String(), stringToNull(run.Hostname),
		cdp, lldp, neighbors,
		run.StartedAt.UTC(), run.EndedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run for a device, or nil when the device
// has never been visited
func (r *Repository) LatestRun(ctx context.Context, deviceIP domain.Addr) (*domain.DiscoveryRun, error) {
	runs, err := r.ListRuns(ctx, deviceIP, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListRuns returns up to limit runs for a device, newest first
func (r *Repository) ListRuns(ctx context.Context, deviceIP domain.Addr, limit int) ([]domain.DiscoveryRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, device_ip, hostname, cdp, lldp, neighbors, started_at, ended_at
		FROM discovery_runs
		WHERE device_ip = ?
		ORDER BY started_at DESC
		LIMIT ?`,
		deviceIP.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.DiscoveryRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestNeighbors returns the neighbor list from the device's most recent run
func (r *Repository) LatestNeighbors(ctx context.Context, deviceIP domain.Addr) ([]domain.Neighbor, error) {
	run, err := r.LatestRun(ctx, deviceIP)
	if err != nil || run == nil {
		return nil, err
	}
	return run.Neighbors, nil
}

// Close releases the database handle
func (r *Repository) Close() error {
	return r.db.Close()
}

func scanRun(rows *sql.Rows) (domain.DiscoveryRun, error) {
	var (
		run       domain.DiscoveryRun
		deviceIP  string
		hostname  sql.NullString
		cdp       []byte
		lldp      []byte
		neighbors []byte
		started   time.Time
		ended     time.Time
	)
	if err := rows.Scan(&run.ID, &deviceIP, &hostname, &cdp, &lldp, &neighbors, &started, &ended); err != nil {
		return run, fmt.Errorf("scan run: %w", err)
	}

	run.DeviceIP = domain.ParseAddr(deviceIP)
	run.Hostname = nullToString(hostname)
	run.StartedAt = started
	run.EndedAt = ended

	if err := unmarshalJSON(cdp, &run.CDP); err != nil {
		return run, fmt.Errorf("decode cdp entries: %w", err)
	}
	if err := unmarshalJSON(lldp, &run.LLDP); err != nil {
		return run, fmt.Errorf("decode lldp entries: %w", err)
	}
	if err := unmarshalJSON(neighbors, &run.Neighbors); err != nil {
		return run, fmt.Errorf("decode neighbors: %w", err)
	}
	return run, nil
}
