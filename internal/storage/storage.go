// Package storage provides a SQLite-backed journal of emitted anomalies.
// The journal is an audit trail only: nothing in the scan pipeline reads it,
// so the scanner stays stateless between runs.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"whalewatch/internal/models"

	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database holding the alert journal.
type Storage struct {
	db        *sql.DB
	maxAlerts int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/whalewatch/data.db.
func New(maxAlerts int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "whalewatch", "data.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxAlerts: maxAlerts}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alerts (
			id          TEXT PRIMARY KEY,
			account     TEXT NOT NULL,
			coin        TEXT NOT NULL,
			side        TEXT NOT NULL,
			price       REAL NOT NULL,
			order_count INTEGER NOT NULL,
			detected_at INTEGER NOT NULL,
			notified    INTEGER DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_detected_at ON alerts(detected_at)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_account ON alerts(account)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordAnomaly journals one emitted anomaly and enforces the journal cap,
// dropping the oldest rows first.
func (s *Storage) RecordAnomaly(anomaly *models.Anomaly) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO alerts
			(id, account, coin, side, price, order_count, detected_at, notified)
		VALUES (?,?,?,?,?,?,?,?)`,
		anomaly.ID, string(anomaly.Account), anomaly.Coin, string(anomaly.Side),
		anomaly.Price, anomaly.Count, anomaly.DetectedAt.UnixNano(), boolToInt(anomaly.Notified),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	if _, err = tx.Exec(`
		DELETE FROM alerts WHERE id NOT IN (
			SELECT id FROM alerts ORDER BY detected_at DESC LIMIT ?
		)`, s.maxAlerts); err != nil {
		return fmt.Errorf("failed to enforce alert cap: %w", err)
	}

	return tx.Commit()
}

// RecentAnomalies returns up to k journaled anomalies, newest first.
func (s *Storage) RecentAnomalies(k int) ([]models.Anomaly, error) {
	rows, err := s.db.Query(`
		SELECT id, account, coin, side, price, order_count, detected_at, notified
		FROM alerts ORDER BY detected_at DESC LIMIT ?`, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var anomalies []models.Anomaly
	for rows.Next() {
		var a models.Anomaly
		var account, side string
		var detectedAtNano int64
		var notified int

		err := rows.Scan(&a.ID, &account, &a.Coin, &side, &a.Price, &a.Count, &detectedAtNano, &notified)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		a.Account = models.Account(account)
		a.Side = models.Side(side)
		a.DetectedAt = time.Unix(0, detectedAtNano)
		a.Notified = notified != 0
		anomalies = append(anomalies, a)
	}

	return anomalies, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
