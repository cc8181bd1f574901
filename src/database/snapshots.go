// src/database/snapshots.go
package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/username/foxxdash/backend/src/models"
)

// Snapshot origins: where a stored row set came from.
const (
	OriginNetwork = "network"
	OriginUpload  = "upload"
)

// ErrNoSnapshot is returned when a source has no stored snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot stored for source")

// Snapshot is one persisted fetch of a ledger source. The most recent
// snapshot per source is replayed when the upstream source is unreachable.
type Snapshot struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"` // "sales" or "balance"
	Origin    string          `json:"origin"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Rows      []models.RawRow `json:"-"`
}

// SaveSnapshot persists a row set for a source, assigning an ID when the
// caller did not.
func SaveSnapshot(db *sql.DB, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(snap.Rows)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot rows: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO snapshots (id, source, origin, fetched_at, payload) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Source, snap.Origin, snap.FetchedAt, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot for source %s: %w", snap.Source, err)
	}
	return nil
}

// LatestSnapshot loads the most recent snapshot for a source.
// Returns ErrNoSnapshot when none exists.
func LatestSnapshot(db *sql.DB, source string) (*Snapshot, error) {
	row := db.QueryRow(
		`SELECT id, source, origin, fetched_at, payload FROM snapshots
		 WHERE source = ? ORDER BY fetched_at DESC LIMIT 1`, source)

	var snap Snapshot
	var payload string
	err := row.Scan(&snap.ID, &snap.Source, &snap.Origin, &snap.FetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for source %s: %w", source, err)
	}

	if err := json.Unmarshal([]byte(payload), &snap.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot payload %s: %w", snap.ID, err)
	}
	return &snap, nil
}

// PruneSnapshots deletes all but the newest keep snapshots of a source.
// Old versions are dropped eagerly so the database does not grow with
// every refresh.
func PruneSnapshots(db *sql.DB, source string, keep int) error {
	_, err := db.Exec(
		`DELETE FROM snapshots WHERE source = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE source = ? ORDER BY fetched_at DESC LIMIT ?
		)`, source, source, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots for source %s: %w", source, err)
	}
	return nil
}
