package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/starford/apiops/internal/apperr"
)

// ArtifactRow represents a row in the artifacts table. Path is slash-separated
// and relative to the service directory.
type ArtifactRow struct {
	Path      string
	Kind      string
	Name      string
	Checksum  string
	RunID     string
	UpdatedAt time.Time
}

// RunRow represents a row in the runs table.
type RunRow struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	Error      string
}

// Run statuses.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Change classifies what Record did to an artifact.
type Change string

const (
	Created   Change = "created"
	Updated   Change = "updated"
	Unchanged Change = "unchanged"
)

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Record upserts an artifact and reports whether its checksum is new, changed
// or the same as last time. The run id is refreshed in every case.
func (db *DB) Record(ctx context.Context, row ArtifactRow) (Change, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var previous string
	err = tx.QueryRowContext(ctx, `SELECT checksum FROM artifacts WHERE path = ?`, row.Path).Scan(&previous)
	change := Updated
	switch {
	case errors.Is(err, sql.ErrNoRows):
		change = Created
	case err != nil:
		return "", fmt.Errorf("index: lookup %s: %w", row.Path, err)
	case previous == row.Checksum:
		change = Unchanged
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO artifacts (path, kind, name, checksum, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind       = excluded.kind,
			name       = excluded.name,
			checksum   = excluded.checksum,
			run_id     = excluded.run_id,
			updated_at = CASE WHEN artifacts.checksum = excluded.checksum
				THEN artifacts.updated_at ELSE excluded.updated_at END
	`, row.Path, row.Kind, row.Name, row.Checksum, row.RunID, row.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("index: upsert artifact: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("index: commit: %w", err)
	}
	return change, nil
}

// Delete removes an artifact.
func (db *DB) Delete(ctx context.Context, path string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM artifacts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete %s: %w", path, err)
	}
	return nil
}

// GetChecksum returns the stored checksum for an artifact, or empty string if not found.
func (db *DB) GetChecksum(ctx context.Context, path string) (string, error) {
	var cs string
	err := db.conn.QueryRowContext(ctx, `SELECT checksum FROM artifacts WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil // not found is fine
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns path → checksum for every indexed artifact.
func (db *DB) AllChecksums(ctx context.Context) (map[string]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT path, checksum FROM artifacts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Stale returns the artifacts no writer touched during run runID, ordered by path.
func (db *DB) Stale(ctx context.Context, runID string) ([]ArtifactRow, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT path, kind, name, checksum, run_id, updated_at
		FROM artifacts WHERE run_id <> ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("index: stale: %w", err)
	}
	defer rows.Close()

	var out []ArtifactRow
	for rows.Next() {
		var r ArtifactRow
		if err := rows.Scan(&r.Path, &r.Kind, &r.Name, &r.Checksum, &r.RunID, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// StartRun records the beginning of an extraction run.
func (db *DB) StartRun(ctx context.Context, id string, at time.Time) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO runs (id, started_at, status) VALUES (?, ?, ?)`, id, at, RunRunning)
	if err != nil {
		return fmt.Errorf("index: start run: %w", err)
	}
	return nil
}

// FinishRun closes a run. A nil runErr marks it succeeded.
func (db *DB) FinishRun(ctx context.Context, id string, at time.Time, runErr error) error {
	status, msg := RunSucceeded, ""
	if runErr != nil {
		status, msg = RunFailed, runErr.Error()
	}
	res, err := db.conn.ExecContext(ctx, `UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`, at, status, msg, id)
	if err != nil {
		return fmt.Errorf("index: finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("index: finish run %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// GetRun returns one run.
func (db *DB) GetRun(ctx context.Context, id string) (*RunRow, error) {
	var r RunRow
	var finished sql.NullTime
	err := db.conn.QueryRowContext(ctx, `SELECT id, started_at, finished_at, status, error FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.StartedAt, &finished, &r.Status, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: run %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get run: %w", err)
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}
