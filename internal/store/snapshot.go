package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/cauldron/internal/recipe"
)

// SaveRecord is one row of the save log.
type SaveRecord struct {
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	Checksum string `json:"checksum"`
	Size     int    `json:"size"`
}

// Save snapshots s and stores it as the latest snapshot of kind.
// The snapshot row and its save_log entry are written in one transaction.
func (s *Store) Save(ctx context.Context, kind string, snap Snapshotter) error {
	payload, err := snap.Snapshot()
	if err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}

	var env recipe.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("save %s: read envelope: %w", kind, err)
	}
	if env.Kind != kind {
		return recipe.NewValidationError("save %s: snapshot has kind %q", kind, env.Kind)
	}
	sum := checksum(payload)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: begin: %w", kind, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO save_log (kind, checksum, size)
		VALUES (?, ?, ?)
	`, kind, sum, len(payload))
	if err != nil {
		return fmt.Errorf("save %s: append save_log: %w", kind, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("save %s: save_log seq: %w", kind, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (kind, format_version, payload, checksum, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			format_version = excluded.format_version,
			payload        = excluded.payload,
			checksum       = excluded.checksum,
			seq            = excluded.seq
	`, kind, env.FormatVersion, payload, sum, seq)
	if err != nil {
		return fmt.Errorf("save %s: upsert snapshot: %w", kind, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: commit: %w", kind, err)
	}
	return nil
}

// Load restores snap from the latest snapshot of kind.
// Returns NotFound if kind was never saved and DecodeFailure if the stored
// payload is corrupt.
func (s *Store) Load(ctx context.Context, kind string, snap Snapshotter) error {
	var payload []byte
	var sum string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, checksum FROM snapshots WHERE kind = ?
	`, kind).Scan(&payload, &sum)
	if errors.Is(err, sql.ErrNoRows) {
		return recipe.NewNotFound("snapshot", kind)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", kind, err)
	}

	if got := checksum(payload); got != sum {
		return recipe.NewDecodeFailure(fmt.Sprintf("load %s: checksum mismatch", kind), nil)
	}
	return snap.Restore(payload)
}

// History returns the save log for kind, oldest first.
func (s *Store) History(ctx context.Context, kind string) ([]SaveRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, checksum, size
		FROM save_log
		WHERE kind = ?
		ORDER BY seq ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("query save_log: %w", err)
	}
	defer rows.Close()

	var records []SaveRecord
	for rows.Next() {
		var r SaveRecord
		if err := rows.Scan(&r.Seq, &r.Kind, &r.Checksum, &r.Size); err != nil {
			return nil, fmt.Errorf("scan save_log: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate save_log: %w", err)
	}
	return records, nil
}

func checksum(payload []byte) string {
	h := sha256.Sum256(payload)
	return hex.EncodeToString(h[:])
}
