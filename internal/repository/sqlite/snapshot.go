package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/repository"
)

// compile-time check that *DB implements repository.SnapshotRepository
var _ repository.SnapshotRepository = (*DB)(nil)

// Load returns the snapshot stored under key.
//
// sql.ErrNoRows is translated to apperror.NotFound so the stores can tell
// "first run" apart from a real database failure.
func (db *DB) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	err := db.conn.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE key = ?`,
		key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snapshot", key)
		}
		return nil, fmt.Errorf("sqlite: loading snapshot %s: %w", key, err)
	}

	return data, nil
}

// Save overwrites the snapshot stored under key.
//
// INSERT ... ON CONFLICT DO UPDATE keeps the row (and its key) stable and
// replaces only the payload, so a save is always a single statement.
func (db *DB) Save(ctx context.Context, key string, data []byte) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at, size_bytes)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at,
			size_bytes = excluded.size_bytes`,
		key,
		data,
		time.Now(),
		len(data),
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving snapshot %s: %w", key, err)
	}

	return nil
}
