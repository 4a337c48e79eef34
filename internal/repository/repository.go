// Package repository defines the storage contract used by the planner stores.
//
// The planner persists whole snapshots, not rows: after every mutation a
// store serialises its entire state and overwrites one key. Backends only
// need to implement a tiny key/value interface, which lets the same stores
// run on SQLite, Redis or Postgres.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sakif/brightday/internal/apperror"
)

// Fixed storage keys, one per persisted store.
const (
	EventsKey  = "brightday-events"
	ProfileKey = "brightday-user"
)

// SchemaVersion is written into every snapshot envelope.
// Snapshots carrying any other version are rejected as corrupt.
const SchemaVersion = 1

// SnapshotRepository stores opaque snapshot blobs under fixed keys.
//
// Load returns an apperror.ErrNotFound error when nothing has been saved
// under key yet. Save overwrites any previous value (last writer wins).
type SnapshotRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// envelope is the on-disk shape of a snapshot.
type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// Encode wraps v in a versioned envelope and marshals it to JSON.
func Encode(v any, now time.Time) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("repository: encoding snapshot: %w", err)
	}
	out, err := json.Marshal(envelope{Version: SchemaVersion, SavedAt: now, Data: data})
	if err != nil {
		return nil, fmt.Errorf("repository: encoding envelope: %w", err)
	}
	return out, nil
}

// Decode unwraps an envelope produced by Encode into v.
// Any malformed input yields an apperror.ErrCorruptState error.
func Decode(key string, raw []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperror.CorruptState(key, err)
	}
	if env.Version != SchemaVersion {
		return apperror.CorruptState(key, fmt.Errorf("unsupported schema version %d", env.Version))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return apperror.CorruptState(key, fmt.Errorf("empty payload"))
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return apperror.CorruptState(key, err)
	}
	return nil
}
