package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/repository"
)

// loadSnapshot reads and decodes the snapshot under key into dst, then runs
// check on the decoded value. A check failure is treated as corruption.
//
// It returns false (and no error) when the stores should start from their
// seed data: either nothing was saved yet, or the saved snapshot is corrupt.
// Only a failing backend is reported as an error.
func loadSnapshot(ctx context.Context, repo repository.SnapshotRepository, key string, dst any, check func() error, logger *slog.Logger) (bool, error) {
	raw, err := repo.Load(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			logger.Info("no snapshot found, using seed data", slog.String("key", key))
			return false, nil
		}
		return false, fmt.Errorf("loading %s: %w", key, err)
	}

	err = repository.Decode(key, raw, dst)
	if err == nil && check != nil {
		if cerr := check(); cerr != nil {
			err = apperror.CorruptState(key, cerr)
		}
	}
	if err != nil {
		logger.Warn("corrupt snapshot, falling back to seed data",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false, nil
	}

	return true, nil
}

// saveSnapshot overwrites the snapshot under key with v.
//
// Persistence is best effort: the in-memory state is authoritative for the
// running process, so a failed write is logged and not returned.
//
// The write is detached from ctx cancellation: the in-memory change has
// already happened, so a client hanging up must not drop its save.
func saveSnapshot(ctx context.Context, repo repository.SnapshotRepository, key string, v any, now time.Time, logger *slog.Logger) {
	data, err := repository.Encode(v, now)
	if err == nil {
		err = repo.Save(context.WithoutCancel(ctx), key, data)
	}
	if err != nil {
		logger.Error("failed to persist snapshot",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
