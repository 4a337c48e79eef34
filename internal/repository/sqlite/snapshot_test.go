package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/repository"
)

// newTestDB opens a fresh in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// =========================================================================
// LOAD TESTS
// =========================================================================

func TestLoad_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Load(context.Background(), repository.EventsKey)
	if err == nil {
		t.Fatal("Load() should have returned an error for a missing key")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Save(ctx, repository.EventsKey, []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := db.Load(ctx, repository.EventsKey)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != `{"version":1}` {
		t.Errorf("Load() = %q, want %q", got, `{"version":1}`)
	}
}

// =========================================================================
// SAVE TESTS
// =========================================================================

func TestSave_OverwritesWholesale(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Save(ctx, repository.ProfileKey, []byte("first, and longer")); err != nil {
		t.Fatalf("Save() #1 error = %v", err)
	}
	if err := db.Save(ctx, repository.ProfileKey, []byte("second")); err != nil {
		t.Fatalf("Save() #2 error = %v", err)
	}

	got, err := db.Load(ctx, repository.ProfileKey)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Load() = %q, want %q", got, "second")
	}
}

func TestSave_KeysAreIndependent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Save(ctx, repository.EventsKey, []byte("events")); err != nil {
		t.Fatalf("Save(events) error = %v", err)
	}
	if err := db.Save(ctx, repository.ProfileKey, []byte("profile")); err != nil {
		t.Fatalf("Save(profile) error = %v", err)
	}

	events, _ := db.Load(ctx, repository.EventsKey)
	profile, _ := db.Load(ctx, repository.ProfileKey)
	if string(events) != "events" || string(profile) != "profile" {
		t.Errorf("got events=%q profile=%q, want independent values", events, profile)
	}
}

// TestPersistence_SurvivesReopen uses a file-backed database to check that a
// snapshot written by one process is visible to the next.
func TestPersistence_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")
	ctx := context.Background()

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Save(ctx, repository.EventsKey, []byte("kept")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	db.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx, repository.EventsKey)
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if string(got) != "kept" {
		t.Errorf("Load() after reopen = %q, want %q", got, "kept")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}

func TestSave_RecordsPayloadSize(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	payload := []byte(`{"version":1,"data":[]}`)
	if err := db.Save(ctx, repository.EventsKey, payload); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var size int
	err := db.conn.QueryRowContext(ctx,
		`SELECT size_bytes FROM snapshots WHERE key = ?`, repository.EventsKey,
	).Scan(&size)
	if err != nil {
		t.Fatalf("reading size_bytes: %v", err)
	}
	if size != len(payload) {
		t.Errorf("size_bytes = %d, want %d", size, len(payload))
	}
}
