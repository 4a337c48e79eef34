package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/calendar"
	"github.com/sakif/brightday/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// memRepo is an in-memory repository.SnapshotRepository.
// Set saveErr or loadErr to simulate a failing backend.
type memRepo struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   map[string]int
	saveErr error
	loadErr error
}

var _ repository.SnapshotRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		data:  make(map[string][]byte),
		saves: make(map[string]int),
	}
}

func (m *memRepo) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	raw, ok := m.data[key]
	if !ok {
		return nil, apperror.NotFound("snapshot", key)
	}
	return append([]byte(nil), raw...), nil
}

// Save fails on a cancelled context the way the SQL and network backends do.
func (m *memRepo) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data[key] = append([]byte(nil), data...)
	m.saves[key]++
	return nil
}

func (m *memRepo) Close() error { return nil }

func (m *memRepo) saveCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[key]
}

// fakeAnnouncer records every announcement it receives.
type fakeAnnouncer struct {
	mu          sync.Mutex
	early       int
	streaks     []int
	completions int
	social      int
}

func (f *fakeAnnouncer) EarlyPlanner() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.early++
}

func (f *fakeAnnouncer) Streak(days int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streaks = append(f.streaks, days)
}

func (f *fakeAnnouncer) Completion() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions++
}

func (f *fakeAnnouncer) Social() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.social++
}

var errBackendDown = errors.New("backend down")

// testToday is the pinned "today" of every service test.
const testToday = "2026-10-16"

func testClock() calendar.Clock {
	return calendar.FixedClock(time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStores wires a profile and event store over one memRepo.
func newTestStores(t *testing.T) (*EventService, *ProfileService, *fakeAnnouncer, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	ann := &fakeAnnouncer{}
	ctx := context.Background()

	profiles, err := NewProfileService(ctx, repo, ann, testClock(), testLogger())
	if err != nil {
		t.Fatalf("NewProfileService() error = %v", err)
	}
	events, err := NewEventService(ctx, repo, profiles, ann, testClock(), testLogger())
	if err != nil {
		t.Fatalf("NewEventService() error = %v", err)
	}
	return events, profiles, ann, repo
}

func daysFromToday(t *testing.T, n int) string {
	t.Helper()
	d, err := calendar.AddDays(testToday, n)
	if err != nil {
		t.Fatalf("AddDays() error = %v", err)
	}
	return d
}
