package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/brightday/internal/calendar"
)

type fakeProfiles struct {
	mu    sync.Mutex
	days  []string
	done  map[string]bool
	err   error
	calls chan string
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{done: make(map[string]bool), calls: make(chan string, 8)}
}

func (f *fakeProfiles) RollOver(_ context.Context, today string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	f.days = append(f.days, today)
	select {
	case f.calls <- today:
	default:
	}
	if f.done[today] {
		return false, nil
	}
	f.done[today] = true
	return true, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClock(t *testing.T) calendar.Clock {
	t.Helper()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// 23:30 UTC on the 15th is already the 16th in Tokyo.
	now := time.Date(2026, time.October, 15, 23, 30, 0, 0, time.UTC)
	return calendar.Clock{Location: tokyo, Now: func() time.Time { return now }}
}

func TestNew_RejectsBadSpec(t *testing.T) {
	_, err := New("whenever", newFakeProfiles(), testClock(t), testLogger())
	assert.Error(t, err)
}

func TestNew_DefaultSpec(t *testing.T) {
	s, err := New("", newFakeProfiles(), testClock(t), testLogger())
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 1)
}

func TestRunRollover_UsesLocalToday(t *testing.T) {
	profiles := newFakeProfiles()
	s, err := New(DefaultRolloverSpec, profiles, testClock(t), testLogger())
	require.NoError(t, err)

	ran, err := s.RunRollover(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = s.RunRollover(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	assert.Equal(t, []string{"2026-10-16", "2026-10-16"}, profiles.days)
}

func TestRunRollover_Error(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.err = errors.New("disk full")
	s, err := New(DefaultRolloverSpec, profiles, testClock(t), testLogger())
	require.NoError(t, err)

	_, err = s.RunRollover(context.Background())
	assert.ErrorIs(t, err, profiles.err)
}

func TestScheduler_FiresOnSchedule(t *testing.T) {
	profiles := newFakeProfiles()
	clock := calendar.NewClock(time.UTC)
	s, err := New("@every 1s", profiles, clock, testLogger())
	require.NoError(t, err)

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	select {
	case day := <-profiles.calls:
		assert.Equal(t, clock.Today(), day)
	case <-time.After(3 * time.Second):
		t.Fatal("rollover job never ran")
	}
}
