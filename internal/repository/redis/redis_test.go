package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/xid"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/repository"
)

// newTestStore connects to the Redis named by BRIGHTDAY_TEST_REDIS_ADDR.
// Every test gets its own key prefix so runs don't see each other's data.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("BRIGHTDAY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BRIGHTDAY_TEST_REDIS_ADDR not set")
	}
	s, err := New(context.Background(), Config{Addr: addr, KeyPrefix: "test:" + xid.New().String() + ":"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), repository.EventsKey)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, repository.ProfileKey, []byte("v1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, repository.ProfileKey, []byte("v2")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(ctx, repository.ProfileKey)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Load() = %q, want %q", got, "v2")
	}
}
