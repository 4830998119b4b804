package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewIdempotencyStore(client, ttl), mr
}

func TestIdempotencyStore_FirstRequestReserves(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	stored, err := store.Begin(ctx, "u1:abc")
	if err != nil || stored != nil {
		t.Fatalf("expected fresh reservation, got %+v, %v", stored, err)
	}
	if got, _ := mr.Get("idempotency:v1:u1:abc"); got != inProgressMarker {
		t.Fatalf("expected in-progress marker, got %q", got)
	}
	if ttl := mr.TTL("idempotency:v1:u1:abc"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %s", ttl)
	}
}

func TestIdempotencyStore_ConcurrentDuplicate(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "k"); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if _, err := store.Begin(ctx, "k"); !errors.Is(err, ErrInProgress) {
		t.Fatalf("expected ErrInProgress, got %v", err)
	}
}

func TestIdempotencyStore_ReplayAfterComplete(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "k"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	want := StoredResponse{Status: 201, ContentType: "application/json", Body: []byte(`{"id":"1"}`), RequestHash: "abc123"}
	if err := store.Complete(ctx, "k", want); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	got, err := store.Begin(ctx, "k")
	if err != nil {
		t.Fatalf("replay Begin: %v", err)
	}
	if got == nil || got.Status != 201 || string(got.Body) != `{"id":"1"}` || got.ContentType != want.ContentType || got.RequestHash != "abc123" {
		t.Fatalf("unexpected replay: %+v", got)
	}
}

func TestIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, _ = store.Begin(ctx, "k")
	if err := store.Release(ctx, "k"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if stored, err := store.Begin(ctx, "k"); err != nil || stored != nil {
		t.Fatalf("expected fresh reservation after release, got %+v, %v", stored, err)
	}
}

func TestIdempotencyStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, _ = store.Begin(ctx, "k")
	_ = store.Complete(ctx, "k", StoredResponse{Status: 201})
	mr.FastForward(2 * time.Minute)

	if stored, err := store.Begin(ctx, "k"); err != nil || stored != nil {
		t.Fatalf("expired key should reserve again, got %+v, %v", stored, err)
	}
}

func TestIdempotencyStore_StoreDown(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	mr.Close()

	if _, err := store.Begin(context.Background(), "k"); err == nil || errors.Is(err, ErrInProgress) {
		t.Fatalf("expected connection error, got %v", err)
	}
}
