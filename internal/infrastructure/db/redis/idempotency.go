package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "idempotency:v1:"
	inProgressMarker  = "__in_progress__"
	defaultReplayTTL  = 24 * time.Hour
)

// ErrInProgress is returned by Begin while another request holds the key.
var ErrInProgress = errors.New("idempotent request already in progress")

// StoredResponse is the replayable result of a completed request.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	// RequestHash fingerprints the request body that produced the response.
	RequestHash string `json:"request_hash,omitempty"`
}

// IdempotencyStore remembers responses by idempotency key.
// Key format: idempotency:v1:<scope>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client; ttl bounds how long a key is honoured.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Begin reserves key for a new request. It returns (nil, nil) when the caller
// now owns the key, the stored response when the key already completed, and
// ErrInProgress when another request is still running under it.
func (s *IdempotencyStore) Begin(ctx context.Context, key string) (*StoredResponse, error) {
	k := s.key(key)

	reserved, err := s.client.SetNX(ctx, k, inProgressMarker, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("idempotency reserve: %w", err)
	}
	if reserved {
		return nil, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Released between SetNX and Get; let the client retry.
			return nil, ErrInProgress
		}
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	if val == inProgressMarker {
		return nil, ErrInProgress
	}

	var stored StoredResponse
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &stored, nil
}

// Complete records the response for key, replacing the in-progress marker.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp StoredResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency persist: %w", err)
	}
	return nil
}

// Release drops key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return idempotencyPrefix + key
}
