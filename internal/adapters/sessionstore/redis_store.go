// Package sessionstore persists planning sessions in Redis so a run can
// be re-opened for re-routing after the process restarts.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/session"
)

// ErrNotFound is returned by Load when the session id is unknown or
// has expired.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "bagdelivery:session:"

// RedisStore keeps one JSON document per session under a TTL. A TTL of
// zero keeps sessions until deleted.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, state *session.State) error {
	if state == nil || state.SessionID == "" {
		return errors.New("session save: missing session id")
	}

	state.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session save: encode state: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+state.SessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("session save %q: %w", state.SessionID, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (*session.State, error) {
	if sessionID == "" {
		return nil, errors.New("session load: missing session id")
	}

	payload, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session load %q: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("session load %q: %w", sessionID, err)
	}

	var state session.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("session load %q: decode state: %w", sessionID, err)
	}
	return &state, nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session delete: missing session id")
	}
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session delete %q: %w", sessionID, err)
	}
	return nil
}

var _ ports.SessionStore = (*RedisStore)(nil)
