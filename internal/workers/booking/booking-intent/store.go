// internal/workers/booking/booking-intent/store.go
package bookingintent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gigdial/internal/common/database"
	apperrors "gigdial/internal/common/errors"
)

// Store persists intents between the anonymous attempt and the resume.
type Store interface {
	Save(ctx context.Context, intent *Intent) error
	// Peek reads a pending intent without consuming it.
	Peek(ctx context.Context, id string) (*Intent, error)
	// Consume moves a pending intent to authenticated-resumed. Exactly one
	// caller succeeds per intent.
	Consume(ctx context.Context, id string) (*Intent, error)
	// Advance moves a resumed intent to a later state.
	Advance(ctx context.Context, id string, to State) (*Intent, error)
}

const keyPrefix = "gigdial:intent:"

type RedisStore struct {
	redis *database.RedisClient
	ttl   time.Duration
}

func NewRedisStore(redis *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: redis, ttl: ttl}
}

func pendingKey(id string) string { return keyPrefix + id }
func resumedKey(id string) string { return keyPrefix + id + ":resumed" }

func (s *RedisStore) Save(ctx context.Context, intent *Intent) error {
	if err := s.redis.SetJSON(ctx, pendingKey(intent.ID), intent, s.ttl); err != nil {
		return apperrors.NewCacheError("save intent", err)
	}
	return nil
}

func (s *RedisStore) Peek(ctx context.Context, id string) (*Intent, error) {
	var intent Intent
	err := s.redis.GetJSON(ctx, pendingKey(id), &intent)
	if err == nil {
		return &intent, nil
	}
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, s.missing(ctx, id)
	}
	return nil, apperrors.NewCacheError("read intent", err)
}

// Consume removes the pending intent and records the resumed one in a single
// transaction, so a concurrent caller always sees one of the two keys.
func (s *RedisStore) Consume(ctx context.Context, id string) (*Intent, error) {
	var intent Intent
	err := s.redis.MoveJSON(ctx, pendingKey(id), resumedKey(id), s.ttl, func(raw []byte) (interface{}, error) {
		intent = Intent{}
		if err := json.Unmarshal(raw, &intent); err != nil {
			return nil, err
		}
		state, err := Transition(intent.State, StateResumed)
		if err != nil {
			return nil, err
		}
		intent.State = state
		return &intent, nil
	})
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, s.missing(ctx, id)
	}
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeIntentTransition) {
			return nil, err
		}
		return nil, apperrors.NewCacheError("consume intent", err)
	}
	return &intent, nil
}

func (s *RedisStore) Advance(ctx context.Context, id string, to State) (*Intent, error) {
	var intent Intent
	err := s.redis.GetJSON(ctx, resumedKey(id), &intent)
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, apperrors.NewIntentNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewCacheError("read resumed intent", err)
	}

	state, err := Transition(intent.State, to)
	if err != nil {
		return nil, err
	}
	intent.State = state

	if err := s.redis.SetJSON(ctx, resumedKey(id), &intent, s.ttl); err != nil {
		return nil, apperrors.NewCacheError("advance intent", err)
	}
	return &intent, nil
}

// missing tells a consumed intent apart from one that never existed or expired.
func (s *RedisStore) missing(ctx context.Context, id string) error {
	n, err := s.redis.Client.Exists(ctx, resumedKey(id)).Result()
	if err != nil {
		return apperrors.NewCacheError("read intent", err)
	}
	if n > 0 {
		return apperrors.NewIntentConsumedError(id)
	}
	return apperrors.NewIntentNotFoundError(id)
}
