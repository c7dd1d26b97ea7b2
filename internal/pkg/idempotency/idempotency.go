// Package idempotency guards side effects that may be triggered more than once
// for the same logical event, such as redelivered broker messages.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInProgress means another worker currently holds the key.
	ErrInProgress = errors.New("idempotency: operation in progress")
	// ErrCompleted means the operation already succeeded for this key.
	ErrCompleted = errors.New("idempotency: operation already completed")
	// ErrUnknownState means the key holds a value this package did not write.
	ErrUnknownState = errors.New("idempotency: unknown state")
)

// State is the lifecycle marker stored under a key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Idempotency runs fn at most once to completion per key.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLock = time.Minute
	defaultTTL  = 24 * time.Hour
	keyPrefix   = "idempotency:"
)

// Option tunes a single Exec call.
type Option func(*execOptions)

type execOptions struct {
	lock time.Duration
	ttl  time.Duration
}

// WithLock bounds how long an in-progress claim survives a crashed worker.
func WithLock(d time.Duration) Option {
	return func(o *execOptions) { o.lock = d }
}

// WithTTL sets how long a completed marker is remembered.
func WithTTL(d time.Duration) Option {
	return func(o *execOptions) { o.ttl = d }
}

// Redis keeps idempotency markers in Redis.
type Redis struct {
	client redis.UniversalClient
}

// New returns a Redis-backed tracker.
func New(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Exec claims key, runs fn and records completion. A failed fn releases the
// claim so a later delivery can retry.
func (r *Redis) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lock: defaultLock, ttl: defaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lock <= 0 {
		o.lock = defaultLock
	}
	if o.ttl <= 0 {
		o.ttl = defaultTTL
	}

	fk := keyPrefix + key

	state, err := r.acquire(ctx, fk, o.lock)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrInProgress
	case StateCompleted:
		return ErrCompleted
	}

	if err := fn(ctx); err != nil {
		if delErr := r.client.Del(context.WithoutCancel(ctx), fk).Err(); delErr != nil {
			return errors.Join(err, delErr)
		}
		return err
	}

	return r.client.Set(context.WithoutCancel(ctx), fk, string(StateCompleted), o.ttl).Err()
}

func (r *Redis) acquire(ctx context.Context, fk string, lock time.Duration) (State, error) {
	ok, err := r.client.SetNX(ctx, fk, string(StateInProgress), lock).Result()
	if err != nil {
		return StateNone, err
	}
	if ok {
		return StateNone, nil
	}

	current, err := r.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; one more attempt
		ok, err = r.client.SetNX(ctx, fk, string(StateInProgress), lock).Result()
		if err != nil {
			return StateNone, err
		}
		if ok {
			return StateNone, nil
		}
		return StateInProgress, nil
	}
	if err != nil {
		return StateNone, err
	}

	switch State(current) {
	case StateInProgress, StateCompleted:
		return State(current), nil
	default:
		return StateNone, ErrUnknownState
	}
}
