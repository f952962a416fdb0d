package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

// Lock holds sync locks as SET NX keys carrying a per-process token.
type Lock struct {
	client redis.UniversalClient
	token  string
}

// NewLock creates a lock bound to a fresh token.
func NewLock(client redis.UniversalClient) *Lock {
	return &Lock{client: client, token: uuid.NewString()}
}

func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, name, l.token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return ok, nil
}

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`)

func (l *Lock) Release(ctx context.Context, name string) error {
	err := releaseScript.Run(ctx, l.client, []string{name}, l.token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Token identifies this process as lock holder.
func (l *Lock) Token() string {
	return l.token
}
