package driven

import (
	"context"
	"time"
)

// DistributedLock serialises sync runs for one owner across processes.
type DistributedLock interface {
	// Acquire takes the named lock for at most ttl.
	// Returns false without error when another holder has it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release drops the lock if this process holds it.
	// Releasing an expired or foreign lock is a no-op.
	Release(ctx context.Context, name string) error

	// Ping checks that the lock backend is reachable.
	Ping(ctx context.Context) error
}
