package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*AdvisoryLock)(nil)

// AdvisoryLock implements DistributedLock with session advisory locks.
// Each held lock pins one pooled connection until release, since the lock
// belongs to the session that took it. TTL is ignored: the lock lasts until
// release or until the connection drops.
type AdvisoryLock struct {
	db *DB

	mu    sync.Mutex
	conns map[string]*sql.Conn
}

// NewAdvisoryLock creates a new advisory lock adapter.
func NewAdvisoryLock(db *DB) *AdvisoryLock {
	return &AdvisoryLock{db: db, conns: make(map[string]*sql.Conn)}
}

// lockKey maps a lock name onto the bigint key space.
func lockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

func (l *AdvisoryLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.conns[name]; held {
		return false, nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockKey(name)).Scan(&acquired); err != nil {
		conn.Close()
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !acquired {
		conn.Close()
		return false, nil
	}

	l.conns[name] = conn
	return true, nil
}

func (l *AdvisoryLock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	conn, held := l.conns[name]
	delete(l.conns, name)
	l.mu.Unlock()

	if !held {
		return nil
	}
	defer conn.Close()

	var released bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", lockKey(name)).Scan(&released); err != nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

func (l *AdvisoryLock) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
