// Package startuplock serializes provisioning across replicas sharing one
// database. The lock is a Redis key holding a random token; only the holder
// of the token may release it.
package startuplock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dqai/oneapp/pkg/tables"
)

// DefaultRetryInterval is the pause between acquisition attempts
const DefaultRetryInterval = 500 * time.Millisecond

// ErrNotHeld is returned by Release when the key expired or belongs to
// another holder
var ErrNotHeld = errors.New("startup lock not held")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-holder Redis lock
type Lock struct {
	client redis.Cmdable
	key    string
	token  string
	ttl    time.Duration
	retry  time.Duration
}

// Key returns the lock key for the current table prefix
func Key() string {
	return tables.TableName("startup_lock")
}

// New creates a lock with a fresh token. ttl bounds how long a crashed
// holder can block other replicas.
func New(client redis.Cmdable, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    Key(),
		token:  uuid.NewString(),
		ttl:    ttl,
		retry:  DefaultRetryInterval,
	}
}

// WithRetryInterval changes the pause between acquisition attempts
func (l *Lock) WithRetryInterval(d time.Duration) *Lock {
	l.retry = d
	return l
}

// Token identifies this holder
func (l *Lock) Token() string {
	return l.token
}

// TryAcquire makes one attempt to take the lock
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire startup lock %s: %w", l.key, err)
	}
	return ok, nil
}

// Acquire blocks until the lock is taken or ctx is done
func (l *Lock) Acquire(ctx context.Context) error {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.TryAcquire(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for startup lock %s: %w", l.key, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Release deletes the key if this lock still holds it
func (l *Lock) Release(ctx context.Context) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("failed to release startup lock %s: %w", l.key, err)
	}
	if deleted == 0 {
		return ErrNotHeld
	}
	return nil
}
