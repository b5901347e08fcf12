package redisstore

import (
	"context"
	"time"

	"washday/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serialises spins per player with SET NX PX. The token makes
// release a no-op once the lease expired and another holder took over.
type Locker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewLocker(client redis.UniversalClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Locker{
		client: client,
		ttl:    ttl,
		wait:   ttl / 2,
		retry:  25 * time.Millisecond,
	}
}

// Acquire blocks up to half the lease for the lock. The returned release
// func must be called exactly once.
func (l *Locker) Acquire(ctx context.Context, playerID uuid.UUID) (func(context.Context) error, error) {
	key := lockKey(playerID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, infra.WrapRepoErr("failed to acquire wallet lock", err, infra.KindStoreFailure)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, infra.WrapRepoErr("wallet lock is held", nil, infra.KindLocked)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return infra.WrapRepoErr("failed to release wallet lock", err, infra.KindStoreFailure)
		}
		return nil
	}
	return release, nil
}
