package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionLocker serializes draft upserts per guest session so two
// near-simultaneous upserts cannot interleave item deletion and
// recreation.  Acquire blocks until the lock is held or the context
// expires and returns the release function.
type SessionLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// ErrLockTimeout is returned when a session lock could not be acquired
// in time.
var ErrLockTimeout = errors.New("session lock timeout")

const (
	lockTTL       = 5 * time.Second
	lockWait      = 3 * time.Second
	lockRetryStep = 50 * time.Millisecond
)

// NewSessionLocker returns a redis-backed locker when a client is
// available and falls back to an in-process locker otherwise.  The
// fallback only protects a single instance; multi-instance deployments
// should run with redis configured.
func NewSessionLocker(rdb *redis.Client) SessionLocker {
	if rdb != nil {
		return &redisSessionLocker{rdb: rdb}
	}
	return &localSessionLocker{locks: make(map[string]*sessionLock)}
}

// redisSessionLocker implements the lock with SET NX plus a
// compare-and-delete release script, so one instance can never release
// a lock another instance acquired after the TTL expired.
type redisSessionLocker struct {
	rdb *redis.Client
}

var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

func (l *redisSessionLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := "draftlock:" + sessionID
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(buf)
	deadline := time.Now().Add(lockWait)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				_, _ = releaseScript.Run(context.Background(), l.rdb, []string{key}, token).Result()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryStep):
		}
	}
}

// localSessionLocker keys a mutex per session.  Entries are reference
// counted and removed once the last holder releases, so the map does
// not grow with every session ever seen.
type localSessionLocker struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *localSessionLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}, nil
}
