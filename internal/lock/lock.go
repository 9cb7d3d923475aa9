// Package lock provides a named advisory lock with acquire-if-absent plus
// expiry semantics and token-checked release. The seat-allocation path takes
// one lock per class schedule for the duration of a single admission decision.
package lock

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Locker is the acquire-if-absent contract. Acquire never blocks: when the
// key is already held and unexpired it returns ok=false immediately.
// Release only removes the lock when token matches the current holder, so a
// holder that outlived its TTL cannot release a lock re-acquired by someone
// else.
type Locker interface {
	Acquire(key string, ttl time.Duration) (token string, ok bool)
	Release(key, token string) bool
}

type holder struct {
	token     string
	expiresAt time.Time
}

// KeyedLock is an in-process Locker backed by a map of holders. Expiry is
// enforced lazily at the next Acquire/Release on the same key, which keeps
// liveness if a holder crashes mid-operation without needing a reaper.
type KeyedLock struct {
	mu      sync.Mutex
	holders map[string]holder
	now     func() time.Time
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{
		holders: make(map[string]holder),
		now:     time.Now,
	}
}

func (l *KeyedLock) Acquire(key string, ttl time.Duration) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h, exists := l.holders[key]; exists && l.now().Before(h.expiresAt) {
		return "", false
	}

	token := uuid.NewString()
	l.holders[key] = holder{token: token, expiresAt: l.now().Add(ttl)}
	return token, true
}

func (l *KeyedLock) Release(key, token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, exists := l.holders[key]
	if !exists || h.token != token {
		return false
	}
	delete(l.holders, key)
	return true
}
