package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLock_AcquireRelease(t *testing.T) {
	l := NewKeyedLock()

	token, ok := l.Acquire("schedule:1", time.Second)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	// Second acquire on the same key fails while held.
	_, ok = l.Acquire("schedule:1", time.Second)
	assert.False(t, ok)

	// A different key is independent.
	_, ok = l.Acquire("schedule:2", time.Second)
	assert.True(t, ok)

	assert.True(t, l.Release("schedule:1", token))

	_, ok = l.Acquire("schedule:1", time.Second)
	assert.True(t, ok)
}

func TestKeyedLock_ReleaseRequiresToken(t *testing.T) {
	l := NewKeyedLock()

	token, ok := l.Acquire("schedule:1", time.Second)
	assert.True(t, ok)

	assert.False(t, l.Release("schedule:1", "wrong-token"))
	assert.False(t, l.Release("unknown-key", token))

	// Still held after the failed releases.
	_, ok = l.Acquire("schedule:1", time.Second)
	assert.False(t, ok)

	assert.True(t, l.Release("schedule:1", token))
	assert.False(t, l.Release("schedule:1", token), "double release must fail")
}

func TestKeyedLock_Expiry(t *testing.T) {
	l := NewKeyedLock()
	current := time.Now()
	l.now = func() time.Time { return current }

	staleToken, ok := l.Acquire("schedule:1", 30*time.Second)
	assert.True(t, ok)

	current = current.Add(31 * time.Second)

	// Expired hold no longer blocks a new acquisition.
	freshToken, ok := l.Acquire("schedule:1", 30*time.Second)
	assert.True(t, ok)

	// The stale holder cannot release the lock out from under the new one.
	assert.False(t, l.Release("schedule:1", staleToken))
	assert.True(t, l.Release("schedule:1", freshToken))
}

func TestKeyedLock_SingleWinnerUnderContention(t *testing.T) {
	l := NewKeyedLock()

	const goroutines = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners []string

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if token, ok := l.Acquire("schedule:9", time.Minute); ok {
				mu.Lock()
				winners = append(winners, token)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, winners, 1, "exactly one goroutine should win the lock")
}
