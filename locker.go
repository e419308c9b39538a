package marketd

import (
	"fmt"
	"sync"
)

// entityLocker serializes state changing operations per listing or per
// collection. Read paths never take these locks.
type entityLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocker() *entityLocker {
	return &entityLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *entityLocker) acquire(key string) func() {
	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[key] = lk
	}
	l.mu.Unlock()

	lk.Lock()
	return lk.Unlock
}

func listingKey(id uint64) string {
	return fmt.Sprintf("listing-%d", id)
}

func collectionKey(addr string) string {
	return "collection-" + addr
}

func registryKey(addr string) string {
	return "registry-" + addr
}
