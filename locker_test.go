package marketd

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityLocker(t *testing.T) {
	l := newEntityLocker()

	n := 0
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.acquire(listingKey(7))
			n++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, n)

	// distinct keys use distinct mutexes
	unlockA := l.acquire(collectionKey("a"))
	unlockB := l.acquire(collectionKey("b"))
	unlockA()
	unlockB()
}
