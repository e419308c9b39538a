package marketd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/arcmarket/marketd/schema"
	"github.com/stretchr/testify/assert"
)

func TestEventManagerPublish(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	m := NewEventManager(store, nil)
	defer m.Close()
	defer store.Close()

	sub := m.Subscribe()
	m.Publish(schema.EventItemListed, map[string]uint64{"listingId": 1})

	select {
	case evt := <-sub:
		assert.Equal(t, schema.EventItemListed, evt.Name)
		assert.Equal(t, uint64(1), evt.Seq)
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
	}

	// the event also landed in the bolt log
	raw, err := store.LoadLatestEvents(1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(raw))
	logged := schema.Event{}
	assert.NoError(t, json.Unmarshal(raw[0], &logged))
	assert.Equal(t, schema.EventItemListed, logged.Name)
	// the logged body carries the same sequence the subscriber saw
	assert.Equal(t, uint64(1), logged.Seq)
}

func TestEventManagerSlowSubscriber(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	m := NewEventManager(store, nil)
	defer m.Close()
	defer store.Close()

	// never drained, publishing must not block once the buffer fills
	m.Subscribe()
	for i := 0; i < 200; i++ {
		m.Publish(schema.EventTransfer, i)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		n, err := store.EventCount()
		assert.NoError(t, err)
		if n == 200 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("events not fully dispatched")
}
