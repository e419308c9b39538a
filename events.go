package marketd

import (
	"sync"
	"time"

	"github.com/arcmarket/marketd/schema"
	"github.com/panjf2000/ants/v2"
)

const eventPoolSize = 10

// EventManager fans marketplace and ownership change events out to the bolt
// log, the optional kafka writer, and in-process subscribers. Dispatch runs on
// an ants pool so publishing never blocks a ledger operation.
type EventManager struct {
	store *Store
	kw    *KWriter
	pool  *ants.Pool

	subLocker sync.RWMutex
	subs      []chan schema.Event
}

func NewEventManager(store *Store, kw *KWriter) *EventManager {
	pool, err := ants.NewPool(eventPoolSize)
	if err != nil {
		panic(err)
	}
	return &EventManager{
		store: store,
		kw:    kw,
		pool:  pool,
	}
}

// Subscribe returns a channel receiving every event published after the call.
// Slow consumers drop events rather than stall the dispatcher.
func (m *EventManager) Subscribe() <-chan schema.Event {
	ch := make(chan schema.Event, 128)
	m.subLocker.Lock()
	m.subs = append(m.subs, ch)
	m.subLocker.Unlock()
	return ch
}

func (m *EventManager) Publish(name string, payload interface{}) {
	evt := schema.Event{
		Name:      name,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	err := m.pool.Submit(func() {
		m.dispatch(evt)
	})
	if err != nil {
		log.Error("submit event dispatch failed", "err", err, "event", name)
	}
}

func (m *EventManager) dispatch(evt schema.Event) {
	// SaveEvent assigns evt.Seq before serializing, so the bolt log, kafka,
	// and subscribers all see the same sequence.
	data, err := m.store.SaveEvent(&evt)
	if err != nil {
		log.Error("m.store.SaveEvent(evt)", "err", err, "event", evt.Name)
		return
	}

	if m.kw != nil {
		if err := m.kw.Write(data); err != nil {
			log.Error("kafka write event failed", "err", err, "event", evt.Name)
		}
	}

	m.subLocker.RLock()
	defer m.subLocker.RUnlock()
	for _, ch := range m.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *EventManager) Close() {
	m.pool.Release()
	if m.kw != nil {
		m.kw.Close()
	}
}
