package marketd

import (
	"encoding/json"
	"testing"

	"github.com/arcmarket/marketd/schema"
	"github.com/stretchr/testify/assert"
)

func TestStoreEvents(t *testing.T) {
	s, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	defer s.Close()

	n, err := s.EventCount()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	evt1 := schema.Event{Name: schema.EventItemListed}
	data1, err := s.SaveEvent(&evt1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), evt1.Seq)
	evt2 := schema.Event{Name: schema.EventItemSold}
	_, err = s.SaveEvent(&evt2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), evt2.Seq)

	// the serialized body carries the assigned sequence
	logged := schema.Event{}
	assert.NoError(t, json.Unmarshal(data1, &logged))
	assert.Equal(t, uint64(1), logged.Seq)
	assert.Equal(t, schema.EventItemListed, logged.Name)

	n, err = s.EventCount()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	// newest first
	events, err := s.LoadLatestEvents(10)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(events))
	assert.NoError(t, json.Unmarshal(events[0], &logged))
	assert.Equal(t, schema.EventItemSold, logged.Name)
	assert.Equal(t, uint64(2), logged.Seq)
	assert.NoError(t, json.Unmarshal(events[1], &logged))
	assert.Equal(t, schema.EventItemListed, logged.Name)

	events, err = s.LoadLatestEvents(1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(events))
	assert.NoError(t, json.Unmarshal(events[0], &logged))
	assert.Equal(t, schema.EventItemSold, logged.Name)
}

func TestStoreEmptyDirPath(t *testing.T) {
	_, err := NewBoltStore("")
	assert.Error(t, err)
}
