package marketd

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path"
	"time"

	"github.com/arcmarket/marketd/schema"
	bolt "go.etcd.io/bbolt"
)

const (
	boltAllocSize = 8 * 1024 * 1024
	boltName      = "market.db"
)

// Store is the append only market event log. Events are keyed by a big endian
// bucket sequence so iteration order is emission order.
type Store struct {
	BoltDb *bolt.DB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	if len(boltDirPath) == 0 {
		return nil, errors.New("boltDb dir path can not null")
	}
	if err := os.MkdirAll(boltDirPath, os.ModePerm); err != nil {
		return nil, err
	}

	boltDB, err := bolt.Open(path.Join(boltDirPath, boltName), 0660,
		&bolt.Options{Timeout: 2 * time.Second, InitialMmapSize: 10e6})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize

	kv := &Store{BoltDb: boltDB}
	if err := kv.BoltDb.Update(func(tx *bolt.Tx) error {
		for _, bkt := range []string{schema.EventBucket, schema.EventMetaBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bkt)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return kv, nil
}

// SaveEvent assigns evt the next log sequence and appends it. The returned
// bytes are the serialized body written to the log, sequence included.
func (s *Store) SaveEvent(evt *schema.Event) (data []byte, err error) {
	err = s.BoltDb.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(schema.EventBucket))
		seq, err := bkt.NextSequence()
		if err != nil {
			return err
		}
		evt.Seq = seq
		data, err = json.Marshal(evt)
		if err != nil {
			return err
		}
		return bkt.Put(itob(seq), data)
	})
	return
}

// LoadLatestEvents returns up to num raw events, newest first.
func (s *Store) LoadLatestEvents(num int) ([][]byte, error) {
	res := make([][]byte, 0, num)
	err := s.BoltDb.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(schema.EventBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(res) < num; k, v = c.Prev() {
			cp := make([]byte, len(v))
			copy(cp, v)
			res = append(res, cp)
		}
		return nil
	})
	return res, err
}

func (s *Store) EventCount() (uint64, error) {
	var n uint64
	err := s.BoltDb.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(schema.EventBucket)).Sequence()
		return nil
	})
	return n, err
}

func (s *Store) Close() error {
	return s.BoltDb.Close()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
