// Package storage keeps parsed bodyfile records in a pebble database.
//
// Records are stored in their canonical line form under a KSUID key. Ids
// issued by a store are strictly increasing, so listing in key order returns
// records in the order they were created, also across batches and reopens.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

// ErrNotFound is returned when no record is stored under an id
var ErrNotFound = errors.New("record not found")

// Options configures how the record store is opened
type Options struct {
	InMemory bool // Keep all data in memory (tests)
	Sync     bool // fsync every write
}

// RecordStore is a pebble backed catalog of bodyfile records
type RecordStore struct {
	db        *pebble.DB
	codec     *bodyfile.Codec
	writeOpts *pebble.WriteOptions

	idMu   sync.Mutex
	lastID ksuid.KSUID // highest id issued or found on open
}

// Open opens or creates the record store at path
func Open(path string, opts Options) (*RecordStore, error) {
	pebbleOpts := &pebble.Options{}
	if opts.InMemory {
		pebbleOpts.FS = vfs.NewMem()
		if path == "" {
			path = "records"
		}
	}

	db, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	writeOpts := pebble.NoSync
	if opts.Sync {
		writeOpts = pebble.Sync
	}

	s := &RecordStore{db: db, codec: bodyfile.NewCodec(), writeOpts: writeOpts}
	if err := s.loadLastID(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// loadLastID seeds id generation from the highest stored key
func (s *RecordStore) loadLastID() error {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	if iter.Last() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return fmt.Errorf("invalid key in record store: %w", err)
		}
		s.lastID = id
	}
	return iter.Error()
}

// nextIDs reserves n ids, each greater than every id issued before it.
// A fresh KSUID is used when it sorts after the last id, otherwise the
// last id is incremented.
func (s *RecordStore) nextIDs(n int) []ksuid.KSUID {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	ids := make([]ksuid.KSUID, n)
	for i := range ids {
		id := ksuid.New()
		if ksuid.Compare(id, s.lastID) <= 0 {
			id = s.lastID.Next()
		}
		s.lastID = id
		ids[i] = id
	}
	return ids
}

// OpenInMemory opens an empty store that lives only in memory
func OpenInMemory() (*RecordStore, error) {
	return Open("", Options{InMemory: true})
}

// ParseID parses the string form of a record id
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("invalid record id %q: %w", s, err)
	}
	return id, nil
}

// Create stores a record under a new id
func (s *RecordStore) Create(record bodyfile.Record) (ksuid.KSUID, error) {
	id := s.nextIDs(1)[0]
	if err := s.db.Set(id.Bytes(), []byte(s.codec.Encode(record)), s.writeOpts); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// CreateBatch stores several records atomically and returns their ids in order
func (s *RecordStore) CreateBatch(records []bodyfile.Record) ([]ksuid.KSUID, error) {
	batch := s.db.NewBatch()
	defer batch.Close()

	ids := s.nextIDs(len(records))
	for i, record := range records {
		if err := batch.Set(ids[i].Bytes(), []byte(s.codec.Encode(record)), nil); err != nil {
			return nil, err
		}
	}

	if err := batch.Commit(s.writeOpts); err != nil {
		return nil, err
	}
	return ids, nil
}

// Read returns the record stored under id
func (s *RecordStore) Read(id ksuid.KSUID) (bodyfile.Record, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return bodyfile.Record{}, ErrNotFound
	}
	if err != nil {
		return bodyfile.Record{}, err
	}
	defer closer.Close()

	// data is only valid until closer is closed; Decode copies what it keeps
	record, err := s.codec.Decode(string(data))
	if err != nil {
		return bodyfile.Record{}, fmt.Errorf("stored record %s is corrupt: %w", id, err)
	}
	return record, nil
}

// Update replaces the record stored under id
func (s *RecordStore) Update(id ksuid.KSUID, record bodyfile.Record) error {
	if _, err := s.Read(id); err != nil {
		return err
	}
	return s.db.Set(id.Bytes(), []byte(s.codec.Encode(record)), s.writeOpts)
}

// Delete removes the record stored under id
func (s *RecordStore) Delete(id ksuid.KSUID) error {
	if _, err := s.Read(id); err != nil {
		return err
	}
	return s.db.Delete(id.Bytes(), s.writeOpts)
}

// List calls fn for every record in id order. A limit <= 0 lists everything.
// Returning an error from fn stops the iteration and returns that error.
func (s *RecordStore) List(limit int, fn func(id ksuid.KSUID, record bodyfile.Record) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		if limit > 0 && n >= limit {
			break
		}

		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return fmt.Errorf("invalid key in record store: %w", err)
		}

		record, err := s.codec.Decode(string(iter.Value()))
		if err != nil {
			return fmt.Errorf("stored record %s is corrupt: %w", id, err)
		}

		if err := fn(id, record); err != nil {
			return err
		}
		n++
	}

	return iter.Error()
}

// Count returns the number of stored records
func (s *RecordStore) Count() (int, error) {
	n := 0
	err := s.List(0, func(ksuid.KSUID, bodyfile.Record) error {
		n++
		return nil
	})
	return n, err
}

// Close closes the underlying database
func (s *RecordStore) Close() error {
	return s.db.Close()
}
