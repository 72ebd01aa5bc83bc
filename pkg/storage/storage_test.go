package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

func setupTestStore(t *testing.T) *RecordStore {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordStore_CreateRead(t *testing.T) {
	s := setupTestStore(t)

	record := bodyfile.New().WithName("ls -l |wc").WithInode("1").WithSize(5).WithMTime(7)
	id, err := s.Create(record)
	require.NoError(t, err)
	assert.NotEqual(t, ksuid.Nil, id)

	got, err := s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestRecordStore_ReadMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Read(ksuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordStore_Update(t *testing.T) {
	s := setupTestStore(t)

	id, err := s.Create(bodyfile.New().WithName("before"))
	require.NoError(t, err)

	require.NoError(t, s.Update(id, bodyfile.New().WithName("after")))

	got, err := s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name())

	err = s.Update(ksuid.New(), bodyfile.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordStore_Delete(t *testing.T) {
	s := setupTestStore(t)

	id, err := s.Create(bodyfile.New())
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))

	_, err = s.Read(id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(id), ErrNotFound)
}

func TestRecordStore_ListAndCount(t *testing.T) {
	s := setupTestStore(t)

	records := []bodyfile.Record{
		bodyfile.New().WithName("a"),
		bodyfile.New().WithName("b"),
		bodyfile.New().WithName("c"),
	}
	ids, err := s.CreateBatch(records)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	seen := map[ksuid.KSUID]string{}
	err = s.List(0, func(id ksuid.KSUID, r bodyfile.Record) error {
		seen[id] = r.Name()
		return nil
	})
	require.NoError(t, err)
	for i, id := range ids {
		assert.Equal(t, records[i].Name(), seen[id])
	}

	limited := 0
	err = s.List(2, func(ksuid.KSUID, bodyfile.Record) error {
		limited++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, limited)
}

func TestRecordStore_ListStopsOnError(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateBatch([]bodyfile.Record{bodyfile.New(), bodyfile.New()})
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = s.List(0, func(ksuid.KSUID, bodyfile.Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestRecordStore_Persistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "records")

	s, err := Open(dir, Options{Sync: true})
	require.NoError(t, err)
	id, err := s.Create(bodyfile.New().WithName("/persisted").WithCRTime(42))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, "/persisted", got.Name())
	assert.Equal(t, int64(42), got.CRTime())
}

func listNames(t *testing.T, s *RecordStore) []string {
	t.Helper()
	var names []string
	require.NoError(t, s.List(0, func(_ ksuid.KSUID, r bodyfile.Record) error {
		names = append(names, r.Name())
		return nil
	}))
	return names
}

func TestRecordStore_OrderAcrossBatches(t *testing.T) {
	s := setupTestStore(t)

	var want []string
	for batch := 0; batch < 20; batch++ {
		records := make([]bodyfile.Record, 0, 7)
		for i := 0; i < 7; i++ {
			name := fmt.Sprintf("/f%03d", batch*7+i)
			records = append(records, bodyfile.New().WithName(name))
			want = append(want, name)
		}
		_, err := s.CreateBatch(records)
		require.NoError(t, err)

		// single creates interleaved with batches keep their place too
		name := fmt.Sprintf("/single%02d", batch)
		_, err = s.Create(bodyfile.New().WithName(name))
		require.NoError(t, err)
		want = append(want, name)
	}

	assert.Equal(t, want, listNames(t, s))
}

func TestRecordStore_IDsStrictlyIncrease(t *testing.T) {
	s := setupTestStore(t)

	ids := s.nextIDs(70000)
	for i := 1; i < len(ids); i++ {
		if ksuid.Compare(ids[i-1], ids[i]) >= 0 {
			t.Fatalf("id %d does not sort after id %d", i, i-1)
		}
	}

	next := s.nextIDs(1)[0]
	assert.Equal(t, -1, ksuid.Compare(ids[len(ids)-1], next))
}

func TestRecordStore_OrderAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "records")

	s, err := Open(dir, Options{})
	require.NoError(t, err)
	_, err = s.CreateBatch([]bodyfile.Record{bodyfile.New().WithName("/a"), bodyfile.New().WithName("/b")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateBatch([]bodyfile.Record{bodyfile.New().WithName("/c")})
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b", "/c"}, listNames(t, s))
}

func TestParseID(t *testing.T) {
	id := ksuid.New()

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-a-ksuid")
	assert.Error(t, err)
}
