package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	require.True(t, storage.Supported())

	user := NewUserIdentifier()
	h := &QueryHistory{}
	h.Add("select * from users", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), 10)
	require.NoError(t, storage.Store(user, h))

	loaded, err := storage.Read(user)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, h.Entries, loaded.Entries)
}

func TestFileStorageMissingFile(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	loaded, err := storage.Read(NewUserIdentifier())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStorageCorruptFile(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	user := NewUserIdentifier()
	path := filepath.Join(dir, "history-"+user.String()+".json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err = storage.Read(user)
	assert.Error(t, err)
}

func TestFileStorageDisabled(t *testing.T) {
	storage, err := NewFileStorage("")
	require.NoError(t, err)
	assert.False(t, storage.Supported())

	user := NewUserIdentifier()
	require.NoError(t, storage.Store(user, &QueryHistory{}))
	loaded, err := storage.Read(user)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStoragePerUserFiles(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	alice, bob := NewUserIdentifier(), NewUserIdentifier()
	ha := &QueryHistory{}
	ha.Add("select a", time.Now(), 10)
	hb := &QueryHistory{}
	hb.Add("select b", time.Now(), 10)

	require.NoError(t, storage.Store(alice, ha))
	require.NoError(t, storage.Store(bob, hb))

	loaded, err := storage.Read(alice)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "select a", loaded.Entries[0].Query)
}

func TestAsyncFileStoreFlush(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	async := NewAsyncFileStore(storage)
	user := NewUserIdentifier()
	h := &QueryHistory{}
	h.Add("select 1", time.Now(), 10)
	async.Store(user, h)
	async.Close()

	loaded, err := storage.Read(user)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "select 1", loaded.Entries[0].Query)
}

// idleAsyncStore builds a store without the background goroutine so tests
// can observe the pending queue deterministically.
func idleAsyncStore(storage *FileStorage) *AsyncFileStore {
	return &AsyncFileStore{
		storage: storage,
		pending: make(map[UserIdentifier]*QueryHistory),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func TestAsyncFileStorePending(t *testing.T) {
	storage, err := NewFileStorage("")
	require.NoError(t, err)
	async := idleAsyncStore(storage)

	user := NewUserIdentifier()
	assert.Nil(t, async.Pending(user))

	h := &QueryHistory{}
	h.Add("select 1", time.Now(), 10)
	async.Store(user, h)

	pending := async.Pending(user)
	require.NotNil(t, pending)
	assert.Equal(t, entryQueries(h), entryQueries(pending))

	// Pending hands out copies.
	pending.Add("select 2", time.Now(), 10)
	assert.Equal(t, entryQueries(h), entryQueries(async.Pending(user)))

	async.Flush()
	assert.Nil(t, async.Pending(user))
}

func TestAsyncFileStoreKeepsNewest(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	async := NewAsyncFileStore(storage)
	user := NewUserIdentifier()

	first := &QueryHistory{}
	first.Add("select 1", time.Now(), 10)
	second := first.Copy()
	second.Add("select 2", time.Now(), 10)

	async.Store(user, first)
	async.Store(user, second)
	async.Close()

	loaded, err := storage.Read(user)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "select 2", loaded.Entries[0].Query)
}
