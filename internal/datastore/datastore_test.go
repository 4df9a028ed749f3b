package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiodash/audiodash-go/internal/conf"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = ":memory:"

	store, ok := New(settings).(*SQLiteStore)
	require.True(t, ok)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewDisabledStore(t *testing.T) {
	settings := &conf.Settings{}
	assert.Nil(t, New(settings))
}

func TestOpenEmptyPath(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true

	store := &SQLiteStore{Settings: settings}
	assert.Error(t, store.Open())
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)

	rec := &Recording{
		Filename:      "clip_20240101_120000.mp3",
		FilePath:      "/data/recordings/clips/clip_20240101_120000.mp3",
		RecordingType: TypeClip,
		Duration:      60.5,
		FileSize:      484000,
	}
	require.NoError(t, store.Save(rec))
	require.NotZero(t, rec.ID)

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Filename, got.Filename)
	assert.Equal(t, TypeClip, got.RecordingType)
	assert.InDelta(t, 60.5, got.Duration, 1e-9)
	assert.False(t, got.IsEncrypted)
}

func TestGetMissingRecording(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(9999)
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	rec := &Recording{Filename: "x.mp3", RecordingType: TypeClip}
	require.NoError(t, store.Save(rec))
	require.NoError(t, store.Delete(rec.ID))

	_, err := store.Get(rec.ID)
	assert.Error(t, err)
}

func TestGetLastRecordings(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(&Recording{
			Filename:      "clip.mp3",
			RecordingType: TypeClip,
		}))
	}

	recordings, err := store.GetLastRecordings(3)
	require.NoError(t, err)
	assert.Len(t, recordings, 3)

	all, err := store.GetAllRecordings()
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSearchRecordings(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(&Recording{Filename: "clip_morning.mp3", RecordingType: TypeClip}))
	require.NoError(t, store.Save(&Recording{Filename: "panic_evening.mp3.enc", RecordingType: TypePanic, IsEncrypted: true}))

	t.Run("by filename", func(t *testing.T) {
		results, err := store.SearchRecordings("morning", 10, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "clip_morning.mp3", results[0].Filename)
	})

	t.Run("by type", func(t *testing.T) {
		results, err := store.SearchRecordings("panic", 10, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].IsEncrypted)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := store.SearchRecordings("nothing-here", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSaveWithoutOpen(t *testing.T) {
	ds := &DataStore{}
	assert.Error(t, ds.Save(&Recording{}))
}
