package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	store, err := OpenInMemory(maxEntries)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return store
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	store := newTestStore(t, 10)

	require.NoError(t, store.Record("first", time.Second))
	require.NoError(t, store.Record("second", 2*time.Second))
	require.NoError(t, store.Record("third", 3*time.Second))

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "third", entries[0].Text)
	require.Equal(t, "second", entries[1].Text)
	require.Equal(t, 3*time.Second, entries[0].Duration)
	require.NotEmpty(t, entries[0].ID)
	require.True(t, entries[0].At.After(entries[1].At))
}

func TestAppendPrunesOldest(t *testing.T) {
	store := newTestStore(t, 3)

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		_, err := store.Append(Entry{Text: text})
		require.NoError(t, err)
	}

	n, err := store.Len()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		texts = append(texts, e.Text)
	}
	require.Equal(t, []string{"e", "d", "c"}, texts)
}

func TestAppendKeepsProvidedIDAndTime(t *testing.T) {
	store := newTestStore(t, 5)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entry, err := store.Append(Entry{ID: "fixed", At: at, Text: "hello"})
	require.NoError(t, err)
	require.Equal(t, "fixed", entry.ID)

	entries, err := store.Recent(1)
	require.NoError(t, err)
	require.Equal(t, "fixed", entries[0].ID)
	require.True(t, at.Equal(entries[0].At))
}

func TestRecentOnEmptyStore(t *testing.T) {
	store := newTestStore(t, 5)

	entries, err := store.Recent(5)
	require.NoError(t, err)
	require.Empty(t, entries)

	entries, err = store.Recent(0)
	require.NoError(t, err)
	require.Nil(t, entries)
}

func TestOpenRejectsNonPositiveLimit(t *testing.T) {
	_, err := OpenInMemory(0)
	require.Error(t, err)
}

func TestOpenOnDiskPersists(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir, 5)
	require.NoError(t, err)
	require.NoError(t, store.Record("persisted", time.Second))
	require.NoError(t, store.Close())

	reopened, err := Open(dir, 5)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "persisted", entries[0].Text)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	dir, err := DefaultDir()
	require.NoError(t, err)
	require.Equal(t, "/tmp/state/transkeet/history", dir)
}
