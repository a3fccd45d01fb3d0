package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbu-intelligence/navigator/internal/adapters/storage/memory"
	"github.com/dbu-intelligence/navigator/internal/domain"
)

func TestArchiveStoreMostRecentFirst(t *testing.T) {
	store := memory.NewArchiveStore()

	require.NoError(t, store.PrependEntry(domain.ArchiveEntry{SessionID: "a", Title: "first..."}))
	require.NoError(t, store.PrependEntry(domain.ArchiveEntry{SessionID: "b", Title: "second..."}))

	entries, err := store.ListEntries(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second...", entries[0].Title)
	assert.Equal(t, "first...", entries[1].Title)
}

func TestArchiveStoreRejectsDuplicateSession(t *testing.T) {
	store := memory.NewArchiveStore()

	require.NoError(t, store.PrependEntry(domain.ArchiveEntry{SessionID: "a", Title: "x..."}))
	assert.Error(t, store.PrependEntry(domain.ArchiveEntry{SessionID: "a", Title: "y..."}))

	entries, err := store.ListEntries(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArchiveStoreLimitAndCopy(t *testing.T) {
	store := memory.NewArchiveStore()
	for _, id := range []domain.SessionID{"a", "b", "c"} {
		require.NoError(t, store.PrependEntry(domain.ArchiveEntry{SessionID: id, Title: string(id)}))
	}

	entries, err := store.ListEntries(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Title)

	entries[0].Title = "mutated"
	again, err := store.ListEntries(1)
	require.NoError(t, err)
	assert.Equal(t, "c", again[0].Title)
}
