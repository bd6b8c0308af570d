package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clipkeep/core"
	"github.com/poiesic/clipkeep/storage"
)

func TestEntryRepository_AddAndList(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	older := core.NewEntry(core.Content{Text: "older"}, "")
	older.LastCopiedAt = base
	newer := core.NewEntry(core.Content{Text: "newer"}, "")
	newer.LastCopiedAt = base.Add(time.Minute)

	require.NoError(t, repo.Add(ctx, older, newer))

	listed, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "newer", listed[0].Content.Text, "most recently copied first")
	assert.Equal(t, "older", listed[1].Content.Text)
}

func TestEntryRepository_Update(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	entry := core.NewEntry(core.Content{Text: "payload"}, "")
	entry.LastCopiedAt = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(ctx, entry))

	entry.CopyCount = 3
	entry.LastCopiedAt = entry.LastCopiedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, entry))

	listed, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1, "date index key must move, not duplicate")
	assert.Equal(t, 3, listed[0].CopyCount)
	assert.True(t, entry.LastCopiedAt.Equal(listed[0].LastCopiedAt))
}

func TestEntryRepository_UpdateMissing(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	entry := core.NewEntry(core.Content{Text: "ghost"}, "")
	err = repo.Update(context.Background(), entry)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEntryRepository_Delete(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	keep := core.NewEntry(core.Content{Text: "keep"}, "")
	drop := core.NewEntry(core.Content{Text: "drop"}, "")
	require.NoError(t, repo.Add(ctx, keep, drop))

	require.NoError(t, repo.Delete(ctx, drop.Id))

	listed, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "keep", listed[0].Content.Text)

	// Deleting a missing ID is not an error.
	require.NoError(t, repo.Delete(ctx, drop.Id))
}

func TestEntryRepository_DeleteAll(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Add(ctx, core.NewEntry(core.Content{Text: text}, "")))
	}

	require.NoError(t, repo.DeleteAll(ctx))

	listed, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
