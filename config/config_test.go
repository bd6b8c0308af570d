package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clipkeep/history"
	"github.com/poiesic/clipkeep/search"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 200, cfg.MaxHistorySize)
	assert.Equal(t, search.ModeMixed, cfg.Mode())
	assert.Equal(t, history.SortCriteria{By: history.SortByLastCopied, PinPlacement: history.PinsTop}, cfg.Criteria())
	assert.False(t, cfg.PasteByDefault)
	assert.False(t, cfg.RemoveFormattingByDefault)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithMaxHistorySize(50),
		WithSearchMode("fuzzy"),
		WithSortBy("numberOfCopies"),
		WithPinPlacement("bottom"),
		WithPasteByDefault(true),
		WithRemoveFormattingByDefault(true),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.MaxHistorySize)
	assert.Equal(t, search.ModeFuzzy, cfg.Mode())
	assert.Equal(t, history.SortCriteria{By: history.SortByCopyCount, PinPlacement: history.PinsBottom}, cfg.Criteria())
	assert.True(t, cfg.PasteByDefault)
	assert.True(t, cfg.RemoveFormattingByDefault)
}

func TestValidate(t *testing.T) {
	t.Run("rejects zero capacity", func(t *testing.T) {
		cfg := NewConfig(WithMaxHistorySize(0))
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown search mode", func(t *testing.T) {
		cfg := NewConfig(WithSearchMode("semantic"))
		assert.ErrorIs(t, cfg.Validate(), search.ErrUnknownMode)
	})

	t.Run("rejects unknown sort", func(t *testing.T) {
		cfg := NewConfig(WithSortBy("alphabetical"))
		assert.ErrorIs(t, cfg.Validate(), history.ErrUnknownSortBy)
	})

	t.Run("rejects unknown pin placement", func(t *testing.T) {
		cfg := NewConfig(WithPinPlacement("left"))
		assert.ErrorIs(t, cfg.Validate(), history.ErrUnknownPinPlacement)
	})
}

func TestLoad(t *testing.T) {
	writeFile := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "clipkeep.toml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	t.Run("overrides defaults", func(t *testing.T) {
		path := writeFile(t, `
max_history_size = 25
search_mode = "exact"
pin_placement = "bottom"
paste_by_default = true
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.MaxHistorySize)
		assert.Equal(t, search.ModeExact, cfg.Mode())
		assert.Equal(t, history.PinsBottom, cfg.Criteria().PinPlacement)
		assert.True(t, cfg.PasteByDefault)
		assert.Equal(t, "lastCopiedAt", cfg.SortBy, "unset fields keep their defaults")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		path := writeFile(t, `search_mode = "semantic"`)
		_, err := Load(path)
		assert.ErrorIs(t, err, search.ErrUnknownMode)
	})

	t.Run("rejects missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})
}
