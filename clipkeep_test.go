package clipkeep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clipkeep/config"
	"github.com/poiesic/clipkeep/core"
	"github.com/poiesic/clipkeep/search"
)

type testClipboard struct {
	counter int64
}

func (c *testClipboard) Copy(*core.Entry, bool) {}

func (c *testClipboard) Paste() {}

func (c *testClipboard) Clear() {}

func (c *testClipboard) ChangeCounter() int64 {
	c.counter++
	return c.counter
}

func TestNewService(t *testing.T) {
	t.Run("create new service", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		svc, err := NewService(tmpDir, &testClipboard{})
		require.NoError(t, err)
		require.NotNil(t, svc)
		defer svc.Close()

		assert.NotNil(t, svc.Store())
		assert.NotNil(t, svc.Pipeline())
		assert.NotNil(t, svc.Repository())
		assert.Nil(t, svc.Generator(), "no renderer configured")
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		svc, err := NewService(tmpFile, &testClipboard{})
		assert.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("error with invalid config", func(t *testing.T) {
		cfg := config.NewConfig(config.WithSearchMode("semantic"))
		_, err := NewService(t.TempDir(), &testClipboard{}, WithConfig(cfg))
		assert.ErrorIs(t, err, search.ErrUnknownMode)
	})
}

func TestServiceRoundTrip(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "db")
	svc, err := NewService(tmpDir, &testClipboard{})
	require.NoError(t, err)

	svc.Store().Add(core.NewEntry(core.Content{Text: "persisted text"}, "TestApp"))
	require.Len(t, svc.Pipeline().Visible(), 1)
	require.NoError(t, svc.Close())

	reopened, err := NewService(tmpDir, &testClipboard{})
	require.NoError(t, err)
	defer reopened.Close()

	entries := reopened.Store().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "persisted text", entries[0].Content.Text)
	assert.Len(t, reopened.Pipeline().Visible(), 1, "initial view is computed from storage")
}

func TestServiceUpdateConfig(t *testing.T) {
	svc, err := NewService("", &testClipboard{}, WithInMemoryStorage())
	require.NoError(t, err)
	defer svc.Close()

	t.Run("rejects invalid config", func(t *testing.T) {
		assert.Error(t, svc.UpdateConfig(config.NewConfig(config.WithMaxHistorySize(0))))
	})

	t.Run("applies capacity and mode", func(t *testing.T) {
		cfg := config.NewConfig(
			config.WithMaxHistorySize(10),
			config.WithSearchMode("regexp"),
			config.WithPinPlacement("bottom"),
		)
		require.NoError(t, svc.UpdateConfig(cfg))
		assert.Equal(t, cfg, svc.Config())
	})
}
