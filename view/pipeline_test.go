package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clipkeep/core"
	"github.com/poiesic/clipkeep/history"
	"github.com/poiesic/clipkeep/search"
)

type stubClipboard struct {
	counter int64
}

func (c *stubClipboard) Copy(*core.Entry, bool) {}

func (c *stubClipboard) Paste() {}

func (c *stubClipboard) Clear() {}

func (c *stubClipboard) ChangeCounter() int64 {
	c.counter++
	return c.counter
}

func newFixture(t *testing.T, opts ...Option) (*history.Store, *Pipeline) {
	t.Helper()
	store, err := history.NewStore(&stubClipboard{})
	require.NoError(t, err)
	engine, err := search.NewEngine(search.ModeMixed)
	require.NoError(t, err)
	pipeline, err := NewPipeline(store, engine, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Close)
	return store, pipeline
}

func addText(store *history.Store, text string, at time.Time) *core.Entry {
	entry := core.NewEntry(core.Content{Text: text}, "TestApp")
	entry.FirstCopiedAt = at
	entry.LastCopiedAt = at
	store.Add(entry)
	return entry
}

func visibleTitles(p *Pipeline) []string {
	entries := p.Visible()
	result := make([]string, len(entries))
	for i, entry := range entries {
		result[i] = entry.Title
	}
	return result
}

func TestNewPipeline(t *testing.T) {
	t.Run("requires store", func(t *testing.T) {
		engine, err := search.NewEngine(search.ModeMixed)
		require.NoError(t, err)
		_, err = NewPipeline(nil, engine)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("requires engine", func(t *testing.T) {
		store, err := history.NewStore(&stubClipboard{})
		require.NoError(t, err)
		_, err = NewPipeline(store, nil)
		assert.ErrorIs(t, err, ErrEngineRequired)
	})
}

func TestPipelineTracksMutations(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t)

	first := addText(store, "first", base)
	second := addText(store, "second", base.Add(time.Second))

	assert.Equal(t, []string{"second", "first"}, visibleTitles(pipeline))
	assert.True(t, first.Visible)
	assert.True(t, second.Visible)
	assert.Same(t, second, pipeline.Selected(), "new entry takes the selection when no query is active")

	store.Delete(second)
	assert.Equal(t, []string{"first"}, visibleTitles(pipeline))
	assert.Same(t, first, pipeline.Selected(), "selection falls back to the top after a delete")
	assert.False(t, second.Visible)
}

func TestPipelineFilter(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t)

	addText(store, "plain text", base)
	image := core.NewEntry(core.Content{Image: []byte{0x89}}, "TestApp")
	image.LastCopiedAt = base.Add(time.Second)
	store.Add(image)

	pipeline.SetFilter(core.FilterImages)
	assert.Equal(t, []string{"Image"}, visibleTitles(pipeline))
	assert.Same(t, image, pipeline.Selected(), "selection moves into the filtered view")

	pipeline.SetFilter(core.FilterText)
	assert.Equal(t, []string{"plain text"}, visibleTitles(pipeline))
}

func TestCycleFilter(t *testing.T) {
	_, pipeline := newFixture(t)

	require.Equal(t, core.FilterAll, pipeline.Filter())
	seen := []core.ContentFilter{pipeline.Filter()}
	for {
		next := pipeline.CycleFilter()
		if next == core.FilterAll {
			break
		}
		seen = append(seen, next)
	}
	assert.Equal(t, []core.ContentFilter{
		core.FilterAll, core.FilterText, core.FilterLinks, core.FilterImages, core.FilterFiles,
	}, seen)
}

func TestPipelineQueryDebounce(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t, WithDebounceInterval(50*time.Millisecond))

	addText(store, "alpha report", base)
	addText(store, "beta notes", base.Add(time.Second))

	pipeline.SetQuery("alp")
	pipeline.SetQuery("alpha")
	assert.Len(t, pipeline.Visible(), 2, "no recomputation before the window elapses")

	time.Sleep(150 * time.Millisecond)
	require.Equal(t, []string{"alpha report"}, visibleTitles(pipeline))
	match := pipeline.Visible()[0]
	assert.Equal(t, []core.Range{{Start: 0, End: 5}}, match.HighlightRanges)
}

func TestPipelineShortcuts(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t)

	for i := 0; i < 12; i++ {
		addText(store, fmt.Sprintf("note %02d", i), base.Add(time.Duration(i)*time.Second))
	}

	visible := pipeline.Visible()
	require.Len(t, visible, 12)
	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "", ""}
	for i, entry := range visible {
		assert.Equal(t, want[i], entry.Shortcut, "position %d", i)
	}

	store.TogglePin(visible[0])
	refreshed := pipeline.Visible()
	assert.Equal(t, "a", refreshed[0].Shortcut, "pinned entries carry their pin character")
	assert.Equal(t, "1", refreshed[1].Shortcut, "digits shift to the next unpinned entry")
}

func TestPipelineSelection(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t, WithDebounceInterval(time.Millisecond))

	target := addText(store, "target", base)
	pipeline.SetQuery("target")
	time.Sleep(50 * time.Millisecond)
	require.Same(t, target, pipeline.Selected())

	// An addition during an active query must not steal the selection.
	other := addText(store, "unrelated", base.Add(time.Second))
	assert.Same(t, target, pipeline.Selected())
	assert.False(t, other.Visible)

	// A successful selection clears the query and restores the full view.
	require.True(t, store.Select(target, history.ModNone))
	assert.Empty(t, pipeline.Query())
	assert.Len(t, pipeline.Visible(), 2)
	assert.Same(t, target, pipeline.Selected(), "selection survives the query reset")
}

func TestStalePublishIsDiscarded(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t)

	addText(store, "first", base)
	addText(store, "second", base.Add(time.Second))
	require.Equal(t, []string{"second", "first"}, visibleTitles(pipeline))
	selected := pipeline.Selected()

	// A run superseded by a newer trigger must publish nothing,
	// however different its result set.
	entries := store.Entries()
	stale := []core.SearchResult{{
		Entry:  entries[1],
		Scored: true,
		Ranges: []core.Range{{Start: 0, End: 3}},
	}}
	pipeline.publish(pipeline.generation.Load()-1, entries, stale, entries[1], "fir")

	assert.Equal(t, []string{"second", "first"}, visibleTitles(pipeline))
	assert.Same(t, selected, pipeline.Selected())
	assert.True(t, entries[0].Visible, "entries outside the stale result keep their state")
	assert.Nil(t, entries[1].HighlightRanges)
	assert.Equal(t, "1", entries[0].Shortcut)
	assert.Equal(t, "2", entries[1].Shortcut)
}

func TestPipelineConcurrentRenames(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t)

	entry := addText(store, "draft", base)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			store.SetTitle(entry, fmt.Sprintf("draft %03d", i))
		}
	}()
	for i := 0; i < 200; i++ {
		pipeline.Refresh()
	}
	<-done

	pipeline.Refresh()
	assert.Equal(t, []string{"draft 199"}, visibleTitles(pipeline))
}

func TestRefreshIsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t, WithDebounceInterval(time.Millisecond))

	addText(store, "alpha report", base)
	addText(store, "alpha notes", base.Add(time.Second))
	addText(store, "beta", base.Add(2*time.Second))
	pipeline.SetQuery("alpha")
	time.Sleep(50 * time.Millisecond)

	first := visibleTitles(pipeline)
	ranges := pipeline.Visible()[0].HighlightRanges

	pipeline.Refresh()
	assert.Equal(t, first, visibleTitles(pipeline))
	assert.Equal(t, ranges, pipeline.Visible()[0].HighlightRanges)
	pipeline.Refresh()
	assert.Equal(t, first, visibleTitles(pipeline))
}

func TestSetSelected(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, pipeline := newFixture(t)

	first := addText(store, "first", base)
	second := addText(store, "second", base.Add(time.Second))
	require.Same(t, second, pipeline.Selected())

	pipeline.SetSelected(first)
	assert.Same(t, first, pipeline.Selected())
	assert.True(t, first.Selected)
	assert.False(t, second.Selected)

	hidden := core.NewEntry(core.Content{Text: "hidden"}, "TestApp")
	pipeline.SetSelected(hidden)
	assert.Same(t, first, pipeline.Selected(), "invisible entries cannot be selected")
}
