package view

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/clipkeep/core"
	"github.com/poiesic/clipkeep/history"
	"github.com/poiesic/clipkeep/search"
)

const defaultDebounceInterval = 200 * time.Millisecond

// Pipeline recomputes the derived view (visible ordered list, highlight
// ranges, quick-select shortcuts, selection) whenever the canonical set,
// the content filter or the query changes. The whole result is swapped
// in as one unit; a run superseded by a newer trigger publishes nothing.
type Pipeline struct {
	store  *history.Store
	logger *slog.Logger

	generation atomic.Int64
	debounce   *debouncer

	mu       sync.Mutex
	engine   *search.Engine
	filter   core.ContentFilter
	query    string
	selected *core.Entry
	visible  []*core.Entry
	pinned   []*core.Entry
	unpinned []*core.Entry
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithFilter sets the initial content filter.
// Default is core.FilterAll.
func WithFilter(filter core.ContentFilter) Option {
	return func(p *Pipeline) error {
		p.filter = filter
		return nil
	}
}

// WithDebounceInterval overrides the query debounce window.
func WithDebounceInterval(interval time.Duration) Option {
	return func(p *Pipeline) error {
		if interval > 0 {
			p.debounce = newDebouncer(interval)
		}
		return nil
	}
}

// NewPipeline builds the derived-view pipeline over the given store and
// engine, subscribes to the store's mutation events and computes the
// initial view.
func NewPipeline(store *history.Store, engine *search.Engine, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}

	p := &Pipeline{
		store:    store,
		engine:   engine,
		logger:   slog.Default(),
		debounce: newDebouncer(defaultDebounceInterval),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	store.Subscribe(p.onStoreEvent)
	p.recompute(nil)
	return p, nil
}

// Close stops any pending debounced recomputation.
func (p *Pipeline) Close() {
	p.debounce.cancel()
}

// SetQuery schedules a recomputation after the debounce window. Another
// call within the window cancels the pending run and restarts the wait.
func (p *Pipeline) SetQuery(query string) {
	p.mu.Lock()
	p.query = query
	p.mu.Unlock()
	p.debounce.trigger(func() { p.recompute(nil) })
}

// Query returns the active query string.
func (p *Pipeline) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// SetFilter switches the content filter and recomputes immediately.
func (p *Pipeline) SetFilter(filter core.ContentFilter) {
	p.mu.Lock()
	p.filter = filter
	p.mu.Unlock()
	p.recompute(nil)
}

// CycleFilter advances to the next content filter, wrapping at the end,
// and returns the filter now in effect.
func (p *Pipeline) CycleFilter() core.ContentFilter {
	p.mu.Lock()
	p.filter = p.filter.Next()
	filter := p.filter
	p.mu.Unlock()
	p.recompute(nil)
	return filter
}

// Filter returns the active content filter.
func (p *Pipeline) Filter() core.ContentFilter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// SetEngine swaps the search engine (e.g. after a mode change) and
// recomputes.
func (p *Pipeline) SetEngine(engine *search.Engine) {
	if engine == nil {
		return
	}
	p.mu.Lock()
	p.engine = engine
	p.mu.Unlock()
	p.recompute(nil)
}

// Refresh forces a full recomputation from the current canonical set.
func (p *Pipeline) Refresh() {
	p.recompute(nil)
}

// Visible returns the published visible list in rank order.
func (p *Pipeline) Visible() []*core.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*core.Entry(nil), p.visible...)
}

// Pinned returns the visible pinned entries in rank order.
func (p *Pipeline) Pinned() []*core.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*core.Entry(nil), p.pinned...)
}

// Unpinned returns the visible unpinned entries in rank order.
func (p *Pipeline) Unpinned() []*core.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*core.Entry(nil), p.unpinned...)
}

// Selected returns the current selection, nil when the view is empty.
func (p *Pipeline) Selected() *core.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// SetSelected moves the selection handle. Entries outside the visible
// list are ignored.
func (p *Pipeline) SetSelected(entry *core.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry != nil && !entry.Visible {
		return
	}
	if p.selected != nil {
		p.selected.Selected = false
	}
	p.selected = entry
	if entry != nil {
		entry.Selected = true
	}
}

func (p *Pipeline) onStoreEvent(event history.Event) {
	if event.Kind == history.EventSelected {
		// A successful selection resets the query so the next open
		// shows the full history again.
		p.debounce.cancel()
		p.mu.Lock()
		p.query = ""
		p.mu.Unlock()
		p.recompute(nil)
		return
	}

	var added *core.Entry
	if event.Kind == history.EventAdded {
		added = event.Entry
	}
	p.recompute(added)
}

// recompute runs filter, search and shortcut assignment against a
// snapshot of the canonical set, then publishes the result unless a
// newer run started in the meantime.
func (p *Pipeline) recompute(added *core.Entry) {
	generation := p.generation.Add(1)

	p.mu.Lock()
	engine := p.engine
	filter := p.filter
	query := p.query
	p.mu.Unlock()

	// Filtering and search read entry titles, so they run inside the
	// store snapshot where a concurrent rename cannot interleave.
	var entries []*core.Entry
	var results []core.SearchResult
	p.store.Snapshot(func(snapshot []*core.Entry) {
		entries = snapshot
		candidates := make([]*core.Entry, 0, len(entries))
		for _, entry := range entries {
			if filter.Matches(entry) {
				candidates = append(candidates, entry)
			}
		}
		results = engine.Search(query, candidates)
	})

	p.publish(generation, entries, results, added, query)
}

// publish swaps in the derived view as one unit. A result computed from
// a snapshot older than the latest trigger is dropped so the view never
// moves backwards.
func (p *Pipeline) publish(generation int64, entries []*core.Entry, results []core.SearchResult, added *core.Entry, query string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation.Load() {
		p.logger.Debug("discarding stale pipeline run", "generation", generation)
		return
	}

	for _, entry := range entries {
		entry.Visible = false
		entry.HighlightRanges = nil
	}

	visible := make([]*core.Entry, 0, len(results))
	var pinned, unpinned []*core.Entry
	for _, result := range results {
		result.Entry.Visible = true
		result.Entry.HighlightRanges = result.Ranges
		visible = append(visible, result.Entry)
		if result.Entry.IsPinned() {
			pinned = append(pinned, result.Entry)
		} else {
			unpinned = append(unpinned, result.Entry)
		}
	}

	assignShortcuts(entries, visible)

	p.visible = visible
	p.pinned = pinned
	p.unpinned = unpinned
	p.reselectLocked(added, query)
}

// reselectLocked keeps the selection on the same entry across runs. A
// freshly added entry steals the selection only when it is visible and
// no query is active; a selection that fell out of the view falls back
// to the top of the list.
func (p *Pipeline) reselectLocked(added *core.Entry, query string) {
	selected := p.selected
	if added != nil && added.Visible && query == "" {
		selected = added
	}
	if selected == nil || !selected.Visible {
		selected = nil
		if len(p.visible) > 0 {
			selected = p.visible[0]
		}
	}

	if p.selected != nil && p.selected != selected {
		p.selected.Selected = false
	}
	p.selected = selected
	if selected != nil {
		selected.Selected = true
	}
}
