package history

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/poiesic/clipkeep/core"
	"github.com/poiesic/clipkeep/storage"
)

const (
	defaultMaxSize = 200

	// Pin characters are assigned lowest-first; when all are taken,
	// pinning becomes a no-op.
	pinCharacters = "abcdefghijklmnopqrstuvwxyz"
)

// EventKind identifies the mutation a Store event reports.
type EventKind int

const (
	// EventAdded fires after an entry (new or merged) enters the canonical set.
	EventAdded EventKind = iota
	// EventUpdated fires after an entry's pin or title changed.
	EventUpdated
	// EventDeleted fires after an entry left the canonical set.
	EventDeleted
	// EventCleared fires after a bulk clear.
	EventCleared
	// EventSelected fires after a successful selection.
	EventSelected
	// EventReloaded fires after the canonical set was rebuilt from storage.
	EventReloaded
)

// Event notifies derived consumers of a canonical-set mutation.
// Entry is nil for bulk events (EventCleared, EventReloaded).
type Event struct {
	Kind  EventKind
	Entry *core.Entry
}

// Store owns the canonical ordered entry collection. All mutations are
// serialized: one completes fully before the next is observed. Derived
// state (visibility, shortcuts) lives in the view pipeline, which
// subscribes to mutation events.
type Store struct {
	mu         sync.Mutex
	entries    []*core.Entry
	sessionLog map[int64]*core.Entry
	listeners  []func(Event)

	maxSize  int
	criteria SortCriteria
	sorter   Sorter

	clipboard Clipboard
	repo      storage.EntryRepository
	notifier  Notifier
	logger    *slog.Logger

	pasteByDefault            bool
	removeFormattingByDefault bool
}

// Option configures a Store.
type Option func(*Store) error

// WithRepository sets the persistence collaborator. Without one the
// store is purely in-memory.
func WithRepository(repo storage.EntryRepository) Option {
	return func(s *Store) error {
		s.repo = repo
		return nil
	}
}

// WithNotifier sets the notification collaborator.
func WithNotifier(notifier Notifier) Option {
	return func(s *Store) error {
		s.notifier = notifier
		return nil
	}
}

// WithSorter sets a custom sorter.
// Default is NewSorter().
func WithSorter(sorter Sorter) Option {
	return func(s *Store) error {
		if sorter == nil {
			sorter = NewSorter()
		}
		s.sorter = sorter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMaxSize caps the number of unpinned entries kept in history.
func WithMaxSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}
		s.maxSize = size
		return nil
	}
}

// WithSortCriteria sets the initial ordering configuration.
func WithSortCriteria(criteria SortCriteria) Option {
	return func(s *Store) error {
		s.criteria = criteria
		return nil
	}
}

// WithPasteByDefault makes a plain selection paste, not just copy.
func WithPasteByDefault(paste bool) Option {
	return func(s *Store) error {
		s.pasteByDefault = paste
		return nil
	}
}

// WithRemoveFormattingByDefault strips formatting on default selections.
func WithRemoveFormattingByDefault(remove bool) Option {
	return func(s *Store) error {
		s.removeFormattingByDefault = remove
		return nil
	}
}

// NewStore creates a history store bound to the given clipboard
// collaborator.
func NewStore(clipboard Clipboard, opts ...Option) (*Store, error) {
	if clipboard == nil {
		return nil, ErrClipboardRequired
	}

	s := &Store{
		sessionLog: make(map[int64]*core.Entry),
		maxSize:    defaultMaxSize,
		sorter:     NewSorter(),
		clipboard:  clipboard,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Subscribe registers a mutation event consumer. Events are delivered
// synchronously, outside the store lock, after the mutation completed.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(event Event) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(event)
	}
}

// Add runs the incoming entry through the dedup/merge resolver, inserts
// it, records it in the session log and evicts beyond capacity. A merged
// pinned predecessor keeps its slot; everything else is re-sorted.
func (s *Store) Add(entry *core.Entry) {
	s.mu.Lock()

	isNew := true
	insertAt := -1

	selfModification := s.modifiedPredecessorLocked(entry) != nil
	predecessor := s.findDuplicateLocked(entry)
	if predecessor == nil {
		predecessor = s.modifiedPredecessorLocked(entry)
	}
	if predecessor != nil {
		isNew = false
		merge(entry, predecessor, selfModification)
		idx := slices.Index(s.entries, predecessor)
		s.removeLocked(predecessor)
		if entry.IsPinned() && idx >= 0 {
			insertAt = idx
		}
	}

	if insertAt >= 0 && insertAt <= len(s.entries) {
		s.entries = slices.Insert(s.entries, insertAt, entry)
	} else {
		s.entries = append(s.entries, entry)
		s.resortLocked()
	}

	s.sessionLog[s.clipboard.ChangeCounter()] = entry

	// Evict on the post-insert set so merged duplicates don't shrink
	// the effective capacity.
	s.evictLocked()

	s.persist("add entry", func(ctx context.Context) error {
		return s.repo.Add(ctx, entry)
	})

	s.mu.Unlock()

	if isNew && s.notifier != nil {
		s.notifier.Notify(entry.Title, NotificationNew)
	}
	s.emit(Event{Kind: EventAdded, Entry: entry})
}

// Delete removes the entry from the canonical set and session log,
// releasing its transient resources.
func (s *Store) Delete(entry *core.Entry) {
	s.mu.Lock()
	s.removeLocked(entry)
	s.mu.Unlock()
	s.emit(Event{Kind: EventDeleted, Entry: entry})
}

// Clear deletes all unpinned entries. Pinned entries and their session
// log records survive.
func (s *Store) Clear() {
	s.mu.Lock()
	for _, entry := range slices.Clone(s.entries) {
		if !entry.IsPinned() {
			s.removeLocked(entry)
		}
	}
	s.mu.Unlock()
	s.emit(Event{Kind: EventCleared})
}

// ClearAll deletes everything, pinned entries included, and resets the
// session log.
func (s *Store) ClearAll() {
	s.mu.Lock()
	for _, entry := range s.entries {
		entry.ReleaseTransient()
	}
	s.entries = nil
	s.sessionLog = make(map[int64]*core.Entry)
	s.persist("clear storage", func(ctx context.Context) error {
		return s.repo.DeleteAll(ctx)
	})
	s.mu.Unlock()
	s.emit(Event{Kind: EventCleared})
}

// TogglePin assigns the lowest free pin character, or clears the pin if
// the entry already has one. When no pin character is free, toggling is
// a no-op.
func (s *Store) TogglePin(entry *core.Entry) {
	s.mu.Lock()
	if entry.IsPinned() {
		entry.Pin = 0
	} else {
		pin, ok := s.nextFreePinLocked()
		if !ok {
			s.mu.Unlock()
			return
		}
		entry.Pin = pin
	}
	s.resortLocked()
	s.persist("update entry", func(ctx context.Context) error {
		return s.repo.Update(ctx, entry)
	})
	s.mu.Unlock()
	s.emit(Event{Kind: EventUpdated, Entry: entry})
}

// SetTitle renames the entry's display title.
func (s *Store) SetTitle(entry *core.Entry, title string) {
	s.mu.Lock()
	entry.Title = title
	s.persist("update entry", func(ctx context.Context) error {
		return s.repo.Update(ctx, entry)
	})
	s.mu.Unlock()
	s.emit(Event{Kind: EventUpdated, Entry: entry})
}

// Entries returns a snapshot of the canonical ordered set.
func (s *Store) Entries() []*core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Snapshot invokes fn with a copy of the canonical ordered set while
// holding the store lock, so entry fields read inside fn cannot race a
// concurrent mutator such as SetTitle. fn must not call back into the
// store.
func (s *Store) Snapshot(fn func(entries []*core.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(slices.Clone(s.entries))
}

// Pinned returns the pinned entries in canonical order.
func (s *Store) Pinned() []*core.Entry {
	return s.partition(true)
}

// Unpinned returns the unpinned entries in canonical order.
func (s *Store) Unpinned() []*core.Entry {
	return s.partition(false)
}

func (s *Store) partition(pinned bool) []*core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*core.Entry
	for _, entry := range s.entries {
		if entry.IsPinned() == pinned {
			result = append(result, entry)
		}
	}
	return result
}

// Len returns the canonical set size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SetCriteria reconfigures ordering and pin placement, then rebuilds the
// canonical set from storage.
func (s *Store) SetCriteria(criteria SortCriteria) {
	s.mu.Lock()
	s.criteria = criteria
	s.mu.Unlock()
	s.Reload()
}

// SetMaxSize reconfigures capacity and evicts immediately if the set is
// now over it.
func (s *Store) SetMaxSize(size int) {
	if size < 1 {
		size = 1
	}
	s.mu.Lock()
	s.maxSize = size
	s.evictLocked()
	s.mu.Unlock()
	s.emit(Event{Kind: EventReloaded})
}

// SetSelectionDefaults reconfigures how an unmodified selection behaves.
func (s *Store) SetSelectionDefaults(pasteByDefault, removeFormattingByDefault bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pasteByDefault = pasteByDefault
	s.removeFormattingByDefault = removeFormattingByDefault
}

// Reload rebuilds the canonical set from storage. Without a repository,
// or on a read failure, the in-memory set stays authoritative and is
// only re-sorted. The session log is reset: its pointers no longer
// correspond to canonical entries.
func (s *Store) Reload() {
	s.mu.Lock()
	if s.repo != nil {
		entries, err := s.repo.ListAll(context.Background())
		if err != nil {
			s.logger.Error("reload from storage failed, keeping in-memory set", "err", err)
		} else {
			s.entries = entries
			s.sessionLog = make(map[int64]*core.Entry)
		}
	}
	s.resortLocked()
	s.mu.Unlock()
	s.emit(Event{Kind: EventReloaded})
}

// Close flushes pending storage writes.
func (s *Store) Close() error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Sync(); err != nil {
		s.logger.Error("storage sync failed", "err", err)
	}
	return nil
}

// removeLocked deletes the entry from the canonical set, drops its
// session log records, releases transient resources and issues a
// best-effort storage delete.
func (s *Store) removeLocked(entry *core.Entry) {
	if idx := slices.Index(s.entries, entry); idx >= 0 {
		s.entries = slices.Delete(s.entries, idx, idx+1)
	}
	for counter, logged := range s.sessionLog {
		if logged == entry {
			delete(s.sessionLog, counter)
		}
	}
	entry.ReleaseTransient()
	s.persist("delete entry", func(ctx context.Context) error {
		return s.repo.Delete(ctx, entry.Id)
	})
}

func (s *Store) resortLocked() {
	s.entries = s.sorter.Sort(s.entries, s.criteria)
}

// evictLocked removes unpinned entries beyond capacity, oldest per
// sorter order first. Pinned entries are never evicted.
func (s *Store) evictLocked() {
	sorted := s.sorter.Sort(s.entries, s.criteria)
	var unpinned []*core.Entry
	for _, entry := range sorted {
		if !entry.IsPinned() {
			unpinned = append(unpinned, entry)
		}
	}
	for i := len(unpinned) - 1; i >= s.maxSize; i-- {
		s.removeLocked(unpinned[i])
	}
}

func (s *Store) nextFreePinLocked() (rune, bool) {
	used := make(map[rune]bool, len(s.entries))
	for _, entry := range s.entries {
		if entry.IsPinned() {
			used[entry.Pin] = true
		}
	}
	for _, pin := range pinCharacters {
		if !used[pin] {
			return pin, true
		}
	}
	return 0, false
}

// persist runs a best-effort storage operation. The in-memory set is
// authoritative: failures are logged and swallowed.
func (s *Store) persist(op string, fn func(ctx context.Context) error) {
	if s.repo == nil {
		return
	}
	if err := fn(context.Background()); err != nil {
		s.logger.Error("persistence failure, continuing in memory", "op", op, "err", err)
	}
}
