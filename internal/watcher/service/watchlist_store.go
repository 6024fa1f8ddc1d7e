package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/internal/watcher/repository"
	"golang-stock-watcher/pkg/logger"
)

// WatchlistStore owns the in-memory watchlist and writes every completed
// mutation through to the repository.
type WatchlistStore interface {
	// Load replaces the in-memory watchlist with the persisted one. A missing or
	// corrupt file yields an empty watchlist.
	Load(ctx context.Context) entity.Watchlist
	// Save replaces the watchlist and persists it.
	Save(ctx context.Context, watchlist entity.Watchlist) error
	// Snapshot returns an immutable copy for a check pass or a listing.
	Snapshot() entity.Watchlist
	Get(symbol string) (entity.WatchEntry, error)
	Categories() []entity.CategoryGroup
	Add(ctx context.Context, entry entity.WatchEntry) error
	Remove(ctx context.Context, symbol string) error
	RemoveCategory(ctx context.Context, category string) (int, error)
	Update(ctx context.Context, symbol string, mutate func(*entity.WatchEntry) error) (entity.WatchEntry, error)
	Move(ctx context.Context, symbol string, direction entity.Direction) error
	// Flush retries a write that previously failed.
	Flush(ctx context.Context) error
	Dirty() bool
}

type watchlistStore struct {
	mu      sync.RWMutex
	entries entity.Watchlist
	dirty   bool
	repo    repository.WatchlistRepository
	events  event.Publisher
	logger  *logger.Logger
}

// NewWatchlistStore creates an empty store. Call Load to read the file.
func NewWatchlistStore(repo repository.WatchlistRepository, events event.Publisher, log *logger.Logger) WatchlistStore {
	if events == nil {
		events = event.Nop{}
	}
	return &watchlistStore{
		entries: entity.Watchlist{},
		repo:    repo,
		events:  events,
		logger:  log,
	}
}

func (s *watchlistStore) Load(ctx context.Context) entity.Watchlist {
	watchlist, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Watchlist file unreadable, starting with an empty watchlist",
			logger.StringField("path", s.repo.Path()), logger.ErrorField(err))
		s.events.TryPublish(event.Log("", event.SeverityWarning,
			fmt.Sprintf("Watchlist file %s could not be read, starting empty", s.repo.Path())))
		watchlist = entity.Watchlist{}
	}

	s.mu.Lock()
	s.entries = watchlist
	s.dirty = false
	s.mu.Unlock()

	s.events.TryPublish(event.WatchlistChanged("loaded"))
	return watchlist.Clone()
}

func (s *watchlistStore) Save(ctx context.Context, watchlist entity.Watchlist) error {
	next := make(entity.Watchlist, 0, len(watchlist))
	seen := make(map[string]struct{}, len(watchlist))
	for _, e := range watchlist {
		e = e.Normalize()
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.Symbol]; dup {
			return fmt.Errorf("%w: %s", entity.ErrDuplicateSymbol, e.Symbol)
		}
		seen[e.Symbol] = struct{}{}
		next = append(next, e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, next, "replaced")
}

func (s *watchlistStore) Snapshot() entity.Watchlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Clone()
}

func (s *watchlistStore) Get(symbol string) (entity.WatchEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.entries.IndexOf(symbol)
	if idx < 0 {
		return entity.WatchEntry{}, fmt.Errorf("%w: %s", entity.ErrNotFound, symbol)
	}
	return s.entries[idx], nil
}

// Categories groups entries by category. Categories are sorted by name and
// entries keep their stored order.
func (s *watchlistStore) Categories() []entity.CategoryGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	var groups []entity.CategoryGroup
	for _, e := range s.entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, entity.CategoryGroup{Category: e.Category})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Category < groups[b].Category
	})
	return groups
}

func (s *watchlistStore) Add(ctx context.Context, entry entity.WatchEntry) error {
	entry = entry.Normalize()
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries.IndexOf(entry.Symbol) >= 0 {
		return fmt.Errorf("%w: %s", entity.ErrDuplicateSymbol, entry.Symbol)
	}

	next := append(s.entries.Clone(), entry)
	return s.commit(ctx, next, "added "+entry.Symbol)
}

func (s *watchlistStore) Remove(ctx context.Context, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.entries.IndexOf(symbol)
	if idx < 0 {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, symbol)
	}

	next := make(entity.Watchlist, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	return s.commit(ctx, next, "removed "+symbol)
}

func (s *watchlistStore) RemoveCategory(ctx context.Context, category string) (int, error) {
	category = entity.WatchEntry{Category: category}.Normalize().Category

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(entity.Watchlist, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Category != category {
			next = append(next, e)
		}
	}
	removed := len(s.entries) - len(next)
	if removed == 0 {
		return 0, fmt.Errorf("%w: no entries in category %q", entity.ErrNotFound, category)
	}
	return removed, s.commit(ctx, next, fmt.Sprintf("removed category %s", category))
}

// Update applies mutate to a copy of the entry and commits it when the result
// is valid. The symbol may change as long as it does not collide with another
// entry.
func (s *watchlistStore) Update(ctx context.Context, symbol string, mutate func(*entity.WatchEntry) error) (entity.WatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.entries.IndexOf(symbol)
	if idx < 0 {
		return entity.WatchEntry{}, fmt.Errorf("%w: %s", entity.ErrNotFound, symbol)
	}

	updated := s.entries[idx]
	if err := mutate(&updated); err != nil {
		return entity.WatchEntry{}, err
	}
	updated = updated.Normalize()
	if err := updated.Validate(); err != nil {
		return entity.WatchEntry{}, err
	}
	if updated.Symbol != symbol {
		if other := s.entries.IndexOf(updated.Symbol); other >= 0 && other != idx {
			return entity.WatchEntry{}, fmt.Errorf("%w: %s", entity.ErrDuplicateSymbol, updated.Symbol)
		}
	}

	next := s.entries.Clone()
	next[idx] = updated
	return updated, s.commit(ctx, next, "updated "+symbol)
}

// Move swaps the entry with its neighbour. Moving past either end is a no-op.
func (s *watchlistStore) Move(ctx context.Context, symbol string, direction entity.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.entries.IndexOf(symbol)
	if idx < 0 {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, symbol)
	}
	target := idx + int(direction)
	if target < 0 || target >= len(s.entries) {
		return nil
	}

	next := s.entries.Clone()
	next[idx], next[target] = next[target], next[idx]
	return s.commit(ctx, next, fmt.Sprintf("moved %s %s", symbol, direction))
}

func (s *watchlistStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.persist(ctx)
}

func (s *watchlistStore) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// commit installs next as the live watchlist and writes it through. Callers
// hold s.mu. A failed write leaves next in place and marks the store dirty.
func (s *watchlistStore) commit(ctx context.Context, next entity.Watchlist, change string) error {
	s.entries = next
	s.events.TryPublish(event.WatchlistChanged(change))
	s.logger.DebugContext(ctx, "Watchlist changed", logger.StringField("change", change), logger.IntField("entries", len(next)))
	return s.persist(ctx)
}

func (s *watchlistStore) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.entries); err != nil {
		s.dirty = true
		s.logger.ErrorContext(ctx, "Failed to save watchlist", logger.StringField("path", s.repo.Path()), logger.ErrorField(err))
		s.events.TryPublish(event.Log("", event.SeverityError, fmt.Sprintf("Failed to save watchlist: %v", err)))
		return fmt.Errorf("%w: %v", entity.ErrPersistenceFailure, err)
	}
	s.dirty = false
	return nil
}
