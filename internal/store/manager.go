package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
)

// SnapshotLoader restores a shopper's persisted snapshot. It is the
// read half of the persistence adapter; the write half subscribes to
// store changes.
type SnapshotLoader interface {
	Load(ctx context.Context, shopperID string) (domain.StateSnapshot, error)
}

// Manager owns one Store per shopper and hydrates each from persistence
// on first access. Stores live for the process lifetime once created.
type Manager struct {
	loader    SnapshotLoader
	logger    *slog.Logger
	listeners []Listener

	mu     sync.RWMutex
	stores map[string]*Store
}

// NewManager builds a manager whose stores hydrate through loader and
// broadcast changes to the given listeners.
func NewManager(loader SnapshotLoader, logger *slog.Logger, listeners ...Listener) *Manager {
	return &Manager{
		loader:    loader,
		logger:    logger,
		listeners: listeners,
		stores:    make(map[string]*Store),
	}
}

// Get returns the store for the shopper, creating and hydrating it on
// first access. A missing snapshot yields an empty store. A snapshot
// that cannot be loaded or parsed is treated the same way: state
// restoration degrades silently rather than failing the request.
func (m *Manager) Get(ctx context.Context, shopperID string) *Store {
	m.mu.RLock()
	st, ok := m.stores[shopperID]
	m.mu.RUnlock()
	if ok {
		return st
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.stores[shopperID]; ok {
		return st
	}

	st = New(shopperID)
	if snap, err := m.loader.Load(ctx, shopperID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			m.logger.WarnContext(ctx, "failed to restore shopper state, starting empty",
				slog.String("shopper_id", shopperID),
				slog.String("error", err.Error()))
		}
	} else {
		st.Hydrate(snap)
	}
	for _, l := range m.listeners {
		st.Subscribe(l)
	}
	m.stores[shopperID] = st
	return st
}

// Each calls fn for every live store. Used by consumers that must
// touch all shoppers, such as pruning deleted products.
func (m *Manager) Each(fn func(shopperID string, st *Store)) {
	m.mu.RLock()
	snapshot := make(map[string]*Store, len(m.stores))
	for id, st := range m.stores {
		snapshot[id] = st
	}
	m.mu.RUnlock()

	for id, st := range snapshot {
		fn(id, st)
	}
}
