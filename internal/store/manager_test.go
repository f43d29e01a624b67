package store

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
)

type stubLoader struct {
	snapshots map[string]domain.StateSnapshot
	err       error
	calls     int
}

func (l *stubLoader) Load(ctx context.Context, shopperID string) (domain.StateSnapshot, error) {
	l.calls++
	if l.err != nil {
		return domain.StateSnapshot{}, l.err
	}
	snap, ok := l.snapshots[shopperID]
	if !ok {
		return domain.StateSnapshot{}, apperrors.NotFound("snapshot", shopperID)
	}
	return snap, nil
}

func TestManager_Get_HydratesOnce(t *testing.T) {
	loader := &stubLoader{snapshots: map[string]domain.StateSnapshot{
		"shopper-1": {
			Cart:     []domain.CartItem{{Product: product("p1"), Quantity: 3}},
			Wishlist: []string{"p2"},
		},
	}}
	m := NewManager(loader, slog.Default())

	st := m.Get(context.Background(), "shopper-1")
	require.Len(t, st.Cart(), 1)
	assert.Equal(t, 3, st.Cart()[0].Quantity)
	assert.Equal(t, []string{"p2"}, st.Wishlist())

	again := m.Get(context.Background(), "shopper-1")
	assert.Same(t, st, again)
	assert.Equal(t, 1, loader.calls)
}

func TestManager_Get_MissingSnapshotStartsEmpty(t *testing.T) {
	m := NewManager(&stubLoader{}, slog.Default())

	st := m.Get(context.Background(), "new-shopper")
	assert.Empty(t, st.Cart())
	assert.Empty(t, st.Wishlist())
}

func TestManager_Get_LoadFailureDegradesToEmpty(t *testing.T) {
	m := NewManager(&stubLoader{err: apperrors.Internal(errors.New("redis down"))}, slog.Default())

	st := m.Get(context.Background(), "shopper-1")
	require.NotNil(t, st)
	assert.Empty(t, st.Cart())
}

func TestManager_Get_AttachesListeners(t *testing.T) {
	var changes int
	m := NewManager(&stubLoader{}, slog.Default(), func(ctx context.Context, ch Change) { changes++ })

	st := m.Get(context.Background(), "shopper-1")
	st.AddToCart(context.Background(), product("p1"))

	assert.Equal(t, 1, changes)
}

func TestManager_Each(t *testing.T) {
	m := NewManager(&stubLoader{}, slog.Default())
	m.Get(context.Background(), "a")
	m.Get(context.Background(), "b")

	seen := map[string]bool{}
	m.Each(func(id string, st *Store) { seen[id] = true })

	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}
