package persist

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/store"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
)

type fakeRepo struct {
	saved   map[string]domain.StateSnapshot
	saveErr error
	saves   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(map[string]domain.StateSnapshot)}
}

func (r *fakeRepo) Load(ctx context.Context, shopperID string) (domain.StateSnapshot, error) {
	snap, ok := r.saved[shopperID]
	if !ok {
		return domain.StateSnapshot{}, apperrors.NotFound("state snapshot", shopperID)
	}
	return snap, nil
}

func (r *fakeRepo) Save(ctx context.Context, shopperID string, snap domain.StateSnapshot) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved[shopperID] = snap
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, shopperID string) error {
	delete(r.saved, shopperID)
	return nil
}

func TestPersister_SavesEachChange(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	p := New(repo, slog.Default())

	st := store.New("shopper-1")
	st.Subscribe(p.Listener())

	st.AddToCart(ctx, domain.Product{ID: "p1", Price: 1000})
	st.ToggleWishlist(ctx, "p2")

	assert.Equal(t, 2, repo.saves)
	snap := repo.saved["shopper-1"]
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, "p1", snap.Cart[0].ID)
	assert.Equal(t, []string{"p2"}, snap.Wishlist)
}

func TestPersister_SaveFailureDoesNotBlockMutation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.saveErr = errors.New("redis down")
	p := New(repo, slog.Default())

	st := store.New("shopper-1")
	st.Subscribe(p.Listener())

	st.AddToCart(ctx, domain.Product{ID: "p1"})

	// In-memory state advanced despite the persistence failure.
	require.Len(t, st.Cart(), 1)
	assert.Equal(t, 1, repo.saves)
}
