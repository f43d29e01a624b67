package event

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/store"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
	pkgkafka "github.com/Emmanation-Designs/Gibson-Collections/pkg/kafka"
)

type emptyLoader struct{}

func (emptyLoader) Load(ctx context.Context, shopperID string) (domain.StateSnapshot, error) {
	return domain.StateSnapshot{}, apperrors.NotFound("state snapshot", shopperID)
}

func TestCatalogDeletedHandler_PrunesAllStores(t *testing.T) {
	ctx := context.Background()
	m := store.NewManager(emptyLoader{}, slog.Default())

	a := m.Get(ctx, "shopper-a")
	a.AddToCart(ctx, domain.Product{ID: "doomed", Name: "Doomed"})
	a.AddToCart(ctx, domain.Product{ID: "keeper", Name: "Keeper"})

	b := m.Get(ctx, "shopper-b")
	b.ToggleWishlist(ctx, "doomed")
	b.ToggleWishlist(ctx, "keeper")

	event, err := pkgkafka.NewEvent(TopicCatalogDeleted, "doomed", AggregateTypeProduct, SourceStorefront,
		CatalogDeletedData{ProductID: "doomed"})
	require.NoError(t, err)

	h := NewCatalogDeletedHandler(m, slog.Default())
	require.NoError(t, h.Handle(ctx, event))

	require.Len(t, a.Cart(), 1)
	assert.Equal(t, "keeper", a.Cart()[0].ID)
	assert.Equal(t, []string{"keeper"}, b.Wishlist())
}

func TestCatalogDeletedHandler_MissingProductID(t *testing.T) {
	m := store.NewManager(emptyLoader{}, slog.Default())

	event, err := pkgkafka.NewEvent(TopicCatalogDeleted, "", AggregateTypeProduct, SourceStorefront,
		CatalogDeletedData{})
	require.NoError(t, err)

	h := NewCatalogDeletedHandler(m, slog.Default())
	assert.Error(t, h.Handle(context.Background(), event))
}

func TestCatalogDeletedHandler_BadPayload(t *testing.T) {
	m := store.NewManager(emptyLoader{}, slog.Default())

	event, err := pkgkafka.NewEvent(TopicCatalogDeleted, "p1", AggregateTypeProduct, SourceStorefront, "not-an-object")
	require.NoError(t, err)

	h := NewCatalogDeletedHandler(m, slog.Default())
	assert.Error(t, h.Handle(context.Background(), event))
}
