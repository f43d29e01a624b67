package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/store"
	pkgkafka "github.com/Emmanation-Designs/Gibson-Collections/pkg/kafka"
)

// CatalogDeletedHandler prunes a deleted product from every live
// shopper store, so carts and wishlists never reference products the
// catalog no longer has.
type CatalogDeletedHandler struct {
	stores *store.Manager
	logger *slog.Logger
}

// NewCatalogDeletedHandler creates the handler for catalog.deleted events.
func NewCatalogDeletedHandler(stores *store.Manager, logger *slog.Logger) *CatalogDeletedHandler {
	return &CatalogDeletedHandler{stores: stores, logger: logger}
}

// Handle processes a single catalog.deleted event.
func (h *CatalogDeletedHandler) Handle(ctx context.Context, event *pkgkafka.Event) error {
	var data CatalogDeletedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal catalog.deleted data: %w", err)
	}
	if data.ProductID == "" {
		return fmt.Errorf("catalog.deleted event missing product_id")
	}

	pruned := 0
	h.stores.Each(func(shopperID string, st *store.Store) {
		st.RemoveFromCart(ctx, data.ProductID)
		st.RemoveWishlisted(ctx, data.ProductID)
		pruned++
	})

	h.logger.InfoContext(ctx, "pruned deleted product from shopper state",
		slog.String("product_id", data.ProductID),
		slog.Int("stores_checked", pruned),
	)
	return nil
}
