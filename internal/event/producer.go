// Package event publishes and consumes storefront domain events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/store"
	pkgkafka "github.com/Emmanation-Designs/Gibson-Collections/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicCartCleared     = "storefront.cart.cleared"
	TopicWishlistUpdated = "storefront.wishlist.updated"
	TopicCatalogDeleted  = "storefront.catalog.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeShopper = "shopper"
	AggregateTypeProduct = "product"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for cart.updated and cart.cleared events.
type CartUpdatedData struct {
	ShopperID   string         `json:"shopper_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount int64          `json:"total_amount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	ShopperID  string   `json:"shopper_id"`
	ProductIDs []string `json:"product_ids"`
}

// CatalogDeletedData is the payload for a catalog.deleted event.
type CatalogDeletedData struct {
	ProductID string `json:"product_id"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// Listener returns a store listener that mirrors every committed cart
// and wishlist change onto the event bus. Publish failures are logged
// and swallowed so the bus can never block a shopper action.
func (p *Producer) Listener() store.Listener {
	return func(ctx context.Context, ch store.Change) {
		var err error
		switch ch.Kind {
		case store.ChangeCart:
			if len(ch.Snapshot.Cart) == 0 {
				err = p.publishCartCleared(ctx, ch)
			} else {
				err = p.publishCartUpdated(ctx, ch)
			}
		case store.ChangeWishlist:
			err = p.publishWishlistUpdated(ctx, ch)
		}
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to publish store change",
				slog.String("shopper_id", ch.ShopperID),
				slog.String("change_kind", string(ch.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (p *Producer) publishCartUpdated(ctx context.Context, ch store.Change) error {
	data := cartData(ch)

	event, err := pkgkafka.NewEvent(TopicCartUpdated, ch.ShopperID, AggregateTypeShopper, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("shopper_id", ch.ShopperID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

func (p *Producer) publishCartCleared(ctx context.Context, ch store.Change) error {
	data := cartData(ch)

	event, err := pkgkafka.NewEvent(TopicCartCleared, ch.ShopperID, AggregateTypeShopper, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("shopper_id", ch.ShopperID),
	)
	return nil
}

func (p *Producer) publishWishlistUpdated(ctx context.Context, ch store.Change) error {
	data := WishlistUpdatedData{
		ShopperID:  ch.ShopperID,
		ProductIDs: ch.Snapshot.Wishlist,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, ch.ShopperID, AggregateTypeShopper, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("shopper_id", ch.ShopperID),
		slog.Int("wishlist_size", len(ch.Snapshot.Wishlist)),
	)
	return nil
}

// PublishCatalogDeleted announces that an administrator removed a
// product from the catalog, so live shopper state can be pruned.
func (p *Producer) PublishCatalogDeleted(ctx context.Context, productID string) error {
	data := CatalogDeletedData{ProductID: productID}

	event, err := pkgkafka.NewEvent(TopicCatalogDeleted, productID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create catalog.deleted event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicCatalogDeleted, event); err != nil {
		return fmt.Errorf("publish catalog.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published catalog.deleted event",
		slog.String("product_id", productID),
	)
	return nil
}

func cartData(ch store.Change) CartUpdatedData {
	items := make([]CartItemData, len(ch.Snapshot.Cart))
	count := 0
	for i, item := range ch.Snapshot.Cart {
		items[i] = CartItemData{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
		count += item.Quantity
	}
	return CartUpdatedData{
		ShopperID:   ch.ShopperID,
		Items:       items,
		ItemCount:   count,
		TotalAmount: ch.Snapshot.TotalAmount(),
	}
}
