// Package repository defines the persistence port for shopper state.
package repository

import (
	"context"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
)

// SnapshotRepository persists the cart/wishlist snapshot per shopper.
// Only the snapshot is stored: session and search text never reach
// persistence.
type SnapshotRepository interface {
	// Load returns the stored snapshot, or apperrors.ErrNotFound when
	// the shopper has no persisted state.
	Load(ctx context.Context, shopperID string) (domain.StateSnapshot, error)
	// Save overwrites the shopper's snapshot.
	Save(ctx context.Context, shopperID string, snap domain.StateSnapshot) error
	// Delete removes the shopper's snapshot. Deleting absent state is
	// not an error.
	Delete(ctx context.Context, shopperID string) error
}
