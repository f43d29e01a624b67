// Package persist bridges store changes to the snapshot repository.
package persist

import (
	"context"
	"log/slog"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/repository"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/store"
)

// Persister subscribes to store changes and writes each committed
// snapshot through the repository. Write failures are logged and
// swallowed: persistence is best-effort and must never block or fail a
// shopper action.
type Persister struct {
	repo   repository.SnapshotRepository
	logger *slog.Logger
}

// New creates a Persister writing through repo.
func New(repo repository.SnapshotRepository, logger *slog.Logger) *Persister {
	return &Persister{repo: repo, logger: logger}
}

// Listener returns the store listener to subscribe.
func (p *Persister) Listener() store.Listener {
	return func(ctx context.Context, ch store.Change) {
		if err := p.repo.Save(ctx, ch.ShopperID, ch.Snapshot); err != nil {
			p.logger.ErrorContext(ctx, "failed to persist shopper state",
				slog.String("shopper_id", ch.ShopperID),
				slog.String("change_kind", string(ch.Kind)),
				slog.String("error", err.Error()))
		}
	}
}
