// Package store holds the per-shopper client state: session, cart,
// wishlist and the active search query. All mutations are serialized
// through a mutex and every cart or wishlist mutation is broadcast to
// registered listeners with a consistent snapshot of the new state.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
)

// ChangeKind identifies which persisted slice of state a Change carries.
type ChangeKind string

const (
	ChangeCart     ChangeKind = "cart"
	ChangeWishlist ChangeKind = "wishlist"
)

// Change describes a single committed mutation. Snapshot is a deep copy
// taken under the store lock, so listeners observe changes in the exact
// order they were applied.
type Change struct {
	ShopperID string
	Kind      ChangeKind
	Snapshot  domain.StateSnapshot
}

// Listener receives committed changes. Listeners run synchronously under
// the store lock; keep them fast and offload slow work to goroutines.
type Listener func(ctx context.Context, ch Change)

// Store is the state container for a single shopper.
type Store struct {
	shopperID string

	mu          sync.Mutex
	session     *domain.UserProfile
	cart        []domain.CartItem
	wishlist    []string
	searchQuery string
	listeners   []Listener
}

// New returns an empty store for the given shopper.
func New(shopperID string) *Store {
	return &Store{shopperID: shopperID}
}

// Subscribe registers a listener for subsequent cart and wishlist changes.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Hydrate replaces cart and wishlist with a previously persisted snapshot.
// It does not notify listeners: hydration restores state, it is not a
// shopper action.
func (s *Store) Hydrate(snap domain.StateSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	restored := snap.Clone()
	s.cart = restored.Cart
	s.wishlist = restored.Wishlist
}

// SetSession replaces the active session. A nil profile clears it.
// Cart, wishlist and search query are left untouched.
func (s *Store) SetSession(profile *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile == nil {
		s.session = nil
		return
	}
	p := *profile
	s.session = &p
}

// Session returns the active profile, or nil for a guest.
func (s *Store) Session() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	p := *s.session
	return &p
}

// AddToCart adds one unit of the product. If a line for the product
// already exists its quantity is incremented by 1, otherwise a new line
// with quantity 1 is appended at the end.
func (s *Store) AddToCart(ctx context.Context, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == p.ID {
			s.cart[i].Quantity++
			s.notifyLocked(ctx, ChangeCart)
			return
		}
	}
	s.cart = append(s.cart, domain.CartItem{Product: p.Clone(), Quantity: 1})
	s.notifyLocked(ctx, ChangeCart)
}

// RemoveFromCart deletes the line for the product. Removing an absent
// product is a no-op and emits no change.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == productID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			s.notifyLocked(ctx, ChangeCart)
			return
		}
	}
}

// UpdateQuantity adjusts a line's quantity by delta, clamped so the
// result never drops below 1. Lines are removed only via RemoveFromCart.
// Absent products are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == productID {
			q := s.cart[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			s.cart[i].Quantity = q
			s.notifyLocked(ctx, ChangeCart)
			return
		}
	}
}

// ClearCart empties the cart. Clearing an already empty cart still
// notifies, so downstream consumers see the checkout handoff.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	s.notifyLocked(ctx, ChangeCart)
}

// ToggleWishlist flips the product's wishlist membership.
func (s *Store) ToggleWishlist(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.wishlist, productID); i >= 0 {
		s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
	} else {
		s.wishlist = append(s.wishlist, productID)
	}
	s.notifyLocked(ctx, ChangeWishlist)
}

// RemoveWishlisted drops the product from the wishlist if present.
// Unlike ToggleWishlist it never adds, so it is safe to call for
// products that may already be gone.
func (s *Store) RemoveWishlisted(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.wishlist, productID); i >= 0 {
		s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
		s.notifyLocked(ctx, ChangeWishlist)
	}
}

// SetSearchQuery stores the raw query text verbatim. The query is
// transient and never persisted or broadcast.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

// SearchQuery returns the current raw query text.
func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// Cart returns a deep copy of the cart lines in insertion order.
func (s *Store) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Cart
}

// Wishlist returns a copy of the wishlisted product IDs.
func (s *Store) Wishlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Wishlist
}

// Snapshot returns a deep copy of the persistable state.
func (s *Store) Snapshot() domain.StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.StateSnapshot {
	return domain.StateSnapshot{Cart: s.cart, Wishlist: s.wishlist}.Clone()
}

func (s *Store) notifyLocked(ctx context.Context, kind ChangeKind) {
	if len(s.listeners) == 0 {
		return
	}
	ch := Change{ShopperID: s.shopperID, Kind: kind, Snapshot: s.snapshotLocked()}
	for _, l := range s.listeners {
		l(ctx, ch)
	}
}
