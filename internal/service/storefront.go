// Package service implements the storefront business logic: catalog
// browsing, per-shopper cart and wishlist operations, admin catalog
// management and the checkout handoff.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/storage"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/store"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/view"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
)

// CatalogClient is the remote catalog API surface the service needs.
type CatalogClient interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// IdentityProvider is the identity API surface the service needs.
type IdentityProvider interface {
	CurrentSession(ctx context.Context, accessToken string) (*domain.UserProfile, error)
	SignOut(ctx context.Context, accessToken string) error
}

// EventPublisher announces catalog changes on the event bus.
type EventPublisher interface {
	PublishCatalogDeleted(ctx context.Context, productID string) error
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Price       int64    `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"max=2000"`
	Images      []string `json:"images" validate:"required,min=1,dive,url"`
}

// CartView is the cart read model returned to shoppers.
type CartView struct {
	Items       []domain.CartItem `json:"items"`
	Count       int               `json:"count"`
	TotalAmount int64             `json:"total_amount"`
	CheckoutURL string            `json:"checkout_url"`
}

// StorefrontService coordinates shopper state, the remote catalog and
// the external collaborators.
type StorefrontService struct {
	stores   *store.Manager
	catalog  CatalogClient
	identity IdentityProvider
	storage  storage.Storage
	events   EventPublisher
	logger   *slog.Logger

	adminEmails    []string
	groupLimit     int
	whatsappNumber string
	catalogTTL     time.Duration

	// Catalog cache. fetchSeq orders concurrent refreshes so a slow
	// earlier response can never overwrite a newer one.
	mu         sync.Mutex
	cached     []domain.Product
	cachedAt   time.Time
	fetchSeq   uint64
	appliedSeq uint64
}

// Config holds the tunables for the storefront service.
type Config struct {
	AdminEmails    []string
	GroupLimit     int
	WhatsAppNumber string
	CatalogTTL     time.Duration
}

// NewStorefrontService creates the storefront service.
func NewStorefrontService(
	stores *store.Manager,
	catalog CatalogClient,
	identity IdentityProvider,
	storage storage.Storage,
	events EventPublisher,
	logger *slog.Logger,
	cfg Config,
) *StorefrontService {
	return &StorefrontService{
		stores:         stores,
		catalog:        catalog,
		identity:       identity,
		storage:        storage,
		events:         events,
		logger:         logger,
		adminEmails:    cfg.AdminEmails,
		groupLimit:     cfg.GroupLimit,
		whatsappNumber: cfg.WhatsAppNumber,
		catalogTTL:     cfg.CatalogTTL,
	}
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Catalog returns the product listing, newest first, refreshing the
// cache when it has gone stale. Catalog unavailability is surfaced,
// never masked as an empty listing.
func (s *StorefrontService) Catalog(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	if s.appliedSeq > 0 && time.Since(s.cachedAt) < s.catalogTTL {
		products := cloneProducts(s.cached)
		s.mu.Unlock()
		return products, nil
	}
	s.mu.Unlock()

	return s.RefreshCatalog(ctx)
}

// RefreshCatalog fetches the listing from the catalog service. When
// refreshes overlap, only the most recently started fetch may update
// the cache; responses from older fetches are discarded.
func (s *StorefrontService) RefreshCatalog(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.appliedSeq {
		s.cached = products
		s.cachedAt = time.Now()
		s.appliedSeq = seq
	} else {
		s.logger.DebugContext(ctx, "discarding stale catalog response",
			slog.Uint64("fetch_seq", seq),
			slog.Uint64("applied_seq", s.appliedSeq),
		)
	}
	return cloneProducts(s.cached), nil
}

// Browse returns the listing filtered by the shopper's stored search
// query and the selected category.
func (s *StorefrontService) Browse(ctx context.Context, shopperID, category string) ([]domain.Product, error) {
	if category != domain.CategoryAll && !domain.IsValidCategory(category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", category))
	}

	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	query := s.stores.Get(ctx, shopperID).SearchQuery()
	return view.FilteredProducts(products, query, category), nil
}

// Grouped returns the home-page sections: each browsable category with
// up to the configured number of its newest products.
func (s *StorefrontService) Grouped(ctx context.Context) ([]view.CategoryGroup, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return view.GroupedByCategory(products, s.groupLimit), nil
}

// CreateProduct inserts a product into the catalog. Administrators only.
func (s *StorefrontService) CreateProduct(ctx context.Context, profile *domain.UserProfile, input CreateProductInput) (domain.Product, error) {
	if !view.IsAdmin(profile, s.adminEmails) {
		return domain.Product{}, apperrors.Forbidden("administrator access required")
	}
	if !domain.IsValidCategory(input.Category) {
		return domain.Product{}, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", input.Category))
	}

	created, err := s.catalog.Create(ctx, domain.Product{
		Name:        input.Name,
		Price:       input.Price,
		Category:    domain.Category(input.Category),
		Description: input.Description,
		Images:      input.Images,
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	// Prepend to the cached listing so the new product shows without a
	// refetch; the listing is newest first.
	s.mu.Lock()
	if s.appliedSeq > 0 {
		s.cached = append([]domain.Product{created.Clone()}, s.cached...)
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", created.ID),
		slog.String("category", string(created.Category)),
		slog.String("admin_email", profile.Email),
	)
	return created, nil
}

// DeleteProduct removes a product from the catalog. Administrators
// only. The cached listing is trimmed in place rather than refetched,
// and the deletion is announced so shopper state can be pruned.
func (s *StorefrontService) DeleteProduct(ctx context.Context, profile *domain.UserProfile, productID string) error {
	if !view.IsAdmin(profile, s.adminEmails) {
		return apperrors.Forbidden("administrator access required")
	}
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.catalog.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.mu.Lock()
	for i := range s.cached {
		if s.cached[i].ID == productID {
			s.cached = append(s.cached[:i], s.cached[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if err := s.events.PublishCatalogDeleted(ctx, productID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish catalog.deleted event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", productID),
		slog.String("admin_email", profile.Email),
	)
	return nil
}

// ---------------------------------------------------------------------------
// Cart and wishlist
// ---------------------------------------------------------------------------

// AddToCart adds one unit of the product to the shopper's cart. The
// product must exist in the catalog.
func (s *StorefrontService) AddToCart(ctx context.Context, shopperID, productID string) (CartView, error) {
	if productID == "" {
		return CartView{}, apperrors.InvalidInput("product id is required")
	}

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return CartView{}, err
	}

	st := s.stores.Get(ctx, shopperID)
	st.AddToCart(ctx, product)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", productID),
	)
	return s.cartView(st), nil
}

// RemoveFromCart removes the product's line from the shopper's cart.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, shopperID, productID string) (CartView, error) {
	if productID == "" {
		return CartView{}, apperrors.InvalidInput("product id is required")
	}

	st := s.stores.Get(ctx, shopperID)
	st.RemoveFromCart(ctx, productID)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", productID),
	)
	return s.cartView(st), nil
}

// UpdateQuantity adjusts a cart line by delta, never below one.
func (s *StorefrontService) UpdateQuantity(ctx context.Context, shopperID, productID string, delta int) (CartView, error) {
	if productID == "" {
		return CartView{}, apperrors.InvalidInput("product id is required")
	}
	if delta == 0 {
		return CartView{}, apperrors.InvalidInput("delta must not be zero")
	}

	st := s.stores.Get(ctx, shopperID)
	st.UpdateQuantity(ctx, productID, delta)
	return s.cartView(st), nil
}

// ClearCart empties the shopper's cart, typically after checkout.
func (s *StorefrontService) ClearCart(ctx context.Context, shopperID string) (CartView, error) {
	st := s.stores.Get(ctx, shopperID)
	st.ClearCart(ctx)

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("shopper_id", shopperID),
	)
	return s.cartView(st), nil
}

// Cart returns the shopper's cart read model.
func (s *StorefrontService) Cart(ctx context.Context, shopperID string) CartView {
	return s.cartView(s.stores.Get(ctx, shopperID))
}

// ToggleWishlist flips the product's membership in the wishlist.
func (s *StorefrontService) ToggleWishlist(ctx context.Context, shopperID, productID string) ([]string, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	st := s.stores.Get(ctx, shopperID)
	st.ToggleWishlist(ctx, productID)
	return st.Wishlist(), nil
}

// Wishlist returns the shopper's wishlisted product IDs.
func (s *StorefrontService) Wishlist(ctx context.Context, shopperID string) []string {
	return s.stores.Get(ctx, shopperID).Wishlist()
}

// SetSearchQuery stores the shopper's search text verbatim.
func (s *StorefrontService) SetSearchQuery(ctx context.Context, shopperID, query string) {
	s.stores.Get(ctx, shopperID).SetSearchQuery(query)
}

// ---------------------------------------------------------------------------
// Session and uploads
// ---------------------------------------------------------------------------

// SyncSession records the verified profile on the shopper's store.
func (s *StorefrontService) SyncSession(ctx context.Context, shopperID string, profile *domain.UserProfile) {
	s.stores.Get(ctx, shopperID).SetSession(profile)
}

// Session returns the shopper's active profile, with an admin flag.
func (s *StorefrontService) Session(ctx context.Context, shopperID string) (*domain.UserProfile, bool) {
	profile := s.stores.Get(ctx, shopperID).Session()
	return profile, view.IsAdmin(profile, s.adminEmails)
}

// RefreshSession confirms the access token with the identity provider
// and records the provider's view of the profile on the shopper's
// store. Local verification alone cannot see revocation; this can.
func (s *StorefrontService) RefreshSession(ctx context.Context, shopperID, accessToken string) (*domain.UserProfile, bool, error) {
	profile, err := s.identity.CurrentSession(ctx, accessToken)
	if err != nil {
		return nil, false, fmt.Errorf("refresh session: %w", err)
	}

	s.stores.Get(ctx, shopperID).SetSession(profile)
	return profile, view.IsAdmin(profile, s.adminEmails), nil
}

// SignOut revokes the token at the identity provider and clears the
// local session. The local session is cleared even when revocation
// fails, so a shopper is never stuck signed in.
func (s *StorefrontService) SignOut(ctx context.Context, shopperID, accessToken string) error {
	err := s.identity.SignOut(ctx, accessToken)
	s.stores.Get(ctx, shopperID).SetSession(nil)

	if err != nil {
		s.logger.WarnContext(ctx, "identity sign-out failed, session cleared locally",
			slog.String("shopper_id", shopperID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("sign out: %w", err)
	}

	s.logger.InfoContext(ctx, "shopper signed out",
		slog.String("shopper_id", shopperID),
	)
	return nil
}

// UploadImage stores a product image under a generated key.
// Administrators only.
func (s *StorefrontService) UploadImage(ctx context.Context, profile *domain.UserProfile, filename, contentType string, size int64, data io.Reader) (*storage.UploadResult, error) {
	if !view.IsAdmin(profile, s.adminEmails) {
		return nil, apperrors.Forbidden("administrator access required")
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported image type %q", ext))
	}

	key := uuid.New().String() + ext
	result, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: contentType,
		Size:        size,
		Data:        data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	s.logger.InfoContext(ctx, "product image uploaded",
		slog.String("key", result.Key),
		slog.String("admin_email", profile.Email),
	)
	return result, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *StorefrontService) cartView(st *store.Store) CartView {
	snap := st.Snapshot()
	items := snap.Cart
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartView{
		Items:       items,
		Count:       view.CartCount(items),
		TotalAmount: snap.TotalAmount(),
		CheckoutURL: view.CheckoutURL(s.whatsappNumber, items),
	}
}

func (s *StorefrontService) findProduct(ctx context.Context, productID string) (domain.Product, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == productID {
			return p, nil
		}
	}
	return domain.Product{}, apperrors.NotFound("product", productID)
}

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
