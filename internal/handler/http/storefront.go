package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	"github.com/Emmanation-Designs/Gibson-Collections/internal/service"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/httputil"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/validator"
)

// maxUploadBytes caps product image uploads at 10 MB.
const maxUploadBytes = 10 << 20

// StorefrontHandler handles HTTP requests for the storefront API.
type StorefrontHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler.
func NewStorefrontHandler(svc *service.StorefrontService, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddToCartRequest is the JSON request body for adding a product to the cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// UpdateQuantityRequest is the JSON request body for adjusting a cart line.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// SearchRequest is the JSON request body for setting the search query.
type SearchRequest struct {
	Query string `json:"query"`
}

// --- Catalog handlers ---

// Catalog handles GET /api/v1/catalog?category=...
func (h *StorefrontHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	category := r.URL.Query().Get("category")
	if category == "" {
		category = domain.CategoryAll
	}

	products, err := h.service.Browse(r.Context(), shopperID, category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Grouped handles GET /api/v1/catalog/grouped
func (h *StorefrontHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.Grouped(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: groups})
}

// CreateProduct handles POST /api/v1/catalog
func (h *StorefrontHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.service.CreateProduct(r.Context(), profileFromContext(r.Context()), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// DeleteProduct handles DELETE /api/v1/catalog/{productID}
func (h *StorefrontHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	if err := h.service.DeleteProduct(r.Context(), profileFromContext(r.Context()), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// --- Cart handlers ---

// GetCart handles GET /api/v1/cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	cart := h.service.Cart(r.Context(), shopperID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddToCart handles POST /api/v1/cart/items
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddToCart(r.Context(), shopperID, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{productID}
func (h *StorefrontHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), shopperID, productID, req.Delta)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveFromCart handles DELETE /api/v1/cart/items/{productID}
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	cart, err := h.service.RemoveFromCart(r.Context(), shopperID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	cart, err := h.service.ClearCart(r.Context(), shopperID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// --- Wishlist handlers ---

// GetWishlist handles GET /api/v1/wishlist
func (h *StorefrontHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	wishlist := h.service.Wishlist(r.Context(), shopperID)
	if wishlist == nil {
		wishlist = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}

// ToggleWishlist handles POST /api/v1/wishlist/{productID}/toggle
func (h *StorefrontHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	wishlist, err := h.service.ToggleWishlist(r.Context(), shopperID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if wishlist == nil {
		wishlist = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}

// --- Search handler ---

// SetSearchQuery handles PUT /api/v1/search
func (h *StorefrontHandler) SetSearchQuery(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	// The query is stored verbatim; empty clears it.
	h.service.SetSearchQuery(r.Context(), shopperID, req.Query)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"query": req.Query}})
}

// --- Session handlers ---

// GetSession handles GET /api/v1/session
func (h *StorefrontHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	profile, isAdmin := h.service.Session(r.Context(), shopperID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"profile":  profile,
		"is_admin": isAdmin,
	}})
}

// RefreshSession handles POST /api/v1/session/refresh
func (h *StorefrontHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	token := accessTokenFromContext(r.Context())
	if token == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("session refresh requires a signed-in session"), h.logger)
		return
	}

	profile, isAdmin, err := h.service.RefreshSession(r.Context(), shopperID, token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"profile":  profile,
		"is_admin": isAdmin,
	}})
}

// SignOut handles POST /api/v1/session/signout
func (h *StorefrontHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := shopperIDFromContext(r.Context())

	token := accessTokenFromContext(r.Context())
	if token == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("sign-out requires a signed-in session"), h.logger)
		return
	}

	if err := h.service.SignOut(r.Context(), shopperID, token); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "signed_out"}})
}

// --- Upload handler ---

// UploadImage handles POST /api/v1/uploads
func (h *StorefrontHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()), h.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("image file is required"), h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.service.UploadImage(
		r.Context(),
		profileFromContext(r.Context()),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
