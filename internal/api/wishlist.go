package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenloop/ecostore/internal/domain/product"
	"github.com/greenloop/ecostore/internal/domain/wishlist"
)

type wishlistItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	ProductPrice decimal.Decimal `json:"product_price"`
	AddedAt      time.Time       `json:"added_at"`
}

func (h *Handler) listWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlists.List(r.Context(), customerID(r.Context()))
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]wishlistItemResponse, len(items))
	for i, it := range items {
		out[i] = wishlistItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: h.imageURL(it.ProductImage),
			ProductPrice: it.ProductPrice,
			AddedAt:      it.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type addWishlistItemRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) addWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req addWishlistItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeFieldErrors(w, map[string]string{"product_id": "required"})
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		internalError(w, r, err)
		return
	}

	created, err := h.wishlists.Add(r.Context(), wishlist.Item{
		CustomerID:   customerID(r.Context()),
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
		ProductPrice: p.Price,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already in wishlist"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Added to wishlist"})
}

func (h *Handler) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	err := h.wishlists.Remove(r.Context(), customerID(r.Context()), r.PathValue("productID"))
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from wishlist"})
}
