package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenloop/ecostore/internal/domain/cart"
	"github.com/greenloop/ecostore/internal/domain/product"
)

type cartItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	Items       []cartItemResponse `json:"items"`
	TotalItems  int                `json:"total_items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

func (h *Handler) toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemResponse, len(c.Items))
	for i, li := range c.Items {
		items[i] = cartItemResponse{
			ProductID:    li.ProductID,
			ProductName:  li.ProductName,
			ProductImage: h.imageURL(li.ProductImage),
			UnitPrice:    li.UnitPrice,
			Quantity:     li.Quantity,
			LineTotal:    li.LineTotal(),
		}
	}
	return cartResponse{
		Items:       items,
		TotalItems:  c.TotalItems(),
		TotalAmount: c.TotalAmount(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.GetOrCreate(r.Context(), customerID(r.Context()))
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toCartResponse(c))
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	fields := map[string]string{}
	if req.ProductID == "" {
		fields["product_id"] = "required"
	}
	if req.Quantity < 1 {
		fields["quantity"] = "must be at least 1"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	// Price, name and image are captured here, at add time.
	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		internalError(w, r, err)
		return
	}
	if !p.InStock(req.Quantity) {
		writeFieldErrors(w, map[string]string{"quantity": "insufficient stock"})
		return
	}

	err = h.carts.AddItem(r.Context(), customerID(r.Context()), cart.LineItem{
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
		UnitPrice:    p.Price,
		Quantity:     req.Quantity,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Item added to cart"})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		writeFieldErrors(w, map[string]string{"quantity": "must be at least 1"})
		return
	}

	err := h.carts.UpdateItemQuantity(r.Context(), customerID(r.Context()), r.PathValue("productID"), req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) || errors.Is(err, cart.ErrNotFound) {
			writeError(w, http.StatusNotFound, "cart item not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart updated"})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	err := h.carts.RemoveItem(r.Context(), customerID(r.Context()), r.PathValue("productID"))
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) || errors.Is(err, cart.ErrNotFound) {
			writeError(w, http.StatusNotFound, "cart item not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}
