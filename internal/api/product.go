package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenloop/ecostore/internal/domain/product"
)

type productResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
}

func (h *Handler) toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Category:      p.Category,
		Brand:         p.Brand,
		Price:         p.Price,
		Image:         h.imageURL(p.ImageURL),
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(1),
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := product.Filter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeFieldErrors(w, map[string]string{"min_price": "must be a decimal number"})
			return
		}
		filter.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeFieldErrors(w, map[string]string{"max_price": "must be a decimal number"})
			return
		}
		filter.MaxPrice = &d
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = h.toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toProductResponse(*p))
}
