package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/greenloop/ecostore/internal/domain/product"
	"github.com/greenloop/ecostore/internal/domain/review"
)

type reviewResponse struct {
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListApproved(r.Context(), r.PathValue("id"))
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = reviewResponse{
			Rating:    rv.Rating,
			Title:     rv.Title,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	var req addReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeFieldErrors(w, map[string]string{"rating": "must be between 1 and 5"})
		return
	}

	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		internalError(w, r, err)
		return
	}

	rv := &review.Review{
		ProductID:  p.ID,
		CustomerID: customerID(r.Context()),
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
	}
	if err := h.reviews.Create(r.Context(), rv); err != nil {
		if errors.Is(err, review.ErrAlreadyReviewed) {
			writeError(w, http.StatusConflict, "you have already reviewed this product")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Review submitted",
		"approved": rv.Approved,
	})
}
