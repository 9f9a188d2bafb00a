package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type couponResponse struct {
	Code            string          `json:"code"`
	Type            string          `json:"type"`
	Value           decimal.Decimal `json:"value"`
	Description     string          `json:"description,omitempty"`
	MinimumAmount   decimal.Decimal `json:"minimum_amount"`
	MaximumDiscount decimal.Decimal `json:"maximum_discount"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
}

func (h *Handler) listCoupons(w http.ResponseWriter, r *http.Request) {
	rules, err := h.coupons.ListActive(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]couponResponse, len(rules))
	for i, rule := range rules {
		out[i] = couponResponse{
			Code:            rule.Code,
			Type:            string(rule.Type),
			Value:           rule.Value,
			Description:     rule.Description,
			MinimumAmount:   rule.MinimumAmount,
			MaximumDiscount: rule.MaximumDiscount,
			ValidUntil:      rule.ValidUntil,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type shippingMethodResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays int             `json:"estimated_days"`
}

func (h *Handler) listShippingMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.shipping.ListActive(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]shippingMethodResponse, len(methods))
	for i, m := range methods {
		out[i] = shippingMethodResponse{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			Price:         m.Price,
			EstimatedDays: m.EstimatedDays,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
