package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenloop/ecostore/internal/domain/cart"
	"github.com/greenloop/ecostore/internal/domain/coupon"
	"github.com/greenloop/ecostore/internal/domain/customer"
	"github.com/greenloop/ecostore/internal/domain/order"
)

type createOrderRequest struct {
	ShippingAddressID int64  `json:"shipping_address_id"`
	PaymentMethod     string `json:"payment_method"`
	CouponCode        string `json:"coupon_code"`
}

type createOrderResponse struct {
	OrderNumber    string          `json:"order_number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CouponApplied  bool            `json:"coupon_applied"`
	CouponReason   string          `json:"coupon_reason,omitempty"`
	Message        string          `json:"message"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.ShippingAddressID == 0 {
		fields["shipping_address_id"] = "required"
	}
	if req.PaymentMethod == "" {
		fields["payment_method"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), order.CheckoutRequest{
		CustomerID:        customerID(r.Context()),
		ShippingAddressID: req.ShippingAddressID,
		PaymentMethod:     req.PaymentMethod,
		CouponCode:        req.CouponCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidPaymentMethod):
			writeFieldErrors(w, map[string]string{"payment_method": "unsupported payment method"})
		case errors.Is(err, customer.ErrAddressNotFound):
			writeError(w, http.StatusNotFound, "shipping address not found")
		case errors.Is(err, cart.ErrEmpty):
			writeFieldErrors(w, map[string]string{"cart": "cart is empty"})
		case errors.Is(err, coupon.ErrInvalid):
			writeFieldErrors(w, map[string]string{"coupon_code": "invalid coupon code"})
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		OrderNumber:    result.Order.Number,
		TotalAmount:    result.Order.TotalAmount,
		DiscountAmount: result.Order.DiscountAmount,
		CouponApplied:  result.CouponApplied,
		CouponReason:   string(result.CouponReason),
		Message:        "Order created successfully",
	})
}

type orderItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type orderResponse struct {
	OrderNumber    string              `json:"order_number"`
	Status         string              `json:"status"`
	PaymentMethod  string              `json:"payment_method"`
	PaymentStatus  string              `json:"payment_status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	CouponCode     string              `json:"coupon_code,omitempty"`
	Items          []orderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (h *Handler) toOrderResponse(o order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, li := range o.Items {
		items[i] = orderItemResponse{
			ProductID:    li.ProductID,
			ProductName:  li.ProductName,
			ProductImage: h.imageURL(li.ProductImage),
			Quantity:     li.Quantity,
			UnitPrice:    li.UnitPrice,
			TotalPrice:   li.TotalPrice,
		}
	}
	return orderResponse{
		OrderNumber:    o.Number,
		Status:         string(o.Status),
		PaymentMethod:  string(o.PaymentMethod),
		PaymentStatus:  string(o.PaymentStatus),
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		CouponCode:     o.CouponCode,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByCustomer(r.Context(), customerID(r.Context()))
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = h.toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByNumber(r.Context(), customerID(r.Context()), r.PathValue("number"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toOrderResponse(*o))
}
