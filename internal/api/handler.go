// Package api exposes the storefront over HTTP. Handlers are thin: they
// decode, delegate to the domain, and map domain errors to status codes.
package api

import (
	"net/http"

	"github.com/greenloop/ecostore/internal/domain/auth"
	"github.com/greenloop/ecostore/internal/domain/cart"
	"github.com/greenloop/ecostore/internal/domain/coupon"
	"github.com/greenloop/ecostore/internal/domain/order"
	"github.com/greenloop/ecostore/internal/domain/product"
	"github.com/greenloop/ecostore/internal/domain/review"
	"github.com/greenloop/ecostore/internal/domain/shipping"
	"github.com/greenloop/ecostore/internal/domain/wishlist"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in responses.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
	// TokenPepper is the HMAC key for customer token hashing.
	TokenPepper []byte
}

// Handler serves the storefront API.
type Handler struct {
	products  product.Repository
	carts     cart.Repository
	checkout  *order.Service
	orders    order.Repository
	coupons   coupon.Repository
	wishlists wishlist.Repository
	reviews   review.Repository
	shipping  shipping.Repository
	tokens    auth.Repository

	imageBaseURL string
	pepper       []byte
}

// Deps bundles the Handler's domain dependencies.
type Deps struct {
	Products  product.Repository
	Carts     cart.Repository
	Checkout  *order.Service
	Orders    order.Repository
	Coupons   coupon.Repository
	Wishlists wishlist.Repository
	Reviews   review.Repository
	Shipping  shipping.Repository
	Tokens    auth.Repository
}

// NewHandler constructs a Handler.
func NewHandler(cfg Config, deps Deps) *Handler {
	return &Handler{
		products:     deps.Products,
		carts:        deps.Carts,
		checkout:     deps.Checkout,
		orders:       deps.Orders,
		coupons:      deps.Coupons,
		wishlists:    deps.Wishlists,
		reviews:      deps.Reviews,
		shipping:     deps.Shipping,
		tokens:       deps.Tokens,
		imageBaseURL: cfg.ImageBaseURL,
		pepper:       cfg.TokenPepper,
	}
}

// Routes returns the API route table. Catalog reads are public; everything
// touching a customer's data requires authentication.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/products/{id}/reviews", h.listReviews)
	mux.HandleFunc("GET /api/coupons", h.listCoupons)
	mux.HandleFunc("GET /api/shipping-methods", h.listShippingMethods)

	mux.HandleFunc("POST /api/products/{id}/reviews", h.authed(h.addReview))

	mux.HandleFunc("GET /api/cart", h.authed(h.getCart))
	mux.HandleFunc("POST /api/cart/items", h.authed(h.addCartItem))
	mux.HandleFunc("PATCH /api/cart/items/{productID}", h.authed(h.updateCartItem))
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.authed(h.removeCartItem))

	mux.HandleFunc("POST /api/orders/create_order", h.authed(h.createOrder))
	mux.HandleFunc("GET /api/orders", h.authed(h.listOrders))
	mux.HandleFunc("GET /api/orders/{number}", h.authed(h.getOrder))

	mux.HandleFunc("GET /api/wishlist", h.authed(h.listWishlist))
	mux.HandleFunc("POST /api/wishlist/items", h.authed(h.addWishlistItem))
	mux.HandleFunc("DELETE /api/wishlist/items/{productID}", h.authed(h.removeWishlistItem))

	return mux
}

func (h *Handler) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return h.imageBaseURL + path
}
