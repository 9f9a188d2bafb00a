//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestHealthEndpoints(t *testing.T) {
	for _, path := range []string{"/livez", "/readyz"} {
		resp := doGet(t, path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		body := decodeJSON[healthResponse](t, resp)
		resp.Body.Close()
		if body.Status != "ok" {
			t.Errorf("%s: status %q, want ok", path, body.Status)
		}
	}
}

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 6 {
		t.Fatalf("got %d products, want 6", len(products))
	}
}

func TestListProducts_CategoryFilter(t *testing.T) {
	resp := doGet(t, "/api/products?category=kitchen")
	defer resp.Body.Close()

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 3 {
		t.Fatalf("got %d kitchen products, want 3", len(products))
	}
	for _, p := range products {
		if p.Category != "kitchen" {
			t.Errorf("product %s has category %q", p.ID, p.Category)
		}
	}
}

func TestListProducts_PriceSort(t *testing.T) {
	resp := doGet(t, "/api/products?sort=price_asc")
	defer resp.Body.Close()

	products := decodeJSON[[]productResponse](t, resp)
	for i := 1; i < len(products); i++ {
		if products[i].Price < products[i-1].Price {
			t.Fatalf("products not sorted by price ascending at index %d", i)
		}
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/eco-bottle-01")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.Name != "Insulated Steel Bottle" {
		t.Errorf("name: got %q", p.Name)
	}
	if !p.InStock {
		t.Error("expected product to be in stock")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/does-not-exist")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListCoupons(t *testing.T) {
	resp := doGet(t, "/api/coupons")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	coupons := decodeJSON[[]map[string]any](t, resp)
	if len(coupons) == 0 {
		t.Fatal("expected seeded coupons")
	}
}

func TestListShippingMethods(t *testing.T) {
	resp := doGet(t, "/api/shipping-methods")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	methods := decodeJSON[[]map[string]any](t, resp)
	if len(methods) != 3 {
		t.Fatalf("got %d shipping methods, want 3", len(methods))
	}
}

func TestRateLimitHeaders(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.Header.Get("X-RateLimit-Limit") == "" {
		t.Error("missing X-RateLimit-Limit header")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
