package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

type customerIDKey struct{}

// customerID extracts the authenticated customer ID from the context.
func customerID(ctx context.Context) int64 {
	id, _ := ctx.Value(customerIDKey{}).(int64)
	return id
}

// HashToken computes the stored form of a customer token: hex-encoded
// HMAC-SHA256 under the configured pepper.
func HashToken(token string, pepper []byte) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// authed wraps a handler with bearer-token authentication. The token is
// hashed, looked up, and compared in constant time; on success the customer
// ID is stored in the request context.
func (h *Handler) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		mac := hmac.New(sha256.New, h.pepper)
		mac.Write([]byte(token))
		sum := mac.Sum(nil)

		info, err := h.tokens.FindByHash(r.Context(), hex.EncodeToString(sum))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Constant-time comparison guards against timing side-channels even
		// though the lookup already succeeded.
		stored, err := hex.DecodeString(info.TokenHash)
		if err != nil || subtle.ConstantTimeCompare(sum, stored) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), customerIDKey{}, info.CustomerID)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
