package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrTokenNotFound is returned when no token matches a hash.
var ErrTokenNotFound = errors.New("token not found")

// Token is an API token identifying a customer. Only the HMAC-SHA256 digest
// of the token value is ever stored.
type Token struct {
	ID         int64
	CustomerID int64
	TokenHash  string
	Name       string
}

// Repository provides lookup of tokens by their hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*Token, error)
}
