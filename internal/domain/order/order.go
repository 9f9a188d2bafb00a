package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status tracks an order through fulfillment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus tracks the collection state of an order's payment.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethod is the customer's chosen way to pay.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
	MethodUPI        PaymentMethod = "upi"
	MethodNetBanking PaymentMethod = "net_banking"
	MethodWallet     PaymentMethod = "wallet"
	MethodCOD        PaymentMethod = "cod"
)

// ErrInvalidPaymentMethod is returned when a payment method is outside the
// supported set.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ParsePaymentMethod validates a raw payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case MethodCreditCard, MethodDebitCard, MethodUPI, MethodNetBanking, MethodWallet, MethodCOD:
		return m, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Order is an immutable record of a completed checkout, derived once from a
// cart. Only the status fields change after creation.
type Order struct {
	ID                string
	Number            string
	CustomerID        int64
	ShippingAddressID int64
	PaymentMethod     PaymentMethod
	Status            Status
	PaymentStatus     PaymentStatus
	Subtotal          decimal.Decimal
	DiscountAmount    decimal.Decimal
	TotalAmount       decimal.Decimal
	CouponCode        string
	Items             []LineItem
	CreatedAt         time.Time
}

// LineItem is an immutable snapshot of one cart line, copied at checkout.
type LineItem struct {
	ProductID    string
	ProductName  string
	ProductImage string
	Quantity     int
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
}

// PaymentIntent records the obligation to collect payment for an order. It is
// created once per order, starts unpaid, and is distinct from any gateway
// settlement.
type PaymentIntent struct {
	ID        string
	OrderID   string
	Amount    decimal.Decimal
	Method    PaymentMethod
	Status    PaymentStatus
	CreatedAt time.Time
}

// Repository defines read operations over persisted orders.
type Repository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	GetByNumber(ctx context.Context, customerID int64, number string) (*Order, error)
}
