package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	li := LineItem{UnitPrice: d("19.99"), Quantity: 3}
	assert.True(t, d("59.97").Equal(li.LineTotal()))
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{UnitPrice: d("10.00"), Quantity: 2},
		{UnitPrice: d("4.50"), Quantity: 1},
	}
	assert.True(t, d("24.50").Equal(Subtotal(items)))
}

func TestSubtotal_Empty(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())
}

func TestCartTotals(t *testing.T) {
	c := &Cart{Items: []LineItem{
		{UnitPrice: d("5.00"), Quantity: 2},
		{UnitPrice: d("1.25"), Quantity: 4},
	}}
	assert.Equal(t, 6, c.TotalItems())
	assert.True(t, d("15.00").Equal(c.TotalAmount()))
}
