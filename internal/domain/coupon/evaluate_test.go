package coupon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var evalNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestEvaluate_Percentage(t *testing.T) {
	rule := &Rule{Code: "SAVE10", Type: TypePercentage, Value: d("10"), Active: true}

	eval, err := Evaluate(rule, d("200.00"), evalNow)
	require.NoError(t, err)
	assert.True(t, eval.Applied)
	assert.True(t, d("20.00").Equal(eval.Discount))
}

func TestEvaluate_PercentageRounded(t *testing.T) {
	rule := &Rule{Code: "SAVE15", Type: TypePercentage, Value: d("15"), Active: true}

	eval, err := Evaluate(rule, d("19.99"), evalNow)
	require.NoError(t, err)
	assert.True(t, eval.Applied)
	// 15% of 19.99 = 2.9985, rounded to cents.
	assert.True(t, d("3.00").Equal(eval.Discount))
}

func TestEvaluate_PercentageCappedAtMaximum(t *testing.T) {
	rule := &Rule{
		Code:            "BIG30",
		Type:            TypePercentage,
		Value:           d("30"),
		MaximumDiscount: d("50"),
		Active:          true,
	}

	eval, err := Evaluate(rule, d("1000.00"), evalNow)
	require.NoError(t, err)
	assert.True(t, eval.Applied)
	assert.True(t, d("50.00").Equal(eval.Discount))
}

func TestEvaluate_FixedClampedToSubtotal(t *testing.T) {
	rule := &Rule{Code: "FLAT50", Type: TypeFixed, Value: d("50"), Active: true}

	eval, err := Evaluate(rule, d("30.00"), evalNow)
	require.NoError(t, err)
	assert.True(t, eval.Applied)
	assert.True(t, d("30.00").Equal(eval.Discount))
}

func TestEvaluate_BelowMinimum(t *testing.T) {
	rule := &Rule{
		Code:          "MIN100",
		Type:          TypePercentage,
		Value:         d("10"),
		MinimumAmount: d("100"),
		Active:        true,
	}

	eval, err := Evaluate(rule, d("50.00"), evalNow)
	require.NoError(t, err)
	assert.False(t, eval.Applied)
	assert.Equal(t, ReasonBelowMinimum, eval.Reason)
	assert.True(t, eval.Discount.IsZero())
}

func TestEvaluate_NotStarted(t *testing.T) {
	from := evalNow.Add(24 * time.Hour)
	rule := &Rule{Code: "SOON", Type: TypeFixed, Value: d("5"), ValidFrom: &from, Active: true}

	eval, err := Evaluate(rule, d("100.00"), evalNow)
	require.NoError(t, err)
	assert.False(t, eval.Applied)
	assert.Equal(t, ReasonNotStarted, eval.Reason)
}

func TestEvaluate_Expired(t *testing.T) {
	until := evalNow.Add(-time.Hour)
	rule := &Rule{Code: "GONE", Type: TypeFixed, Value: d("5"), ValidUntil: &until, Active: true}

	eval, err := Evaluate(rule, d("100.00"), evalNow)
	require.NoError(t, err)
	assert.False(t, eval.Applied)
	assert.Equal(t, ReasonExpired, eval.Reason)
}

func TestEvaluate_UsageExhausted(t *testing.T) {
	rule := &Rule{
		Code:       "LIMITED",
		Type:       TypePercentage,
		Value:      d("10"),
		UsageLimit: 5,
		UsedCount:  5,
		Active:     true,
	}

	eval, err := Evaluate(rule, d("100.00"), evalNow)
	require.NoError(t, err)
	assert.False(t, eval.Applied)
	assert.Equal(t, ReasonUsageExhausted, eval.Reason)
}

func TestEvaluate_ZeroUsageLimitIsUnlimited(t *testing.T) {
	rule := &Rule{
		Code:      "FOREVER",
		Type:      TypePercentage,
		Value:     d("10"),
		UsedCount: 100000,
		Active:    true,
	}

	eval, err := Evaluate(rule, d("100.00"), evalNow)
	require.NoError(t, err)
	assert.True(t, eval.Applied)
}

func TestEvaluate_UnknownType(t *testing.T) {
	rule := &Rule{Code: "WEIRD", Type: "free_shipping", Value: d("1"), Active: true}

	_, err := Evaluate(rule, d("100.00"), evalNow)
	require.Error(t, err)
}
