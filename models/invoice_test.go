package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotalEmptySet(t *testing.T) {
	total := ComputeTotal(nil)
	assert.True(t, total.Equal(dec("0.00")), "empty item set must yield 0.00, got %s", total)

	total = ComputeTotal([]InvoiceItem{})
	assert.True(t, total.IsZero())
}

func TestComputeTotalScenario(t *testing.T) {
	items := []InvoiceItem{
		{Item: "Design work", Quantity: 3, Rate: dec("20.00")},
		{Item: "Hosting", Quantity: 1, Rate: dec("20.00")},
	}
	total := ComputeTotal(items)
	require.True(t, total.Equal(dec("80.00")), "expected 80.00, got %s", total)

	// Removing the second item and recomputing drops the total by exactly
	// that item's subtotal.
	removedSubtotal := items[1].Subtotal()
	total = ComputeTotal(items[:1])
	assert.True(t, total.Equal(dec("60.00")), "expected 60.00, got %s", total)
	assert.True(t, dec("80.00").Sub(removedSubtotal).Equal(total))
}

func TestComputeTotalOrderIndependent(t *testing.T) {
	a := []InvoiceItem{
		{Quantity: 2, Rate: dec("9.99")},
		{Quantity: 7, Rate: dec("1.25")},
		{Quantity: 1, Rate: dec("100.00"), TaxRate: dec("0.2")},
	}
	b := []InvoiceItem{a[2], a[0], a[1]}
	assert.True(t, ComputeTotal(a).Equal(ComputeTotal(b)))
}

func TestSubtotalWithTax(t *testing.T) {
	it := InvoiceItem{Quantity: 2, Rate: dec("10.00"), TaxRate: dec("0.2")}
	assert.True(t, it.Subtotal().Equal(dec("24.00")), "got %s", it.Subtotal())
}

func TestSubtotalDecimalExactness(t *testing.T) {
	// 3 × 0.10 is exactly 0.30 in decimal; binary floats would drift.
	it := InvoiceItem{Quantity: 3, Rate: dec("0.10")}
	assert.Equal(t, "0.30", it.Subtotal().StringFixed(2))

	// Rounding at 2 places after the tax term.
	it = InvoiceItem{Quantity: 1, Rate: dec("19.99"), TaxRate: dec("0.1")}
	assert.Equal(t, "21.99", it.Subtotal().StringFixed(2))
}

func TestComputeTotalZeroQuantityItems(t *testing.T) {
	items := []InvoiceItem{
		{Quantity: 0, Rate: dec("500.00")},
		{Quantity: 4, Rate: dec("2.50")},
	}
	assert.True(t, ComputeTotal(items).Equal(dec("10.00")))
}
