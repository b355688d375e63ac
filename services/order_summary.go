package services

import "github.com/shopspring/decimal"

// OrderSummary is the review breakdown shown next to the cart. It is not an
// order: nothing is charged or recorded.
type OrderSummary struct {
	Subtotal float64
	Tax      float64
	Total    float64
	TaxRate  float64
}

// CalcOrderSummary applies taxRate to subtotal, rounding tax and total to
// cents.
func CalcOrderSummary(subtotal, taxRate float64) OrderSummary {
	sub := decimal.NewFromFloat(subtotal).Round(2)
	tax := sub.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	return OrderSummary{
		Subtotal: sub.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    sub.Add(tax).InexactFloat64(),
		TaxRate:  taxRate,
	}
}
