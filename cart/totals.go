package cart

import "github.com/shopspring/decimal"

var (
	taxRate           = decimal.RequireFromString("0.15")
	freeShippingAbove = decimal.NewFromInt(100)
	flatShipping      = decimal.NewFromInt(10)
)

// Totals are rounded half away from zero to two decimal places.
type Totals struct {
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Totals prices the cart: 15% tax, shipping free above 100 and 10
// otherwise.
func (c *Cart) Totals() Totals {
	return computeTotals(c.Items())
}

func computeTotals(items []LineItem) Totals {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}

	t := Totals{ItemsPrice: sum.Round(2)}
	t.TaxPrice = t.ItemsPrice.Mul(taxRate).Round(2)
	t.ShippingPrice = flatShipping
	if t.ItemsPrice.GreaterThan(freeShippingAbove) {
		t.ShippingPrice = decimal.Zero
	}
	t.TotalPrice = t.ItemsPrice.Add(t.TaxPrice).Add(t.ShippingPrice).Round(2)
	return t
}
