package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product is what the catalog reports for a product id.
type Product struct {
	ID        string
	Name      string
	Slug      string
	ImageURL  string
	Price     decimal.Decimal
	Available bool
}

// ProductLookup resolves product ids to catalog entries. Ids the catalog does
// not know are left out of the returned map.
type ProductLookup interface {
	LookupProducts(ctx context.Context, ids []string) (map[string]Product, error)
}

// DeliveryPolicy charges Percentage of the order total when the total is below
// FreeThreshold.
type DeliveryPolicy struct {
	FreeThreshold decimal.Decimal
	Percentage    decimal.Decimal
}

// Fee returns the delivery cost for an order total.
func (p DeliveryPolicy) Fee(orderTotal decimal.Decimal) decimal.Decimal {
	if orderTotal.LessThan(p.FreeThreshold) {
		return orderTotal.Mul(p.Percentage).Div(hundred)
	}
	return decimal.Zero
}

// LineItem is one product, or one size of a product, priced.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Summary is the priced view of a cart.
type Summary struct {
	Items                 []LineItem      `json:"items"`
	Total                 decimal.Decimal `json:"total"`
	ProductCount          int             `json:"product_count"`
	Delivery              decimal.Decimal `json:"delivery"`
	FreeDeliveryDelta     decimal.Decimal `json:"free_delivery_delta"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
	// Skipped lists product ids that are unknown to the catalog or no longer available.
	Skipped []string `json:"skipped,omitempty"`
}

// Totals prices every line of the cart and applies the delivery policy.
// Lines whose product is missing or unavailable are skipped and reported in
// Summary.Skipped; the cart itself is left untouched.
func Totals(ctx context.Context, c Cart, lookup ProductLookup, policy DeliveryPolicy) (*Summary, error) {
	summary := &Summary{
		Items:                 []LineItem{},
		Total:                 decimal.Zero,
		FreeDeliveryThreshold: policy.FreeThreshold,
	}

	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products := map[string]Product{}
	if len(ids) > 0 {
		var err error
		products, err = lookup.LookupProducts(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("lookup products: %w", err)
		}
	}

	for _, id := range ids {
		p, ok := products[id]
		if !ok || !p.Available {
			summary.Skipped = append(summary.Skipped, id)
			continue
		}
		e := c[id]
		if !e.Sized() {
			summary.addLine(p, "", e.Quantity)
			continue
		}
		sizes := make([]string, 0, len(e.ItemsBySize))
		for s := range e.ItemsBySize {
			sizes = append(sizes, s)
		}
		sort.Strings(sizes)
		for _, s := range sizes {
			summary.addLine(p, s, e.ItemsBySize[s])
		}
	}

	summary.Delivery = policy.Fee(summary.Total)
	if summary.Total.LessThan(policy.FreeThreshold) {
		summary.FreeDeliveryDelta = policy.FreeThreshold.Sub(summary.Total)
	} else {
		summary.FreeDeliveryDelta = decimal.Zero
	}
	summary.GrandTotal = summary.Total.Add(summary.Delivery)
	return summary, nil
}

func (s *Summary) addLine(p Product, size string, quantity int) {
	subtotal := p.Price.Mul(decimal.NewFromInt(int64(quantity)))
	s.Items = append(s.Items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		ImageURL:  p.ImageURL,
		Size:      size,
		Quantity:  quantity,
		UnitPrice: p.Price,
		Subtotal:  subtotal,
	})
	s.Total = s.Total.Add(subtotal)
	s.ProductCount += quantity
}

// MinorUnits converts an amount to the integer minor units a payment provider
// expects, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
