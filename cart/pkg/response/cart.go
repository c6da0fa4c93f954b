package response

import (
	"github.com/shopspring/decimal"
)

// CartItem is one line of the cart as the gateway reports it. Every field is
// gateway-assigned; the client never invents ids or recomputes prices.
type CartItem struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// Cart is the authoritative cart snapshot. TotalPrice is the gateway-reported
// sum of line subtotals and wins over any client recomputation.
type Cart struct {
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the total quantity across all lines, shown on the cart badge.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItem returns the line with the given id from the believed snapshot.
func (c Cart) FindItem(itemID int64) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return CartItem{}, false
}
