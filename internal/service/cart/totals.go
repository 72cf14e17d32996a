package cart

import (
	"github.com/shopspring/decimal"

	"toystore/internal/domain"
)

// Summary is the cart view with its derived totals.
type Summary struct {
	Items          []domain.CartItem                      `json:"items"`
	TotalPrice     decimal.Decimal                        `json:"totalPrice"`
	TotalsByStatus map[domain.OrderStatus]decimal.Decimal `json:"totalsByStatus"`
	HasActiveItems bool                                   `json:"hasActiveItems"`
}

func lineTotal(item domain.CartItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Toy.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// TotalByStatus sums price*quantity over items in status.
func TotalByStatus(items []domain.CartItem, status domain.OrderStatus) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Status == status {
			total = total.Add(lineTotal(item))
		}
	}
	return total
}

// TotalPrice is the amount still to pay: reserved items only.
func TotalPrice(items []domain.CartItem) decimal.Decimal {
	return TotalByStatus(items, domain.StatusReserved)
}

// ItemsByStatus keeps the items in status, in cart order.
func ItemsByStatus(items []domain.CartItem, status domain.OrderStatus) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out
}

// HasActiveItems reports whether any item is not cancelled.
func HasActiveItems(items []domain.CartItem) bool {
	for _, item := range items {
		if item.Status != domain.StatusCancelled {
			return true
		}
	}
	return false
}

// Summarize builds the cart view for items.
func Summarize(items []domain.CartItem) Summary {
	if items == nil {
		items = []domain.CartItem{}
	}
	totals := make(map[domain.OrderStatus]decimal.Decimal, 3)
	for _, status := range []domain.OrderStatus{domain.StatusReserved, domain.StatusDelivered, domain.StatusCancelled} {
		totals[status] = TotalByStatus(items, status)
	}
	return Summary{
		Items:          items,
		TotalPrice:     totals[domain.StatusReserved],
		TotalsByStatus: totals,
		HasActiveItems: HasActiveItems(items),
	}
}
