// Package orderbook provides the read side of the orders screen:
// free-text search over a fetched order list and per-order totals.
package orderbook

import (
	"strconv"
	"strings"

	"github.com/avelasquez/northwind-admin/internal/cart"
	"github.com/avelasquez/northwind-admin/internal/models"
)

// CustomerName resolves a display name from the customer snapshot,
// falling back to the raw id when the customer is unknown.
func CustomerName(customers []models.Customer, customerID string) string {
	for _, c := range customers {
		if c.ID == customerID {
			return c.FullName()
		}
	}
	return customerID
}

// Totals derives subtotal, 15% tax and total from an order's details.
func Totals(o models.Order) cart.Totals {
	lines := make([]cart.Line, 0, len(o.OrderDetails))
	for _, d := range o.OrderDetails {
		lines = append(lines, cart.Line{
			ProductID: d.ProductID,
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
		})
	}
	return cart.ComputeTotals(lines)
}

// Search filters orders by a free-text query matched against the order
// id, customer name, city and country. An empty query returns a copy of
// the input.
func Search(orders []models.Order, customers []models.Customer, query string) []models.Order {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]models.Order(nil), orders...)
	}

	var matched []models.Order
	for _, o := range orders {
		haystack := strings.ToLower(strings.Join([]string{
			strconv.Itoa(o.ID),
			CustomerName(customers, o.CustomerID),
			o.ShipCity,
			o.ShipCountry,
		}, " "))
		if strings.Contains(haystack, query) {
			matched = append(matched, o)
		}
	}
	return matched
}
