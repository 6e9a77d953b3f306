package orderbook

import (
	"testing"

	"github.com/avelasquez/northwind-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCustomers = []models.Customer{
	{ID: "c-1", FirstName: "JOSÉ", LastName: "PÉREZ", Cedula: "1710034065"},
	{ID: "c-2", FirstName: "MARÍA", LastName: "SALAZAR", Cedula: "0926687856"},
}

var testOrders = []models.Order{
	{ID: 10, CustomerID: "c-1", ShipCity: "Quito", ShipCountry: "Ecuador",
		OrderDetails: []models.OrderDetail{
			{OrderID: 10, ProductID: 1, UnitPrice: 18, Quantity: 2},
			{OrderID: 10, ProductID: 2, UnitPrice: 19, Quantity: 1},
		}},
	{ID: 11, CustomerID: "c-2", ShipCity: "Guayaquil", ShipCountry: "Ecuador"},
	{ID: 12, CustomerID: "missing", ShipCity: "Cuenca", ShipCountry: "Ecuador"},
}

func TestCustomerName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "JOSÉ PÉREZ", CustomerName(testCustomers, "c-1"))
	assert.Equal(t, "missing", CustomerName(testCustomers, "missing"))
}

func TestTotals(t *testing.T) {
	t.Parallel()

	got := Totals(testOrders[0])
	require.Equal(t, 55.0, got.Subtotal)
	require.Equal(t, 55.0*0.15, got.Tax)
	require.Equal(t, 55.0*1.15, got.Total)

	assert.Zero(t, Totals(testOrders[1]).Total)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	all := Search(testOrders, testCustomers, "")
	require.Len(t, all, 3)

	byID := Search(testOrders, testCustomers, "11")
	require.Len(t, byID, 1)
	assert.Equal(t, 11, byID[0].ID)

	byName := Search(testOrders, testCustomers, "pérez")
	require.Len(t, byName, 1)
	assert.Equal(t, 10, byName[0].ID)

	byCity := Search(testOrders, testCustomers, "guaya")
	require.Len(t, byCity, 1)
	assert.Equal(t, 11, byCity[0].ID)

	byCountry := Search(testOrders, testCustomers, "ecuador")
	require.Len(t, byCountry, 3)

	assert.Empty(t, Search(testOrders, testCustomers, "bogotá"))
}
