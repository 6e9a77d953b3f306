// Package cart holds the active shopping cart for one selected customer.
// The backend owns the cart; every mutation goes through it and the local
// line list mirrors the last confirmed state.
package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelasquez/northwind-admin/internal/models"
	"github.com/avelasquez/northwind-admin/internal/validate"
)

// TaxRate is the fixed IVA applied to every order.
const TaxRate = 0.15

// ErrValidation is re-exported so callers can gate on cart failures
// without importing validate.
var ErrValidation = validate.ErrValidation

// SalesAPI is the slice of the backend the cart needs. *apiclient.Client
// satisfies it.
type SalesAPI interface {
	CartByCustomer(ctx context.Context, customerID string) ([]models.CartDetail, error)
	AddCartDetail(ctx context.Context, d models.CartDetail) error
	UpdateCartDetail(ctx context.Context, d models.CartDetail) error
	DeleteCartDetail(ctx context.Context, customerID string, productID int) error
	ClearCart(ctx context.Context, customerID string) error
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (int, error)
}

// Line is one pending cart entry. ProductName is derived from the product
// snapshot, UnitPrice is frozen at add time.
type Line struct {
	ProductID   int
	ProductName string
	UnitPrice   float64
	Quantity    int
}

// Shipping is the destination block required to submit an order.
type Shipping struct {
	Address    string
	City       string
	Country    string
	PostalCode string
}

// Totals is always derived from the current lines, never stored apart
// from them.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
	Items    int
}

// ComputeTotals is the pure recompute over a line set: subtotal is the sum
// of price times quantity, tax is the fixed 15% and total their sum.
func ComputeTotals(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.UnitPrice * float64(l.Quantity)
		t.Items += l.Quantity
	}
	t.Tax = t.Subtotal * TaxRate
	t.Total = t.Subtotal + t.Tax
	return t
}

type Cart struct {
	api        SalesAPI
	customerID string
	lines      []Line
	products   []models.Product
}

func New(api SalesAPI) *Cart {
	return &Cart{api: api}
}

// SetProducts replaces the product snapshot used for name and price
// lookups. The slice is copied so a later reload elsewhere cannot alias
// into the cart.
func (c *Cart) SetProducts(products []models.Product) {
	c.products = append([]models.Product(nil), products...)
}

func (c *Cart) CustomerID() string { return c.customerID }

// Lines returns a copy of the current line set.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Totals recomputes from the current lines. Calling it twice without a
// mutation in between yields identical results.
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.lines)
}

// SwitchCustomer discards the in-memory cart and mirrors the cart the
// backend holds for the new customer. An empty id just empties the view.
func (c *Cart) SwitchCustomer(ctx context.Context, customerID string) error {
	c.customerID = customerID
	c.lines = nil
	if customerID == "" {
		return nil
	}
	return c.Reload(ctx)
}

// Reload fetches the backend cart for the active customer and rebuilds the
// line list, deriving product names from the snapshot.
func (c *Cart) Reload(ctx context.Context) error {
	if c.customerID == "" {
		return nil
	}

	details, err := c.api.CartByCustomer(ctx, c.customerID)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	lines := make([]Line, 0, len(details))
	for _, d := range details {
		lines = append(lines, Line{
			ProductID:   d.ProductID,
			ProductName: c.productName(d.ProductID),
			UnitPrice:   d.UnitPrice,
			Quantity:    d.Quantity,
		})
	}
	c.lines = lines
	return nil
}

func (c *Cart) productName(id int) string {
	for _, p := range c.products {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("Product #%d", id)
}

func (c *Cart) findProduct(id int) (models.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// AddLine appends a line for the product, snapshotting its current unit
// price. A later product price change does not touch lines already added.
func (c *Cart) AddLine(ctx context.Context, productID, quantity int) error {
	if c.customerID == "" {
		return fmt.Errorf("select a customer first: %w", ErrValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero: %w", ErrValidation)
	}
	product, ok := c.findProduct(productID)
	if !ok {
		return fmt.Errorf("product %d not found: %w", productID, ErrValidation)
	}

	err := c.api.AddCartDetail(ctx, models.CartDetail{
		ProductID:  product.ID,
		CustomerID: c.customerID,
		UnitPrice:  product.UnitPrice,
		Quantity:   quantity,
	})
	if err != nil {
		return fmt.Errorf("add cart detail: %w", err)
	}
	return c.Reload(ctx)
}

// UpdateLineQuantity changes the quantity of an existing line. A
// non-positive quantity is silently corrected to 1 instead of rejected.
func (c *Cart) UpdateLineQuantity(ctx context.Context, productID, quantity int) error {
	if c.customerID == "" {
		return fmt.Errorf("select a customer first: %w", ErrValidation)
	}
	if quantity < 1 {
		quantity = 1
	}

	line, ok := c.findLine(productID)
	if !ok {
		return fmt.Errorf("product %d is not in the cart: %w", productID, ErrValidation)
	}

	err := c.api.UpdateCartDetail(ctx, models.CartDetail{
		ProductID:  productID,
		CustomerID: c.customerID,
		UnitPrice:  line.UnitPrice,
		Quantity:   quantity,
	})
	if err != nil {
		return fmt.Errorf("update cart detail: %w", err)
	}
	return c.Reload(ctx)
}

func (c *Cart) findLine(productID int) (Line, bool) {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// RemoveLine deletes one line. Confirmation is the caller's business; the
// engine just performs the removal.
func (c *Cart) RemoveLine(ctx context.Context, productID int) error {
	if c.customerID == "" {
		return fmt.Errorf("select a customer first: %w", ErrValidation)
	}
	if _, ok := c.findLine(productID); !ok {
		return fmt.Errorf("product %d is not in the cart: %w", productID, ErrValidation)
	}
	if err := c.api.DeleteCartDetail(ctx, c.customerID, productID); err != nil {
		return fmt.Errorf("delete cart detail: %w", err)
	}
	return c.Reload(ctx)
}

// Clear empties the backend cart of the active customer.
func (c *Cart) Clear(ctx context.Context) error {
	if c.customerID == "" {
		return fmt.Errorf("select a customer first: %w", ErrValidation)
	}
	if err := c.api.ClearCart(ctx, c.customerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return c.Reload(ctx)
}

// SubmitOrder turns the cart into a single order-creation request. The
// cart is only reloaded after the backend confirms, so a failed submit
// leaves the lines untouched.
func (c *Cart) SubmitOrder(ctx context.Context, ship Shipping) (int, error) {
	if c.customerID == "" {
		return 0, fmt.Errorf("select a customer first: %w", ErrValidation)
	}
	if len(c.lines) == 0 {
		return 0, fmt.Errorf("cart is empty: %w", ErrValidation)
	}

	ship.Address = strings.TrimSpace(ship.Address)
	ship.City = strings.TrimSpace(ship.City)
	ship.Country = strings.TrimSpace(ship.Country)
	ship.PostalCode = strings.TrimSpace(ship.PostalCode)

	switch {
	case ship.Address == "":
		return 0, fmt.Errorf("shipping address is required: %w", ErrValidation)
	case ship.City == "":
		return 0, fmt.Errorf("shipping city is required: %w", ErrValidation)
	case ship.Country == "":
		return 0, fmt.Errorf("shipping country is required: %w", ErrValidation)
	case ship.PostalCode == "":
		return 0, fmt.Errorf("shipping postal code is required: %w", ErrValidation)
	}

	req := models.CreateOrderRequest{
		CustomerID:     c.customerID,
		ShipAddress:    ship.Address,
		ShipCity:       ship.City,
		ShipCountry:    ship.Country,
		ShipPostalCode: ship.PostalCode,
	}
	for _, l := range c.lines {
		req.OrderDetails = append(req.OrderDetails, models.CreateOrderItem{
			ProductID: l.ProductID,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}

	orderID, err := c.api.CreateOrder(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	if err := c.Reload(ctx); err != nil {
		return orderID, err
	}
	return orderID, nil
}
