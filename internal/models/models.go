package models

import "encoding/json"

// Wire shapes of the Northwind Sales backend. The client never owns this
// state; every struct here is a snapshot of the last successful fetch.

type Customer struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Cedula         string  `json:"cedula"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phoneNumber"`
	CurrentBalance float64 `json:"currentBalance"`
}

// FullName is the display label used in invoices and order listings.
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "" && c.LastName == "":
		return c.Cedula
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type Product struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	UnitsInStock int     `json:"unitsInStock"`
	UnitPrice    float64 `json:"unitPrice"`
}

// CartDetail is one cart entry as the backend stores it, keyed by
// customer and product.
type CartDetail struct {
	ProductID  int     `json:"productId"`
	CustomerID string  `json:"customerId"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
}

type OrderDetail struct {
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID             int           `json:"id"`
	CustomerID     string        `json:"customerId"`
	ShipAddress    string        `json:"shipAddress"`
	ShipCity       string        `json:"shipCity"`
	ShipCountry    string        `json:"shipCountry"`
	ShipPostalCode string        `json:"shipPostalCode"`
	OrderDate      string        `json:"orderDate,omitempty"`
	ShippingType   string        `json:"shippingType,omitempty"`
	Discount       float64       `json:"discount,omitempty"`
	OrderDetails   []OrderDetail `json:"orderDetails"`
}

type CreateOrderItem struct {
	ProductID int     `json:"productId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID     string            `json:"customerId"`
	ShipAddress    string            `json:"shipAddress"`
	ShipCity       string            `json:"shipCity"`
	ShipCountry    string            `json:"shipCountry"`
	ShipPostalCode string            `json:"shipPostalCode"`
	OrderDetails   []CreateOrderItem `json:"orderDetails"`
}

type UpdateOrderRequest struct {
	CustomerID     string `json:"customerId"`
	ShipAddress    string `json:"shipAddress"`
	ShipCity       string `json:"shipCity"`
	ShipCountry    string `json:"shipCountry"`
	ShipPostalCode string `json:"shipPostalCode"`
}

// User carries Roles as raw JSON because the backend serves them either as
// ["Administrator"] or as [{"id":..,"name":"Administrator"}]. The access
// package normalizes both forms.
type User struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	PhoneNumber    string          `json:"phoneNumber"`
	EmailConfirmed bool            `json:"emailConfirmed"`
	LockoutEnabled bool            `json:"lockoutEnabled"`
	LockoutEnd     *string         `json:"lockoutEnd"`
	Roles          json.RawMessage `json:"roles,omitempty"`
	Role           string          `json:"role,omitempty"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RegisterUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpdateUserRequest struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	PhoneNumber    string  `json:"phoneNumber"`
	EmailConfirmed bool    `json:"emailConfirmed"`
	LockoutEnabled bool    `json:"lockoutEnabled"`
	LockoutEnd     *string `json:"lockoutEnd"`
}

type DomainLog struct {
	ID          int    `json:"id"`
	CreatedDate string `json:"createdDate"`
	Information string `json:"information"`
	UserName    string `json:"userName"`
}
